package config

// TasksConfig содержит настройки фоновых задач обслуживания.
type TasksConfig struct {
	// TokenCleanupSchedule - cron-расписание очистки истекших refresh токенов.
	TokenCleanupSchedule string `yaml:"token_cleanup_schedule" env:"NOTEKEEP_TASKS_TOKEN_CLEANUP_SCHEDULE" env-default:"0 3 * * *"`
}
