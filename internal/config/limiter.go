package config

import "time"

// LimiterConfig содержит настройки ограничения частоты запросов
// для публичных эндпоинтов аутентификации.
type LimiterConfig struct {
	Enabled bool          `yaml:"enabled" env:"NOTEKEEP_LIMITER_ENABLED" env-default:"true"`
	Max     int           `yaml:"max" env:"NOTEKEEP_LIMITER_MAX" env-default:"5"`
	Window  time.Duration `yaml:"window" env:"NOTEKEEP_LIMITER_WINDOW" env-default:"1m"`
}
