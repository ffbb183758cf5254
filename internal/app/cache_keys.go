package app

import (
	"fmt"
	"time"
)

// Время жизни кэшируемых значений.
const (
	noteCacheTTL  = 5 * time.Minute
	statsCacheTTL = time.Minute
)

// noteCacheKey возвращает ключ кэша для одной заметки пользователя.
func noteCacheKey(userID, noteID string) string {
	return fmt.Sprintf("notes:user:%s:note:%s", userID, noteID)
}

// statsCacheKey возвращает ключ кэша для статистики пользователя.
func statsCacheKey(userID string) string {
	return fmt.Sprintf("notes:user:%s:stats", userID)
}
