// Package clock предоставляет инжектируемый источник текущего времени.
// Сервисы, зависящие от "сейчас" (квоты, окна подписок, свип черновиков),
// принимают Clock вместо прямых вызовов time.Now, что делает тесты
// детерминированными.
package clock

import "time"

// Clock — источник текущего времени.
type Clock interface {
	Now() time.Time
}

// UTC возвращает текущее время в UTC.
type UTC struct{}

// Now реализует Clock.
func (UTC) Now() time.Time { return time.Now().UTC() }

// Fixed — часы, всегда возвращающие заданный момент. Используются в тестах.
type Fixed struct {
	T time.Time
}

// Now реализует Clock.
func (f Fixed) Now() time.Time { return f.T }
