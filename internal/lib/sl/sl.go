// Package sl содержит вспомогательные функции для структурированного
// логирования через slog.
package sl

import "log/slog"

// Err возвращает атрибут "error" с текстом ошибки для передачи в логгер:
//
//	log.Error("failed to publish draft", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}
