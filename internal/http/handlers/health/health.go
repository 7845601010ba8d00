// Package health реализует проверку работоспособности сервиса.
// Отдаёт 200, пока база данных готова принимать запросы, иначе 503.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/stepanenkodv/realty-board/internal/http/response"
	"github.com/stepanenkodv/realty-board/internal/lib/sl"
)

// ReadinessChecker сообщает, готово ли хранилище обслуживать запросы.
type ReadinessChecker interface {
	CheckReady(ctx context.Context) error
}

type Handler struct {
	log     *slog.Logger
	storage ReadinessChecker
}

func New(log *slog.Logger, storage ReadinessChecker) *Handler {
	return &Handler{
		log:     log,
		storage: storage,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.CheckReady(r.Context()); err != nil {
		h.log.Error("storage is not ready", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("service unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
