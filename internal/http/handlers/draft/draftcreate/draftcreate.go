// Package draftcreate реализует HTTP-обработчик создания черновика объявления.
package draftcreate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/stepanenkodv/realty-board/internal/http/middlewarectx"
	"github.com/stepanenkodv/realty-board/internal/http/response"
	"github.com/stepanenkodv/realty-board/internal/lib/sl"
)

// Handler управляет HTTP-запросами на создание черновика.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики мастера черновиков.
type Service interface {
	Create(ctx context.Context, userUID string) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Начать черновик объявления
// @Description Создает пустой черновик на первом шаге мастера и возвращает его идентификатор.
// @Tags Drafts
// @Produce  json
// @Success 200 {object} map[string]any "Идентификатор черновика"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет действующей подписки"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /drafts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.draft.draftcreate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Create(r.Context(), userUID)
	if err != nil {
		log.Error("failed to create draft", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create draft"))
		return
	}

	log.Info("draft created", slog.String("draft_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"draft_id": id,
	}))
}
