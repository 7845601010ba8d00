// Package draftread реализует HTTP-обработчик чтения черновика объявления.
//
// Несуществующий и чужой черновик неразличимы для клиента: оба случая
// возвращают 404 с подсказкой начать объявление заново.
package draftread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/stepanenkodv/realty-board/internal/http/middlewarectx"
	"github.com/stepanenkodv/realty-board/internal/http/response"
	"github.com/stepanenkodv/realty-board/internal/lib/sl"
	"github.com/stepanenkodv/realty-board/internal/models"
	draftsvc "github.com/stepanenkodv/realty-board/internal/services/draft"
)

// Handler управляет HTTP-запросами на чтение черновика.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики мастера черновиков.
type Service interface {
	GetForOwner(ctx context.Context, id, userUID string) (*models.PropertyDraft, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Прочитать черновик
// @Description Возвращает черновик текущего пользователя: документ мастера и номер шага.
// @Tags Drafts
// @Produce  json
// @Param id path string true "Идентификатор черновика"
// @Success 200 {object} map[string]any "Черновик"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Черновик не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /drafts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.draft.draftread"
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

	id := chi.URLParam(r, "id")
	draft, err := h.service.GetForOwner(r.Context(), id, userUID)
	if err != nil {
		if errors.Is(err, draftsvc.ErrNotFound) || errors.Is(err, draftsvc.ErrForbidden) {
			log.Error("draft not available", slog.String("draft_id", id), sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Response{
				Status: response.StatusError,
				Error:  "draft not found",
				Data:   map[string]any{"hint": "start a new listing from POST /drafts"},
			})
			return
		}
		log.Error("failed to read draft", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read draft"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"draft_id":   draft.ID,
		"step":       draft.Step,
		"payload":    draft.Payload,
		"updated_at": draft.UpdatedAt,
	}))
}
