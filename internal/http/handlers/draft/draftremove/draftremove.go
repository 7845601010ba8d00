// Package draftremove реализует HTTP-обработчик удаления черновика.
//
// Удаление идемпотентно: повторный запрос для уже удаленного черновика успешен.
package draftremove

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
	draftsvc "github.com/stepanenkodv/realty-board/internal/services/draft"
)

// Handler управляет HTTP-запросами на удаление черновика.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики мастера черновиков.
type Service interface {
	Delete(ctx context.Context, id, userUID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить черновик
// @Description Удаляет черновик текущего пользователя. Повторное удаление не ошибка.
// @Tags Drafts
// @Produce  json
// @Param id path string true "Идентификатор черновика"
// @Success 200 {object} map[string]any "Черновик удален"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Черновик принадлежит другому пользователю"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /drafts/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.draft.draftremove"
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
	if err := h.service.Delete(r.Context(), id, userUID); err != nil {
		if errors.Is(err, draftsvc.ErrForbidden) {
			log.Error("draft belongs to another user", slog.String("draft_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("draft not found"))
			return
		}
		log.Error("failed to delete draft", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete draft"))
		return
	}

	log.Info("draft deleted", slog.String("draft_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "draft deleted",
	}))
}
