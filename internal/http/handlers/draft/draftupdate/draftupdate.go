// Package draftupdate реализует HTTP-обработчик сохранения шага мастера.
//
// Обновление перезаписывает документ черновика целиком, слияния полей нет.
package draftupdate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/stepanenkodv/realty-board/internal/http/middlewarectx"
	"github.com/stepanenkodv/realty-board/internal/http/response"
	"github.com/stepanenkodv/realty-board/internal/lib/sl"
	"github.com/stepanenkodv/realty-board/internal/models"
	draftsvc "github.com/stepanenkodv/realty-board/internal/services/draft"
)

// Handler управляет HTTP-запросами на обновление черновика.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики мастера черновиков.
type Service interface {
	Update(ctx context.Context, id, userUID string, req models.DummyDraftUpdate) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сохранить шаг мастера
// @Description Перезаписывает документ черновика и номер текущего шага.
// @Tags Drafts
// @Accept  json
// @Produce  json
// @Param id path string true "Идентификатор черновика"
// @Param request body models.DummyDraftUpdate true "Документ мастера и шаг"
// @Success 200 {object} map[string]any "Черновик сохранен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Черновик не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /drafts/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.draft.draftupdate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyDraftUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.Update(r.Context(), id, userUID, req); err != nil {
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
		log.Error("failed to update draft", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update draft"))
		return
	}

	log.Info("draft updated", slog.String("draft_id", id), slog.Int("step", req.Step))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"draft_id": id,
		"step":     req.Step,
	}))
}
