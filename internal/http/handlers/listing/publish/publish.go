// Package publish реализует HTTP-обработчик публикации черновика.
//
// Ошибка квоты возвращает 409 с остатком и тарифом. Частичная публикация
// (объявление создано, но учёт квоты не прошёл) возвращает 200 с
// идентификатором и пояснением.
package publish

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
	publishsvc "github.com/stepanenkodv/realty-board/internal/services/publish"
	quota "github.com/stepanenkodv/realty-board/internal/services/quota"
)

// Handler управляет HTTP-запросами на публикацию черновика.
type Handler struct {
	log     *slog.Logger
	service Service
	quota   QuotaService
}

// Service описывает интерфейс рабочего процесса публикации.
type Service interface {
	Publish(ctx context.Context, draftID, userUID, username string) (*publishsvc.PublishResult, error)
}

// QuotaService отдает состояние квоты для тела ответа 409.
type QuotaService interface {
	State(ctx context.Context, userUID string) (*models.QuotaState, error)
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, service Service, quotaService QuotaService) *Handler {
	return &Handler{
		log:     log,
		service: service,
		quota:   quotaService,
	}
}

// ServeHTTP godoc
// @Summary Опубликовать черновик
// @Description Превращает готовый черновик в опубликованное объявление и удаляет черновик.
// @Tags Listings
// @Produce  json
// @Param id path string true "Идентификатор черновика"
// @Success 200 {object} map[string]any "Идентификатор объявления"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет действующей подписки"
// @Failure 404 {object} response.ErrorResponse "Черновик не найден"
// @Failure 409 {object} response.ErrorResponse "Квота публикаций исчерпана"
// @Failure 422 {object} response.ErrorResponse "Черновик не заполнен до конца"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /drafts/{id}/publish [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.listing.publish"
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
	username, _ := r.Context().Value(middlewarectx.User).(string)

	draftID := chi.URLParam(r, "id")
	result, err := h.service.Publish(r.Context(), draftID, userUID, username)
	if err != nil {
		switch {
		case errors.Is(err, draftsvc.ErrNotFound), errors.Is(err, draftsvc.ErrForbidden):
			log.Error("draft not available", slog.String("draft_id", draftID), sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Response{
				Status: response.StatusError,
				Error:  "draft not found",
				Data:   map[string]any{"hint": "start a new listing from POST /drafts"},
			})
		case errors.Is(err, quota.ErrQuotaExceeded):
			log.Error("publication quota exceeded", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusConflict)
			state, serr := h.quota.State(r.Context(), userUID)
			if serr != nil {
				render.JSON(w, r, response.Error("publication quota exceeded"))
				return
			}
			render.JSON(w, r, response.Response{
				Status: response.StatusError,
				Error:  "publication quota exceeded",
				Data:   state,
			})
		case errors.Is(err, quota.ErrNoActiveSubscription):
			log.Error("no active subscription", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("no active subscription"))
		case errors.Is(err, publishsvc.ErrIncompleteDraft):
			log.Error("draft is incomplete", slog.String("draft_id", draftID))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("draft is missing required fields"))
		default:
			log.Error("failed to publish draft", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not publish draft"))
		}
		return
	}

	log.Info("draft published", slog.Int("property_id", result.PropertyID))
	render.JSON(w, r, response.OKWithData(result))
}
