// Package quotainfo реализует HTTP-обработчик состояния квоты публикаций.
package quotainfo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/stepanenkodv/realty-board/internal/http/middlewarectx"
	"github.com/stepanenkodv/realty-board/internal/http/response"
	"github.com/stepanenkodv/realty-board/internal/lib/sl"
	"github.com/stepanenkodv/realty-board/internal/models"
	quota "github.com/stepanenkodv/realty-board/internal/services/quota"
)

// Handler управляет HTTP-запросами на получение состояния квоты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики квоты.
type Service interface {
	State(ctx context.Context, userUID string) (*models.QuotaState, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Состояние квоты публикаций
// @Description Возвращает остаток публикаций текущего пользователя и его тариф.
// @Tags Plans
// @Produce  json
// @Success 200 {object} models.QuotaState "Состояние квоты"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет действующей подписки"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /quota [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.quotainfo"
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

	state, err := h.service.State(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, quota.ErrNoActiveSubscription) {
			log.Error("no active subscription")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("no active subscription"))
			return
		}
		log.Error("failed to get quota state", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get quota state"))
		return
	}

	render.JSON(w, r, response.OKWithData(state))
}
