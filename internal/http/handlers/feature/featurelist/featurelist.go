// Package featurelist реализует HTTP-обработчик справочника характеристик.
package featurelist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/stepanenkodv/realty-board/internal/http/response"
	"github.com/stepanenkodv/realty-board/internal/lib/sl"
	"github.com/stepanenkodv/realty-board/internal/models"
)

// Handler управляет HTTP-запросами на справочник характеристик.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс справочника характеристик.
type Service interface {
	FeaturesForCategory(ctx context.Context, category string) ([]*models.FeatureDefinition, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Справочник характеристик
// @Description Возвращает характеристики, применимые к категории недвижимости.
// @Tags Features
// @Produce  json
// @Param category query string true "Категория недвижимости"
// @Success 200 {object} map[string]any "Список характеристик"
// @Failure 400 {object} response.ErrorResponse "Категория не передана"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /features [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.feature.featurelist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	category := r.URL.Query().Get("category")
	if category == "" {
		log.Error("category query parameter missing")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("category is required"))
		return
	}

	features, err := h.service.FeaturesForCategory(r.Context(), category)
	if err != nil {
		log.Error("failed to list features", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list features"))
		return
	}

	log.Info("features listed", slog.String("category", category), slog.Int("count", len(features)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"category": category,
		"features": features,
	}))
}
