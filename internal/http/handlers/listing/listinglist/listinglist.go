// Package listinglist реализует HTTP-обработчик витрины опубликованных объявлений.
package listinglist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/stepanenkodv/realty-board/internal/http/response"
	"github.com/stepanenkodv/realty-board/internal/lib/sl"
	"github.com/stepanenkodv/realty-board/internal/models"
)

// Максимальный и дефолтный размер страницы витрины.
const (
	defaultLimit = 20
	maxLimit     = 100
)

// Handler управляет HTTP-запросами на список объявлений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс выдачи объявлений.
type Service interface {
	List(ctx context.Context, filter models.ListingFilter) ([]*models.PropertyCard, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Витрина объявлений
// @Description Возвращает опубликованные объявления с фильтрами по операции, категории, городу и цене.
// @Tags Listings
// @Produce  json
// @Param operation query string false "Тип операции: sale или rent"
// @Param category query string false "Категория недвижимости"
// @Param city query string false "Город"
// @Param price_min query int false "Нижняя граница цены"
// @Param price_max query int false "Верхняя граница цены"
// @Param limit query int false "Размер страницы, по умолчанию 20"
// @Param offset query int false "Смещение страницы"
// @Success 200 {object} map[string]any "Список объявлений"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /listings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.listing.listinglist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := parseFilter(r)
	cards, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list listings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list listings"))
		return
	}

	log.Info("listings listed", slog.Int("count", len(cards)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"listings": cards,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	}))
}

func parseFilter(r *http.Request) models.ListingFilter {
	q := r.URL.Query()
	filter := models.ListingFilter{
		Operation: q.Get("operation"),
		Category:  q.Get("category"),
		City:      q.Get("city"),
		Limit:     defaultLimit,
	}
	if v, err := strconv.Atoi(q.Get("price_min")); err == nil && v > 0 {
		filter.PriceMin = v
	}
	if v, err := strconv.Atoi(q.Get("price_max")); err == nil && v > 0 {
		filter.PriceMax = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 && v <= maxLimit {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		filter.Offset = v
	}
	return filter
}
