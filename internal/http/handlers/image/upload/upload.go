// Package upload реализует HTTP-обработчик загрузки изображений объявления.
//
// Файл попадает во временное хранилище; постоянным изображение становится
// только при публикации объявления. Ключ возвращается клиенту и хранится
// мастером в черновике.
package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/stepanenkodv/realty-board/internal/http/response"
	"github.com/stepanenkodv/realty-board/internal/imagestore"
	"github.com/stepanenkodv/realty-board/internal/lib/sl"
)

// Handler управляет HTTP-запросами на загрузку изображений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс временного хранилища изображений.
type Service interface {
	SaveTemporary(ctx context.Context, r io.Reader, size int64, contentType string) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Загрузить изображение
// @Description Принимает файл из multipart-поля image и кладет его во временное хранилище.
// @Tags Images
// @Accept  multipart/form-data
// @Produce  json
// @Param image formData file true "Файл изображения, до 5 МБ"
// @Success 200 {object} map[string]any "Ключ загруженного файла"
// @Failure 400 {object} response.ErrorResponse "Файл не передан"
// @Failure 413 {object} response.ErrorResponse "Файл слишком большой"
// @Failure 415 {object} response.ErrorResponse "Неподдерживаемый тип файла"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /images [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.image.upload"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseMultipartForm(imagestore.MaxImageSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		log.Error("image file missing", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("image file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	handle, err := h.service.SaveTemporary(r.Context(), file, header.Size, contentType)
	if err != nil {
		switch {
		case errors.Is(err, imagestore.ErrTooLarge):
			log.Error("image too large", slog.Int64("size", header.Size))
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			render.JSON(w, r, response.Error("image exceeds the 5 MB limit"))
		case errors.Is(err, imagestore.ErrBadContentType):
			log.Error("unsupported content type", slog.String("content_type", contentType))
			w.WriteHeader(http.StatusUnsupportedMediaType)
			render.JSON(w, r, response.Error("unsupported image type"))
		default:
			log.Error("failed to save image", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not save image"))
		}
		return
	}

	log.Info("image uploaded", slog.String("handle", handle))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"handle": handle,
	}))
}
