// Package realtyboard предоставляет маршруты для основного приложения.
package realtyboard

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/stepanenkodv/realty-board/internal/http/handlers/auth/googlelogin"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/auth/login"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/auth/register"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/auth/resetconfirm"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/auth/resetrequest"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/auth/verifyemail"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/draft/draftcreate"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/draft/draftread"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/draft/draftremove"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/draft/draftupdate"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/feature/featurelist"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/health"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/image/upload"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/listing/listinglist"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/listing/listingread"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/listing/publish"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/plan/planlist"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/plan/quotainfo"
	"github.com/stepanenkodv/realty-board/internal/http/handlers/plan/subscribe"
	"github.com/stepanenkodv/realty-board/internal/http/middlewarectx"
	"github.com/stepanenkodv/realty-board/internal/imagestore"
	authservice "github.com/stepanenkodv/realty-board/internal/services/auth"
	catalogservice "github.com/stepanenkodv/realty-board/internal/services/catalog"
	draftservice "github.com/stepanenkodv/realty-board/internal/services/draft"
	publishservice "github.com/stepanenkodv/realty-board/internal/services/publish"
	quotaservice "github.com/stepanenkodv/realty-board/internal/services/quota"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	quotaService *quotaservice.QuotaService,
	draftService *draftservice.DraftService,
	catalogService *catalogservice.CatalogService,
	publishService *publishservice.PublishService,
	images *imagestore.Store,
	storage health.ReadinessChecker) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Post("/auth/google", googlelogin.New(logger, authService).ServeHTTP)
		r.Get("/auth/verify", verifyemail.New(logger, authService).ServeHTTP)
		r.Post("/auth/reset/request", resetrequest.New(logger, authService).ServeHTTP)
		r.Post("/auth/reset/confirm", resetconfirm.New(logger, authService).ServeHTTP)

		r.Get("/plans", planlist.New(logger, quotaService).ServeHTTP)
		r.Get("/features", featurelist.New(logger, catalogService).ServeHTTP)
		r.Get("/listings", listinglist.New(logger, publishService).ServeHTTP)
		r.Get("/listings/{id}", listingread.New(logger, publishService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/subscriptions", subscribe.New(logger, quotaService).ServeHTTP)
			r.Get("/quota", quotainfo.New(logger, quotaService).ServeHTTP)
			r.Post("/images", upload.New(logger, images).ServeHTTP)

			// Мастер и публикация требуют действующей подписки
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.ActiveSubscriptionMiddleware(logger, quotaService))
				r.Post("/drafts", draftcreate.New(logger, draftService).ServeHTTP)
				r.Get("/drafts/{id}", draftread.New(logger, draftService).ServeHTTP)
				r.Put("/drafts/{id}", draftupdate.New(logger, draftService).ServeHTTP)
				r.Delete("/drafts/{id}", draftremove.New(logger, draftService).ServeHTTP)
				r.Post("/drafts/{id}/publish", publish.New(logger, publishService, quotaService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, storage).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
