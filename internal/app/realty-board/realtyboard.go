// Package realtyboard собирает API-процесс площадки объявлений: хранилище,
// кеш, очередь уведомлений, хранилище изображений, сервисы и HTTP-сервер.
package realtyboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/stepanenkodv/realty-board/internal/cache"
	"github.com/stepanenkodv/realty-board/internal/config"
	"github.com/stepanenkodv/realty-board/internal/imagestore"
	"github.com/stepanenkodv/realty-board/internal/lib/clock"
	"github.com/stepanenkodv/realty-board/internal/lib/googleid"
	"github.com/stepanenkodv/realty-board/internal/lib/jwt"
	"github.com/stepanenkodv/realty-board/internal/migrations"
	"github.com/stepanenkodv/realty-board/internal/rabbitmq"
	authservice "github.com/stepanenkodv/realty-board/internal/services/auth"
	catalogservice "github.com/stepanenkodv/realty-board/internal/services/catalog"
	draftservice "github.com/stepanenkodv/realty-board/internal/services/draft"
	publishservice "github.com/stepanenkodv/realty-board/internal/services/publish"
	quotaservice "github.com/stepanenkodv/realty-board/internal/services/quota"
	sweeperservice "github.com/stepanenkodv/realty-board/internal/services/sweeper"
	"github.com/stepanenkodv/realty-board/internal/storage/repository"
)

type App struct {
	server  *http.Server
	sweeper *sweeperservice.SweeperService
	logger  *slog.Logger
	db      *repository.Storage
	amqp    *amqp.Connection
	ch      *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	images, err := imagestore.New(ctx, cfg.ImageStorage)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}
	notifier := rabbitmq.NewNotificationPublisher(ch)

	clk := clock.UTC{}
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	googleVerifier := googleid.NewVerifier(cfg.GoogleClientID)

	authService := authservice.NewAuthService(db, jwtMaker, googleVerifier,
		notifier, clk, cfg.PublicBaseURL, logger)
	quotaService := quotaservice.NewQuotaService(db, clk, logger)
	draftService := draftservice.NewDraftService(db, clk, logger)
	catalogService := catalogservice.NewCatalogService(db, cacheRedis, logger)
	publishService := publishservice.NewPublishService(draftService, quotaService,
		db, images, notifier, db, clk, logger)
	sweeper := sweeperservice.NewSweeperService(draftService, images, clk,
		cfg.SweepInterval, cfg.DraftMaxAge, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, quotaService, draftService,
		catalogService, publishService, images, db)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:  srv,
		sweeper: sweeper,
		logger:  logger,
		db:      db,
		amqp:    conn,
		ch:      ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	go a.sweeper.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.amqp.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
