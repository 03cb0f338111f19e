// Package submanager собирает основное HTTP-приложение сервиса подписок.
package submanager

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/sub-manager/internal/cache"
	"github.com/magabrotheeeer/sub-manager/internal/config"
	"github.com/magabrotheeeer/sub-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/sub-manager/internal/migrations"
	authservice "github.com/magabrotheeeer/sub-manager/internal/services/auth"
	currencyservice "github.com/magabrotheeeer/sub-manager/internal/services/currency"
	paymentservice "github.com/magabrotheeeer/sub-manager/internal/services/payment"
	subservice "github.com/magabrotheeeer/sub-manager/internal/services/subscription"
	"github.com/magabrotheeeer/sub-manager/internal/storage/repository"
)

// App представляет HTTP-приложение со всеми зависимостями.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New создает приложение: подключает БД, применяет миграции, инициализирует
// кэш и сервисы, собирает маршрутизатор.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL, cfg.RefreshTokenTTL)

	authService := authservice.NewAuthService(db, db, jwtMaker)
	subscriptionService := subservice.NewSubscriptionService(db, db, db, cacheRedis, logger)
	paymentService := paymentservice.New(db, logger)
	currencyService := currencyservice.New(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, subscriptionService, paymentService, currencyService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
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
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
