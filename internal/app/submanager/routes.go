// Package submanager предоставляет маршруты для основного приложения.
package submanager

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/sub-manager/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/sub-manager/internal/http/handlers/auth/profile"
	"github.com/magabrotheeeer/sub-manager/internal/http/handlers/auth/refresh"
	"github.com/magabrotheeeer/sub-manager/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/sub-manager/internal/http/handlers/auth/validate"
	"github.com/magabrotheeeer/sub-manager/internal/http/handlers/currency/currencylist"
	"github.com/magabrotheeeer/sub-manager/internal/http/handlers/currency/currencyread"
	"github.com/magabrotheeeer/sub-manager/internal/http/handlers/currency/currencyreadbycode"
	"github.com/magabrotheeeer/sub-manager/internal/http/handlers/health"
	"github.com/magabrotheeeer/sub-manager/internal/http/handlers/payment/paymentlist"
	"github.com/magabrotheeeer/sub-manager/internal/http/handlers/payment/paymentprocess"
	"github.com/magabrotheeeer/sub-manager/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/sub-manager/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/sub-manager/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/sub-manager/internal/http/handlers/subscription/remove"
	"github.com/magabrotheeeer/sub-manager/internal/http/handlers/subscription/update"
	"github.com/magabrotheeeer/sub-manager/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/sub-manager/internal/services/auth"
	currencyservice "github.com/magabrotheeeer/sub-manager/internal/services/currency"
	paymentservice "github.com/magabrotheeeer/sub-manager/internal/services/payment"
	subservice "github.com/magabrotheeeer/sub-manager/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	subscriptionService *subservice.SubscriptionService,
	paymentService *paymentservice.Service,
	currencyService *currencyservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Post("/auth/refresh", refresh.New(logger, authService).ServeHTTP)
		r.Get("/auth/validateToken", validate.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/user/profile", profile.New(logger, authService).ServeHTTP)
			r.Post("/subscription", create.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscription", list.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscription/{id}", read.New(logger, subscriptionService).ServeHTTP)
			r.Put("/subscription/{id}", update.New(logger, subscriptionService).ServeHTTP)
			r.Delete("/subscription/{id}", remove.New(logger, subscriptionService).ServeHTTP)
			r.Get("/payment", paymentlist.New(logger, paymentService).ServeHTTP)
			r.Post("/payment/{id}/process", paymentprocess.New(logger, paymentService).ServeHTTP)
			r.Get("/currency", currencylist.New(logger, currencyService).ServeHTTP)
			r.Get("/currency/{id}", currencyread.New(logger, currencyService).ServeHTTP)
			r.Get("/currency/code/{code}", currencyreadbycode.New(logger, currencyService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
