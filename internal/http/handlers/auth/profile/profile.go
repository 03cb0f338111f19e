// Package profile реализует HTTP-обработчик для получения профиля
// текущего пользователя.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sub-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sub-manager/internal/http/response"
	"github.com/magabrotheeeer/sub-manager/internal/lib/sl"
	"github.com/magabrotheeeer/sub-manager/internal/models"
	"github.com/magabrotheeeer/sub-manager/internal/storage/repository"
)

// Handler обрабатывает запросы на получение профиля пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения профиля.
type Service interface {
	Profile(ctx context.Context, userUID string) (*models.User, *models.UserSettings, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить профиль пользователя
// @Description Возвращает учётные данные и настройки текущего пользователя.
// @Tags Auth
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} map[string]any "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /user/profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user is not authorized"))
		return
	}

	user, settings, err := h.service.Profile(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to read profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read profile"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid":      user.UID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
		"settings": map[string]any{
			"language":                         settings.Language,
			"notification_days_before_payment": settings.NotificationDaysBeforePayment,
			"notification_method":              settings.NotificationMethod,
			"default_currency_id":              settings.DefaultCurrencyID,
		},
	}))
}
