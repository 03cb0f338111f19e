// Package validate реализует HTTP-обработчик проверки access-токена.
package validate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sub-manager/internal/http/response"
	"github.com/magabrotheeeer/sub-manager/internal/lib/sl"
	"github.com/magabrotheeeer/sub-manager/internal/models"
)

// Service описывает интерфейс бизнес-логики валидации токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*models.User, string, bool, error)
}

// Handler обрабатывает HTTP-запросы на проверку токена.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверить access-токен
// @Description Проверяет подпись и срок действия токена, возвращает имя пользователя и роль.
// @Tags Auth
// @Produce  json
// @Param token query string true "Access-токен"
// @Success 200 {object} map[string]any "Токен действителен"
// @Failure 400 {object} response.ErrorResponse "Токен не передан"
// @Failure 401 {object} response.ErrorResponse "Недействительный токен"
// @Router /auth/validateToken [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.validate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := r.URL.Query().Get("token")
	if token == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("token is required"))
		return
	}

	user, role, valid, err := h.service.ValidateToken(r.Context(), token)
	if err != nil || !valid {
		if err != nil {
			log.Warn("token validation failed", sl.Err(err))
		}
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid or expired token"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"valid":    true,
		"username": user.Username,
		"role":     role,
		"user_uid": user.UID,
	}))
}
