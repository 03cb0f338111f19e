// Package currencylist реализует HTTP-обработчик для получения справочника валют.
package currencylist

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

// Handler обрабатывает запросы на получение списка валют.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики справочника валют.
type Service interface {
	List(ctx context.Context) ([]*models.Currency, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить справочник валют
// @Description Возвращает все валюты, доступные для подписок.
// @Tags Currencies
// @Produce  json
// @Success 200 {object} map[string]any "Список валют"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /currency [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.currency.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list currencies", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list currencies"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"currencies": res,
	}))
}
