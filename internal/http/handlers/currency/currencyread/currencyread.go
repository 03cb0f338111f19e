// Package currencyread реализует HTTP-обработчик для получения валюты по ID.
package currencyread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sub-manager/internal/http/response"
	"github.com/magabrotheeeer/sub-manager/internal/lib/sl"
	"github.com/magabrotheeeer/sub-manager/internal/models"
	"github.com/magabrotheeeer/sub-manager/internal/storage/repository"
)

// Handler обрабатывает запросы на получение валюты по ID.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения валюты.
type Service interface {
	Read(ctx context.Context, id int64) (*models.Currency, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить валюту по ID
// @Description Возвращает валюту справочника по её идентификатору.
// @Tags Currencies
// @Produce  json
// @Param id path int true "ID валюты"
// @Success 200 {object} map[string]any "Данные валюты"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Валюта не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /currency/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.currency.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	res, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCurrencyNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("currency not found"))
			return
		}
		log.Error("failed to read currency", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read currency"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"currency": res,
	}))
}
