// Package currencyreadbycode реализует HTTP-обработчик для получения валюты
// по буквенному коду.
package currencyreadbycode

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sub-manager/internal/http/response"
	"github.com/magabrotheeeer/sub-manager/internal/lib/sl"
	"github.com/magabrotheeeer/sub-manager/internal/models"
	"github.com/magabrotheeeer/sub-manager/internal/storage/repository"
)

// Handler обрабатывает запросы на получение валюты по коду.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения валюты по коду.
type Service interface {
	ReadByCode(ctx context.Context, code string) (*models.Currency, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить валюту по коду
// @Description Возвращает валюту справочника по буквенному коду, например USD.
// @Tags Currencies
// @Produce  json
// @Param code path string true "Код валюты"
// @Success 200 {object} map[string]any "Данные валюты"
// @Failure 404 {object} response.ErrorResponse "Валюта не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /currency/code/{code} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.currency.readbycode"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	code := chi.URLParam(r, "code")
	if code == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("currency code is required"))
		return
	}

	res, err := h.service.ReadByCode(r.Context(), code)
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
