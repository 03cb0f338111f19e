// Package paymentprocess реализует HTTP-обработчик ручной обработки платежа.
//
// Платёж закрывается от имени текущего пользователя: статус меняется на
// PAID, для активной подписки создаётся и возвращается следующий
// ожидающий платёж. Повторная обработка уже закрытого платежа
// возвращает его текущее состояние.
package paymentprocess

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sub-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sub-manager/internal/http/response"
	"github.com/magabrotheeeer/sub-manager/internal/lib/sl"
	"github.com/magabrotheeeer/sub-manager/internal/models"
	"github.com/magabrotheeeer/sub-manager/internal/storage/repository"
)

// Handler обрабатывает запросы на ручную обработку платежа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики обработки платежа.
type Service interface {
	Process(ctx context.Context, id int64, username string) (*models.PaymentInfo, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Обработать платёж вручную
// @Description Закрывает платёж текущего пользователя. Для активной подписки создаётся и возвращается следующий ожидающий платёж.
// @Tags Payments
// @Produce  json
// @Param id path int true "ID платежа"
// @Success 200 {object} map[string]any "Обработанный платёж"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Платёж принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Платёж не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payment/{id}/process [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.process"

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

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.Process(r.Context(), id, username)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPaymentNotFound):
			log.Warn("payment not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("payment not found"))
		case errors.Is(err, repository.ErrAccessDenied):
			log.Warn("access denied", slog.Int64("id", id), slog.String("username", username))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to process payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not process payment"))
		}
		return
	}

	log.Info("payment processed", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payment": res,
	}))
}
