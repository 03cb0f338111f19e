// Package services содержит бизнес-логику работы с платежами.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/sub-manager/internal/models"
)

// PaymentRepository определяет методы для работы с платежами в хранилище.
type PaymentRepository interface {
	// ListPayments возвращает все платежи пользователя.
	ListPayments(ctx context.Context, username string) ([]*models.PaymentInfo, error)
	// ProcessPayment закрывает платёж вручную от имени пользователя.
	ProcessPayment(ctx context.Context, id int64, username string) (*models.PaymentInfo, error)
}

// Service реализует операции над платежами от имени пользователя.
type Service struct {
	repo PaymentRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo PaymentRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// List возвращает все платежи пользователя вместе с названиями подписок.
func (s *Service) List(ctx context.Context, username string) ([]*models.PaymentInfo, error) {
	return s.repo.ListPayments(ctx, username)
}

// Process закрывает платёж вручную. Для активной подписки создаётся
// следующий платёж, повторный вызов возвращает текущее состояние.
func (s *Service) Process(ctx context.Context, id int64, username string) (*models.PaymentInfo, error) {
	info, err := s.repo.ProcessPayment(ctx, id, username)
	if err != nil {
		return nil, err
	}
	s.log.Info("payment processed",
		slog.Int64("payment_id", id),
		slog.String("username", username))
	return info, nil
}
