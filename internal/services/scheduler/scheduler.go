// Package services содержит периодические задачи жизненного цикла платежей:
// закрытие наступивших платежей и постановку напоминаний в очередь.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/sub-manager/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/sub-manager/internal/lib/sl"
	"github.com/magabrotheeeer/sub-manager/internal/metrics"
	"github.com/magabrotheeeer/sub-manager/internal/models"
)

// PaymentRepository определяет методы хранилища, нужные планировщику.
type PaymentRepository interface {
	// FindDuePayments возвращает ID необработанных платежей на дату.
	FindDuePayments(ctx context.Context, date time.Time) ([]int64, error)
	// SettlePayment закрывает платёж, возвращает true при фактическом закрытии.
	SettlePayment(ctx context.Context, id int64) (bool, error)
	// FindUnnotifiedPayments возвращает платежи без напоминания на дату.
	FindUnnotifiedPayments(ctx context.Context, date time.Time) ([]*models.DuePayment, error)
	// MarkPaymentNotified помечает платёж уведомлённым, возвращает true
	// при фактическом изменении статуса.
	MarkPaymentNotified(ctx context.Context, id int64) (bool, error)
}

// Publisher публикует сообщения в обменник брокера.
type Publisher interface {
	Publish(exchange, routingKey string, message any) error
}

// SchedulerService запускает периодические проходы по платежам.
type SchedulerService struct {
	repo                 PaymentRepository
	publisher            Publisher
	log                  *slog.Logger
	settlementInterval   time.Duration
	notificationInterval time.Duration
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo PaymentRepository, publisher Publisher, log *slog.Logger,
	settlementInterval, notificationInterval time.Duration) *SchedulerService {
	return &SchedulerService{
		repo:                 repo,
		publisher:            publisher,
		log:                  log,
		settlementInterval:   settlementInterval,
		notificationInterval: notificationInterval,
	}
}

// RunSettlementSweep закрывает наступившие платежи с заданным интервалом.
func (s *SchedulerService) RunSettlementSweep(ctx context.Context) {
	s.settleDuePayments(ctx)

	ticker := time.NewTicker(s.settlementInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.settleDuePayments(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) settleDuePayments(ctx context.Context) {
	s.log.Info("starting settlement sweep")
	today := truncateToDate(time.Now().UTC())
	ids, err := s.repo.FindDuePayments(ctx, today)
	if err != nil {
		s.log.Error("failed to find due payments", sl.Err(err))
		metrics.SweepErrors.WithLabelValues("settlement").Inc()
		return
	}
	if len(ids) == 0 {
		s.log.Info("no due payments found")
		return
	}

	var settled int
	for _, id := range ids {
		ok, err := s.repo.SettlePayment(ctx, id)
		if err != nil {
			s.log.Error("failed to settle payment", slog.Int64("payment_id", id), sl.Err(err))
			metrics.SweepErrors.WithLabelValues("settlement").Inc()
			continue
		}
		if ok {
			settled++
			metrics.PaymentsSettled.Inc()
		}
	}
	s.log.Info("settlement sweep finished",
		slog.Int("found", len(ids)),
		slog.Int("settled", settled))
}

// RunNotificationSweep публикует напоминания о платежах на завтра
// с заданным интервалом.
func (s *SchedulerService) RunNotificationSweep(ctx context.Context) {
	s.notifyUpcomingPayments(ctx)

	ticker := time.NewTicker(s.notificationInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.notifyUpcomingPayments(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) notifyUpcomingPayments(ctx context.Context) {
	s.log.Info("starting notification sweep")
	tomorrow := truncateToDate(time.Now().UTC()).AddDate(0, 0, 1)
	due, err := s.repo.FindUnnotifiedPayments(ctx, tomorrow)
	if err != nil {
		s.log.Error("failed to find unnotified payments", sl.Err(err))
		metrics.SweepErrors.WithLabelValues("notification").Inc()
		return
	}
	if len(due) == 0 {
		s.log.Info("no upcoming payments to notify")
		return
	}

	// Статус меняется до публикации, чтобы напоминание не могло уйти дважды.
	reminders := make(map[string]*models.PaymentReminder)
	for _, p := range due {
		marked, err := s.repo.MarkPaymentNotified(ctx, p.PaymentID)
		if err != nil {
			s.log.Error("failed to mark payment notified",
				slog.Int64("payment_id", p.PaymentID), sl.Err(err))
			metrics.SweepErrors.WithLabelValues("notification").Inc()
			continue
		}
		if !marked {
			continue
		}
		reminder, ok := reminders[p.Email]
		if !ok {
			reminder = &models.PaymentReminder{Email: p.Email}
			reminders[p.Email] = reminder
		}
		reminder.Items = append(reminder.Items, models.ReminderItem{
			SubscriptionTitle: p.SubscriptionTitle,
			SubscriptionPrice: p.SubscriptionPrice,
			PaymentDate:       p.DateOfPayment,
		})
	}

	var published int
	for _, reminder := range reminders {
		err := s.publisher.Publish(rabbitmq.NotificationsExchange, "payment.reminder", reminder)
		if err != nil {
			s.log.Error("failed to publish reminder",
				slog.String("email", reminder.Email), sl.Err(err))
			metrics.SweepErrors.WithLabelValues("notification").Inc()
			continue
		}
		published++
		metrics.RemindersPublished.Inc()
	}
	s.log.Info("notification sweep finished",
		slog.Int("payments", len(due)),
		slog.Int("reminders", published))
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
