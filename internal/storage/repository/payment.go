package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/sub-manager/internal/lib/cycle"
	"github.com/magabrotheeeer/sub-manager/internal/models"
)

// ListPayments возвращает все платежи пользователя вместе с названиями подписок.
func (s *Storage) ListPayments(ctx context.Context, username string) ([]*models.PaymentInfo, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.status, p.notification_status, p.date_of_payment,
			      p.amount, p.subscription_id, s.title
			  FROM payment p
			  JOIN subscriptions s ON s.id = p.subscription_id
			  JOIN users u ON u.uid = s.user_uid
			  WHERE u.username = $1
			  ORDER BY p.date_of_payment, p.id`
	rows, err := s.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PaymentInfo
	for rows.Next() {
		var p models.PaymentInfo
		if err = rows.Scan(&p.ID, &p.Status, &p.NotificationStatus, &p.DateOfPayment,
			&p.Amount, &p.SubscriptionID, &p.SubscriptionTitle); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindDuePayments возвращает идентификаторы необработанных платежей
// с датой, равной переданной.
func (s *Storage) FindDuePayments(ctx context.Context, date time.Time) ([]int64, error) {
	const op = "storage.FindDuePayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id FROM payment
			  WHERE status = $1 AND date_of_payment = $2::DATE
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, models.PaymentStatusUnprocessed, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SettlePayment закрывает платёж в одной транзакции: условное
// обновление статуса гарантирует, что платёж будет обработан не более
// одного раза даже при конкурирующих проходах планировщика. Для
// активной подписки создаётся следующий платёж по текущей цене.
// Возвращает true, если платёж был закрыт этим вызовом.
func (s *Storage) SettlePayment(ctx context.Context, id int64) (bool, error) {
	const op = "storage.SettlePayment"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE payment
			  SET status = $1, notification_status = $2
			  WHERE id = $3 AND status = $4`
	res, err := tx.ExecContext(ctx, query,
		models.PaymentStatusPaid, models.NotifyStatusNotified,
		id, models.PaymentStatusUnprocessed)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return false, nil
	}

	query = `SELECT p.date_of_payment, p.subscription_id, s.price, s.cycle, s.is_active
			 FROM payment p
			 JOIN subscriptions s ON s.id = p.subscription_id
			 WHERE p.id = $1`
	var dateOfPayment time.Time
	var subscriptionID int64
	var price float64
	var subCycle string
	var isActive bool
	row := tx.QueryRowContext(ctx, query, id)
	if err = row.Scan(&dateOfPayment, &subscriptionID, &price, &subCycle, &isActive); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	query = `UPDATE subscriptions SET date_of_last_payment = $1 WHERE id = $2`
	if _, err = tx.ExecContext(ctx, query, dateOfPayment, subscriptionID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if isActive {
		nextDate, err := cycle.NextDate(dateOfPayment, subCycle)
		if err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		query = `INSERT INTO payment (subscription_id, status, notification_status,
				     date_of_payment, amount)
				 VALUES ($1, $2, $3, $4, $5)`
		if _, err = tx.ExecContext(ctx, query, subscriptionID,
			models.PaymentStatusUnprocessed, models.NotifyStatusUnnotified,
			nextDate, price); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// ProcessPayment закрывает платёж вручную от имени пользователя.
// Платёж блокируется до конца транзакции, проверяется владелец,
// повторный вызов для уже закрытого платежа возвращает текущее
// состояние без изменений. Для активной подписки возвращается
// созданный следующий платёж, для неактивной — закрытый.
func (s *Storage) ProcessPayment(ctx context.Context, id int64, username string) (*models.PaymentInfo, error) {
	const op = "storage.ProcessPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `SELECT p.status, p.notification_status, p.date_of_payment, p.amount,
			      p.subscription_id, s.title, s.price, s.cycle, s.is_active, u.username
			  FROM payment p
			  JOIN subscriptions s ON s.id = p.subscription_id
			  JOIN users u ON u.uid = s.user_uid
			  WHERE p.id = $1
			  FOR UPDATE OF p`
	info := &models.PaymentInfo{ID: id}
	var price float64
	var subCycle, owner string
	var isActive bool
	row := tx.QueryRowContext(ctx, query, id)
	if err = row.Scan(&info.Status, &info.NotificationStatus, &info.DateOfPayment,
		&info.Amount, &info.SubscriptionID, &info.SubscriptionTitle,
		&price, &subCycle, &isActive, &owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrPaymentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if owner != username {
		return nil, fmt.Errorf("%s: %w", op, ErrAccessDenied)
	}

	if info.Status == models.PaymentStatusPaid {
		if err = tx.Commit(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return info, nil
	}

	query = `UPDATE payment
			 SET status = $1, notification_status = $2
			 WHERE id = $3`
	if _, err = tx.ExecContext(ctx, query,
		models.PaymentStatusPaid, models.NotifyStatusNotified, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	info.Status = models.PaymentStatusPaid
	info.NotificationStatus = models.NotifyStatusNotified

	query = `UPDATE subscriptions SET date_of_last_payment = $1 WHERE id = $2`
	if _, err = tx.ExecContext(ctx, query, info.DateOfPayment, info.SubscriptionID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if isActive {
		nextDate, err := cycle.NextDate(info.DateOfPayment, subCycle)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		query = `INSERT INTO payment (subscription_id, status, notification_status,
				     date_of_payment, amount)
				 VALUES ($1, $2, $3, $4, $5)
				 RETURNING id`
		var successorID int64
		if err = tx.QueryRowContext(ctx, query, info.SubscriptionID,
			models.PaymentStatusUnprocessed, models.NotifyStatusUnnotified,
			nextDate, price).Scan(&successorID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		info.ID = successorID
		info.Status = models.PaymentStatusUnprocessed
		info.NotificationStatus = models.NotifyStatusUnnotified
		info.DateOfPayment = nextDate
		info.Amount = price
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return info, nil
}

// FindUnnotifiedPayments возвращает необработанные платежи без
// отправленного уведомления с датой, равной переданной, вместе с
// данными подписки и адресом владельца.
func (s *Storage) FindUnnotifiedPayments(ctx context.Context, date time.Time) ([]*models.DuePayment, error) {
	const op = "storage.FindUnnotifiedPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, u.email, s.title, s.price, p.date_of_payment
			  FROM payment p
			  JOIN subscriptions s ON s.id = p.subscription_id
			  JOIN users u ON u.uid = s.user_uid
			  WHERE p.status = $1 AND p.notification_status = $2
			      AND p.date_of_payment = $3::DATE
			  ORDER BY u.email, p.id`
	rows, err := s.DB.QueryContext(ctx, query,
		models.PaymentStatusUnprocessed, models.NotifyStatusUnnotified, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.DuePayment
	for rows.Next() {
		var p models.DuePayment
		if err = rows.Scan(&p.PaymentID, &p.Email, &p.SubscriptionTitle,
			&p.SubscriptionPrice, &p.DateOfPayment); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkPaymentNotified помечает платёж как уведомлённый. Условное
// обновление защищает от повторной отправки напоминания. Возвращает
// true, если статус был изменён этим вызовом.
func (s *Storage) MarkPaymentNotified(ctx context.Context, id int64) (bool, error) {
	const op = "storage.MarkPaymentNotified"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payment
			  SET notification_status = $1
			  WHERE id = $2 AND notification_status = $3`
	res, err := s.DB.ExecContext(ctx, query,
		models.NotifyStatusNotified, id, models.NotifyStatusUnnotified)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}
