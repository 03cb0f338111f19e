package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/sub-manager/internal/lib/cycle"
	"github.com/magabrotheeeer/sub-manager/internal/models"
)

// CreateSubscription вставляет новую подписку и в той же транзакции
// создаёт две записи платежей: закрытый платёж на дату последнего
// платежа и ожидающий платёж на следующую дату цикла.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int64, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	nextDate, err := cycle.NextDate(sub.DateOfLastPayment, sub.Cycle)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO subscriptions (title, description, price, cycle,
			      date_of_last_payment, user_uid, currency_id, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int64
	err = tx.QueryRowContext(ctx, query,
		sub.Title, sub.Description, sub.Price, sub.Cycle, sub.DateOfLastPayment,
		sub.UserUID, sub.CurrencyID, sub.IsActive).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query = `INSERT INTO payment (subscription_id, status, notification_status,
			     date_of_payment, amount)
			 VALUES ($1, $2, $3, $4, $5)`
	_, err = tx.ExecContext(ctx, query, newID,
		models.PaymentStatusPaid, models.NotifyStatusNotified, sub.DateOfLastPayment, sub.Price)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	_, err = tx.ExecContext(ctx, query, newID,
		models.PaymentStatusUnprocessed, models.NotifyStatusUnnotified, nextDate, sub.Price)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListSubscriptions возвращает все подписки пользователя.
func (s *Storage) ListSubscriptions(ctx context.Context, username string) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.title, s.description, s.price, s.cycle,
			      s.date_of_last_payment, s.user_uid, s.currency_id, s.is_active
			  FROM subscriptions s
			  JOIN users u ON u.uid = s.user_uid
			  WHERE u.username = $1
			  ORDER BY s.id`
	rows, err := s.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var sub models.Subscription
		var description sql.NullString
		if err = rows.Scan(&sub.ID, &sub.Title, &description, &sub.Price, &sub.Cycle,
			&sub.DateOfLastPayment, &sub.UserUID, &sub.CurrencyID, &sub.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sub.Description = description.String
		result = append(result, &sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindSubscription возвращает подписку по ID с проверкой владельца.
func (s *Storage) FindSubscription(ctx context.Context, id int64, username string) (*models.Subscription, error) {
	const op = "storage.FindSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.title, s.description, s.price, s.cycle,
			      s.date_of_last_payment, s.user_uid, s.currency_id, s.is_active,
			      u.username
			  FROM subscriptions s
			  JOIN users u ON u.uid = s.user_uid
			  WHERE s.id = $1`
	var sub models.Subscription
	var description sql.NullString
	var owner string
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&sub.ID, &sub.Title, &description, &sub.Price, &sub.Cycle,
		&sub.DateOfLastPayment, &sub.UserUID, &sub.CurrencyID, &sub.IsActive, &owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if owner != username {
		return nil, fmt.Errorf("%s: %w", op, ErrAccessDenied)
	}
	sub.Description = description.String
	return &sub, nil
}

// UpdateSubscription обновляет подписку с проверкой владельца.
// Новая цена распространяется на все необработанные платежи подписки.
// При деактивации будущие платежи удаляются, при повторной активации
// создаётся новый ожидающий платёж, если его ещё нет.
func (s *Storage) UpdateSubscription(ctx context.Context, id int64, username string, upd models.DummySubscriptionUpdate) (*models.Subscription, error) {
	const op = "storage.UpdateSubscription"
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

	query := `SELECT s.user_uid, s.cycle, s.date_of_last_payment, s.is_active, u.username
			  FROM subscriptions s
			  JOIN users u ON u.uid = s.user_uid
			  WHERE s.id = $1
			  FOR UPDATE OF s`
	var userUID, subCycle, owner string
	var dateOfLastPayment sql.NullTime
	var wasActive bool
	row := tx.QueryRowContext(ctx, query, id)
	if err := row.Scan(&userUID, &subCycle, &dateOfLastPayment, &wasActive, &owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if owner != username {
		return nil, fmt.Errorf("%s: %w", op, ErrAccessDenied)
	}

	isActive := wasActive
	if upd.IsActive != nil {
		isActive = *upd.IsActive
	}

	query = `UPDATE subscriptions
			 SET title = $1, description = $2, price = $3, is_active = $4
			 WHERE id = $5`
	if _, err = tx.ExecContext(ctx, query,
		upd.Title, upd.Description, upd.Price, isActive, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query = `UPDATE payment
			 SET amount = $1
			 WHERE subscription_id = $2 AND status = $3`
	if _, err = tx.ExecContext(ctx, query,
		upd.Price, id, models.PaymentStatusUnprocessed); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	switch {
	case wasActive && !isActive:
		query = `DELETE FROM payment
				 WHERE subscription_id = $1 AND status = $2`
		if _, err = tx.ExecContext(ctx, query, id, models.PaymentStatusUnprocessed); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	case !wasActive && isActive:
		nextDate, err := cycle.NextDate(dateOfLastPayment.Time, subCycle)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		query = `INSERT INTO payment (subscription_id, status, notification_status,
				     date_of_payment, amount)
				 SELECT $1, $2, $3, $4, $5
				 WHERE NOT EXISTS (
				     SELECT 1 FROM payment
				     WHERE subscription_id = $1 AND status = $2
				 )`
		if _, err = tx.ExecContext(ctx, query, id,
			models.PaymentStatusUnprocessed, models.NotifyStatusUnnotified,
			nextDate, upd.Price); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	query = `SELECT id, title, description, price, cycle, date_of_last_payment,
			     user_uid, currency_id, is_active
			 FROM subscriptions WHERE id = $1`
	var sub models.Subscription
	var description sql.NullString
	row = tx.QueryRowContext(ctx, query, id)
	if err = row.Scan(&sub.ID, &sub.Title, &description, &sub.Price, &sub.Cycle,
		&sub.DateOfLastPayment, &sub.UserUID, &sub.CurrencyID, &sub.IsActive); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.Description = description.String

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// RemoveSubscription удаляет подписку с проверкой владельца. Платежи
// удаляются каскадно на уровне базы данных.
func (s *Storage) RemoveSubscription(ctx context.Context, id int64, username string) error {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.username
			  FROM subscriptions s
			  JOIN users u ON u.uid = s.user_uid
			  WHERE s.id = $1`
	var owner string
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if owner != username {
		return fmt.Errorf("%s: %w", op, ErrAccessDenied)
	}

	query = `DELETE FROM subscriptions WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
