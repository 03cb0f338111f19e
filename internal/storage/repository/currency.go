package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/sub-manager/internal/models"
)

// ListCurrencies возвращает все валюты справочника.
func (s *Storage) ListCurrencies(ctx context.Context) ([]*models.Currency, error) {
	const op = "storage.ListCurrencies"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, short_name, sign FROM currency ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Currency
	for rows.Next() {
		var c models.Currency
		if err = rows.Scan(&c.ID, &c.Name, &c.ShortName, &c.Sign); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindCurrencyByID возвращает валюту по её ID.
func (s *Storage) FindCurrencyByID(ctx context.Context, id int64) (*models.Currency, error) {
	const op = "storage.FindCurrencyByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, short_name, sign FROM currency WHERE id = $1`
	var c models.Currency
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&c.ID, &c.Name, &c.ShortName, &c.Sign); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrCurrencyNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// FindCurrencyByCode возвращает валюту по её буквенному коду.
func (s *Storage) FindCurrencyByCode(ctx context.Context, code string) (*models.Currency, error) {
	const op = "storage.FindCurrencyByCode"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, short_name, sign FROM currency WHERE short_name = $1`
	var c models.Currency
	row := s.DB.QueryRowContext(ctx, query, code)
	if err := row.Scan(&c.ID, &c.Name, &c.ShortName, &c.Sign); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrCurrencyNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}
