// Package services содержит бизнес-логику справочника валют.
package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/sub-manager/internal/lib/sl"
	"github.com/magabrotheeeer/sub-manager/internal/models"
)

// CurrencyRepository определяет методы для чтения справочника валют.
type CurrencyRepository interface {
	ListCurrencies(ctx context.Context) ([]*models.Currency, error)
	FindCurrencyByID(ctx context.Context, id int64) (*models.Currency, error)
	FindCurrencyByCode(ctx context.Context, code string) (*models.Currency, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service отдает справочник валют, используя кеш. Справочник меняется
// только миграциями, поэтому TTL кеша большой.
type Service struct {
	repo  CurrencyRepository
	cache Cache
	log   *slog.Logger
}

const currencyCacheTTL = 12 * time.Hour

// New создает новый экземпляр Service.
func New(repo CurrencyRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает все валюты справочника.
func (s *Service) List(ctx context.Context) ([]*models.Currency, error) {
	var cached []*models.Currency
	if found, err := s.cache.Get("currencies", &cached); err != nil {
		s.log.Warn("failed to read currencies from cache", sl.Err(err))
	} else if found {
		return cached, nil
	}

	currencies, err := s.repo.ListCurrencies(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set("currencies", currencies, currencyCacheTTL); err != nil {
		s.log.Warn("failed to cache currencies", sl.Err(err))
	}
	return currencies, nil
}

// Read возвращает валюту по её ID.
func (s *Service) Read(ctx context.Context, id int64) (*models.Currency, error) {
	return s.repo.FindCurrencyByID(ctx, id)
}

// ReadByCode возвращает валюту по буквенному коду без учета регистра.
func (s *Service) ReadByCode(ctx context.Context, code string) (*models.Currency, error) {
	return s.repo.FindCurrencyByCode(ctx, strings.ToUpper(code))
}
