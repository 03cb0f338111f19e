// Package services содержит бизнес-логику для управления подписками и кешированием.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/sub-manager/internal/lib/sl"
	"github.com/magabrotheeeer/sub-manager/internal/models"
)

// ErrDateInFuture возвращается, когда дата последнего платежа ещё не наступила.
var ErrDateInFuture = errors.New("date of last payment is in the future")

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку вместе с начальными платежами.
	CreateSubscription(ctx context.Context, sub models.Subscription) (int64, error)
	// ListSubscriptions возвращает все подписки пользователя.
	ListSubscriptions(ctx context.Context, username string) ([]*models.Subscription, error)
	// FindSubscription возвращает подписку по ID с проверкой владельца.
	FindSubscription(ctx context.Context, id int64, username string) (*models.Subscription, error)
	// UpdateSubscription обновляет подписку с проверкой владельца.
	UpdateSubscription(ctx context.Context, id int64, username string, upd models.DummySubscriptionUpdate) (*models.Subscription, error)
	// RemoveSubscription удаляет подписку с проверкой владельца.
	RemoveSubscription(ctx context.Context, id int64, username string) error
}

// UserRepository нужен для получения UID владельца при создании подписки.
type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// CurrencyRepository нужен для проверки валюты при создании подписки.
type CurrencyRepository interface {
	FindCurrencyByID(ctx context.Context, id int64) (*models.Currency, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// SubscriptionService реализует бизнес-логику работы с подписками, включая кеширование.
type SubscriptionService struct {
	repo       SubscriptionRepository
	users      UserRepository
	currencies CurrencyRepository
	cache      Cache
	log        *slog.Logger
}

const listCacheTTL = 5 * time.Minute

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, users UserRepository, currencies CurrencyRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:       repo,
		users:      users,
		currencies: currencies,
		cache:      cache,
		log:        log,
	}
}

// Create создает новую подписку пользователя и возвращает её ID.
// Вместе с подпиской создаются закрытый платёж на дату последнего
// платежа и ожидающий платёж на следующую дату цикла.
func (s *SubscriptionService) Create(ctx context.Context, username string, req models.DummySubscription) (int64, error) {
	dateOfLastPayment, err := time.Parse("2006-01-02", req.DateOfLastPayment)
	if err != nil {
		return 0, fmt.Errorf("invalid date of last payment: %w", err)
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if dateOfLastPayment.After(today) {
		return 0, ErrDateInFuture
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return 0, err
	}

	if _, err := s.currencies.FindCurrencyByID(ctx, req.CurrencyID); err != nil {
		return 0, err
	}

	sub := models.Subscription{
		Title:             req.Title,
		Description:       req.Description,
		Price:             req.Price,
		Cycle:             req.Cycle,
		DateOfLastPayment: dateOfLastPayment,
		UserUID:           user.UID,
		CurrencyID:        req.CurrencyID,
		IsActive:          true,
	}

	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return 0, err
	}

	s.invalidateList(username)
	return id, nil
}

// List возвращает все подписки пользователя, используя кеш.
func (s *SubscriptionService) List(ctx context.Context, username string) ([]*models.SubscriptionInfo, error) {
	cacheKey := listCacheKey(username)
	var cached []*models.SubscriptionInfo
	if found, err := s.cache.Get(cacheKey, &cached); err != nil {
		s.log.Warn("failed to read subscriptions from cache", sl.Err(err))
	} else if found {
		return cached, nil
	}

	subs, err := s.repo.ListSubscriptions(ctx, username)
	if err != nil {
		return nil, err
	}

	result := make([]*models.SubscriptionInfo, 0, len(subs))
	for _, sub := range subs {
		result = append(result, toInfo(sub))
	}

	if err := s.cache.Set(cacheKey, result, listCacheTTL); err != nil {
		s.log.Warn("failed to cache subscriptions", sl.Err(err))
	}
	return result, nil
}

// Read возвращает подписку пользователя по ID.
func (s *SubscriptionService) Read(ctx context.Context, id int64, username string) (*models.SubscriptionInfo, error) {
	sub, err := s.repo.FindSubscription(ctx, id, username)
	if err != nil {
		return nil, err
	}
	return toInfo(sub), nil
}

// Update обновляет подписку пользователя. Новая цена распространяется
// на необработанные платежи.
func (s *SubscriptionService) Update(ctx context.Context, id int64, username string, req models.DummySubscriptionUpdate) (*models.SubscriptionInfo, error) {
	sub, err := s.repo.UpdateSubscription(ctx, id, username, req)
	if err != nil {
		return nil, err
	}
	s.invalidateList(username)
	return toInfo(sub), nil
}

// Remove удаляет подписку пользователя вместе с её платежами.
func (s *SubscriptionService) Remove(ctx context.Context, id int64, username string) error {
	if err := s.repo.RemoveSubscription(ctx, id, username); err != nil {
		return err
	}
	s.invalidateList(username)
	return nil
}

func (s *SubscriptionService) invalidateList(username string) {
	if err := s.cache.Invalidate(listCacheKey(username)); err != nil {
		s.log.Warn("failed to invalidate subscriptions cache", sl.Err(err))
	}
}

func listCacheKey(username string) string {
	return "subscriptions:" + username
}

func toInfo(sub *models.Subscription) *models.SubscriptionInfo {
	return &models.SubscriptionInfo{
		ID:                sub.ID,
		Title:             sub.Title,
		Description:       sub.Description,
		Price:             sub.Price,
		Cycle:             sub.Cycle,
		DateOfLastPayment: sub.DateOfLastPayment,
		CurrencyID:        sub.CurrencyID,
		IsActive:          sub.IsActive,
	}
}
