package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/sub-manager/internal/models"
	"github.com/magabrotheeeer/sub-manager/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) (int64, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) ListSubscriptions(ctx context.Context, username string) ([]*models.Subscription, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}
func (m *RepoMock) FindSubscription(ctx context.Context, id int64, username string) (*models.Subscription, error) {
	args := m.Called(ctx, id, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *RepoMock) UpdateSubscription(ctx context.Context, id int64, username string, upd models.DummySubscriptionUpdate) (*models.Subscription, error) {
	args := m.Called(ctx, id, username, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *RepoMock) RemoveSubscription(ctx context.Context, id int64, username string) error {
	return m.Called(ctx, id, username).Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type CurrencyRepoMock struct{ mock.Mock }

func (m *CurrencyRepoMock) FindCurrencyByID(ctx context.Context, id int64) (*models.Currency, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Currency), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSubscriptionService_Create(t *testing.T) {
	req := models.DummySubscription{
		Title:             "Netflix",
		Price:             15.99,
		Cycle:             "MONTHLY",
		DateOfLastPayment: "2024-01-31",
		CurrencyID:        1,
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, u *UserRepoMock, cur *CurrencyRepoMock, c *CacheMock)
		req        models.DummySubscription
		wantID     int64
		wantErr    error
		wantAnyErr bool
	}{
		{
			name: "success create",
			setupMocks: func(r *RepoMock, u *UserRepoMock, cur *CurrencyRepoMock, c *CacheMock) {
				u.On("GetUserByUsername", mock.Anything, "alice").
					Return(&models.User{UID: "uid-123", Username: "alice"}, nil).Once()
				cur.On("FindCurrencyByID", mock.Anything, int64(1)).
					Return(&models.Currency{ID: 1, ShortName: "USD"}, nil).Once()
				r.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
					return s.Title == "Netflix" && s.UserUID == "uid-123" &&
						s.IsActive && s.DateOfLastPayment.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
				})).Return(int64(42), nil).Once()
				c.On("Invalidate", "subscriptions:alice").Return(nil).Once()
			},
			req:    req,
			wantID: 42,
		},
		{
			name:       "invalid date",
			setupMocks: func(_ *RepoMock, _ *UserRepoMock, _ *CurrencyRepoMock, _ *CacheMock) {},
			req: models.DummySubscription{
				Title:             "Netflix",
				Price:             15.99,
				Cycle:             "MONTHLY",
				DateOfLastPayment: "31-01-2024",
				CurrencyID:        1,
			},
			wantAnyErr: true,
		},
		{
			name:       "date in the future",
			setupMocks: func(_ *RepoMock, _ *UserRepoMock, _ *CurrencyRepoMock, _ *CacheMock) {},
			req: models.DummySubscription{
				Title:             "Netflix",
				Price:             15.99,
				Cycle:             "MONTHLY",
				DateOfLastPayment: time.Now().UTC().AddDate(5, 0, 0).Format("2006-01-02"),
				CurrencyID:        1,
			},
			wantErr: ErrDateInFuture,
		},
		{
			name: "unknown user",
			setupMocks: func(_ *RepoMock, u *UserRepoMock, _ *CurrencyRepoMock, _ *CacheMock) {
				u.On("GetUserByUsername", mock.Anything, "alice").
					Return(nil, repository.ErrUserNotFound).Once()
			},
			req:     req,
			wantErr: repository.ErrUserNotFound,
		},
		{
			name: "unknown currency",
			setupMocks: func(_ *RepoMock, u *UserRepoMock, cur *CurrencyRepoMock, _ *CacheMock) {
				u.On("GetUserByUsername", mock.Anything, "alice").
					Return(&models.User{UID: "uid-123", Username: "alice"}, nil).Once()
				cur.On("FindCurrencyByID", mock.Anything, int64(1)).
					Return(nil, repository.ErrCurrencyNotFound).Once()
			},
			req:     req,
			wantErr: repository.ErrCurrencyNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UserRepoMock)
			currencies := new(CurrencyRepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, users, currencies, cache)
			service := NewSubscriptionService(repo, users, currencies, cache, newNoopLogger())

			id, err := service.Create(context.Background(), "alice", tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
				return
			}
			if tt.wantAnyErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			repo.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_List_CacheHitAndMiss(t *testing.T) {
	subs := []*models.Subscription{
		{ID: 1, Title: "Netflix", Price: 15.99, Cycle: "MONTHLY", UserUID: "uid-123", CurrencyID: 1, IsActive: true},
		{ID: 2, Title: "Spotify", Price: 9.99, Cycle: "MONTHLY", UserUID: "uid-123", CurrencyID: 1, IsActive: true},
	}

	t.Run("cache miss reads repo and fills cache", func(t *testing.T) {
		repo := new(RepoMock)
		users := new(UserRepoMock)
		cache := new(CacheMock)
		cache.On("Get", "subscriptions:alice", mock.Anything).Return(false, nil).Once()
		repo.On("ListSubscriptions", mock.Anything, "alice").Return(subs, nil).Once()
		cache.On("Set", "subscriptions:alice", mock.Anything, listCacheTTL).Return(nil).Once()

		service := NewSubscriptionService(repo, users, new(CurrencyRepoMock), cache, newNoopLogger())
		got, err := service.List(context.Background(), "alice")
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, "Netflix", got[0].Title)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips repo", func(t *testing.T) {
		repo := new(RepoMock)
		users := new(UserRepoMock)
		cache := new(CacheMock)
		cache.On("Get", "subscriptions:alice", mock.Anything).Return(true, nil).Once()

		service := NewSubscriptionService(repo, users, new(CurrencyRepoMock), cache, newNoopLogger())
		_, err := service.List(context.Background(), "alice")
		require.NoError(t, err)
		repo.AssertNotCalled(t, "ListSubscriptions", mock.Anything, mock.Anything)
	})

	t.Run("cache error falls back to repo", func(t *testing.T) {
		repo := new(RepoMock)
		users := new(UserRepoMock)
		cache := new(CacheMock)
		cache.On("Get", "subscriptions:alice", mock.Anything).Return(false, errors.New("redis down")).Once()
		repo.On("ListSubscriptions", mock.Anything, "alice").Return(subs, nil).Once()
		cache.On("Set", "subscriptions:alice", mock.Anything, listCacheTTL).Return(nil).Once()

		service := NewSubscriptionService(repo, users, new(CurrencyRepoMock), cache, newNoopLogger())
		got, err := service.List(context.Background(), "alice")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestSubscriptionService_Read(t *testing.T) {
	repo := new(RepoMock)
	users := new(UserRepoMock)
	cache := new(CacheMock)
	service := NewSubscriptionService(repo, users, new(CurrencyRepoMock), cache, newNoopLogger())

	repo.On("FindSubscription", mock.Anything, int64(7), "alice").
		Return(&models.Subscription{ID: 7, Title: "Netflix"}, nil).Once()

	got, err := service.Read(context.Background(), 7, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)

	repo.On("FindSubscription", mock.Anything, int64(8), "alice").
		Return(nil, repository.ErrAccessDenied).Once()
	_, err = service.Read(context.Background(), 8, "alice")
	require.ErrorIs(t, err, repository.ErrAccessDenied)
}

func TestSubscriptionService_Update(t *testing.T) {
	repo := new(RepoMock)
	users := new(UserRepoMock)
	cache := new(CacheMock)
	service := NewSubscriptionService(repo, users, new(CurrencyRepoMock), cache, newNoopLogger())

	upd := models.DummySubscriptionUpdate{Title: "Netflix Premium", Price: 19.99}
	repo.On("UpdateSubscription", mock.Anything, int64(7), "alice", upd).
		Return(&models.Subscription{ID: 7, Title: "Netflix Premium", Price: 19.99}, nil).Once()
	cache.On("Invalidate", "subscriptions:alice").Return(nil).Once()

	got, err := service.Update(context.Background(), 7, "alice", upd)
	require.NoError(t, err)
	assert.Equal(t, 19.99, got.Price)
	cache.AssertExpectations(t)
}

func TestSubscriptionService_Remove(t *testing.T) {
	repo := new(RepoMock)
	users := new(UserRepoMock)
	cache := new(CacheMock)
	service := NewSubscriptionService(repo, users, new(CurrencyRepoMock), cache, newNoopLogger())

	repo.On("RemoveSubscription", mock.Anything, int64(7), "alice").Return(nil).Once()
	cache.On("Invalidate", "subscriptions:alice").Return(nil).Once()

	err := service.Remove(context.Background(), 7, "alice")
	require.NoError(t, err)

	repo.On("RemoveSubscription", mock.Anything, int64(8), "alice").
		Return(repository.ErrSubscriptionNotFound).Once()
	err = service.Remove(context.Background(), 8, "alice")
	require.ErrorIs(t, err, repository.ErrSubscriptionNotFound)
}
