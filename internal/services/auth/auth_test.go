package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/sub-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/sub-manager/internal/lib/password"
	"github.com/magabrotheeeer/sub-manager/internal/models"
	"github.com/magabrotheeeer/sub-manager/internal/storage/repository"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User, defaultCurrencyID int64) (string, error) {
	args := m.Called(ctx, user, defaultCurrencyID)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserSettings(ctx context.Context, userUID string) (*models.UserSettings, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSettings), args.Error(1)
}

type CurrencyRepoMock struct{ mock.Mock }

func (m *CurrencyRepoMock) FindCurrencyByCode(ctx context.Context, code string) (*models.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Currency), args.Error(1)
}

func newTestMaker() jwt.Maker {
	return jwt.NewJWTMaker("test-secret", time.Hour, 24*time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	users := new(UserRepoMock)
	currencies := new(CurrencyRepoMock)
	service := NewAuthService(users, currencies, newTestMaker())

	currencies.On("FindCurrencyByCode", mock.Anything, "USD").
		Return(&models.Currency{ID: 1, ShortName: "USD"}, nil).Once()
	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "alice" && u.Email == "alice@example.com" &&
			u.Role == "user" && u.PasswordHash != "secret"
	}), int64(1)).Return("uid-123", nil).Once()

	uid, err := service.Register(context.Background(), "alice@example.com", "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "uid-123", uid)
	users.AssertExpectations(t)
	currencies.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateUser(t *testing.T) {
	users := new(UserRepoMock)
	currencies := new(CurrencyRepoMock)
	service := NewAuthService(users, currencies, newTestMaker())

	currencies.On("FindCurrencyByCode", mock.Anything, "USD").
		Return(&models.Currency{ID: 1, ShortName: "USD"}, nil).Once()
	users.On("RegisterUser", mock.Anything, mock.Anything, int64(1)).
		Return("", repository.ErrUserExists).Once()

	_, err := service.Register(context.Background(), "alice@example.com", "alice", "secret")
	require.ErrorIs(t, err, repository.ErrUserExists)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("secret")
	require.NoError(t, err)

	user := &models.User{
		UID:          "uid-123",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
		Role:         "user",
	}

	tests := []struct {
		name        string
		rawPassword string
		setupMocks  func(u *UserRepoMock)
		wantErr     error
	}{
		{
			name:        "success login",
			rawPassword: "secret",
			setupMocks: func(u *UserRepoMock) {
				u.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil).Once()
			},
		},
		{
			name:        "wrong password",
			rawPassword: "wrong",
			setupMocks: func(u *UserRepoMock) {
				u.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:        "unknown user",
			rawPassword: "secret",
			setupMocks: func(u *UserRepoMock) {
				u.On("GetUserByUsername", mock.Anything, "alice").
					Return(nil, repository.ErrUserNotFound).Once()
			},
			wantErr: repository.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			currencies := new(CurrencyRepoMock)
			service := NewAuthService(users, currencies, newTestMaker())
			tt.setupMocks(users)

			pair, role, err := service.Login(context.Background(), "alice", tt.rawPassword)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user", role)
			assert.NotEmpty(t, pair.AccessToken)
			assert.NotEmpty(t, pair.RefreshToken)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	users := new(UserRepoMock)
	currencies := new(CurrencyRepoMock)
	maker := newTestMaker()
	service := NewAuthService(users, currencies, maker)

	refresh, err := maker.GenerateRefreshToken("alice", "user", "uid-123")
	require.NoError(t, err)

	pair, err := service.Refresh(context.Background(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// Access-токен не подходит для обновления
	access, err := maker.GenerateToken("alice", "user", "uid-123")
	require.NoError(t, err)
	_, err = service.Refresh(context.Background(), access)
	require.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestAuthService_Profile(t *testing.T) {
	users := new(UserRepoMock)
	currencies := new(CurrencyRepoMock)
	service := NewAuthService(users, currencies, newTestMaker())

	users.On("GetUser", mock.Anything, "uid-123").
		Return(&models.User{UID: "uid-123", Username: "alice", Email: "alice@example.com"}, nil).Once()
	users.On("GetUserSettings", mock.Anything, "uid-123").
		Return(&models.UserSettings{UserUID: "uid-123", Language: "en", NotificationDaysBeforePayment: 1}, nil).Once()

	user, settings, err := service.Profile(context.Background(), "uid-123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "en", settings.Language)
	users.AssertExpectations(t)

	users.On("GetUser", mock.Anything, "uid-404").
		Return(nil, repository.ErrUserNotFound).Once()
	_, _, err = service.Profile(context.Background(), "uid-404")
	require.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestAuthService_ValidateToken(t *testing.T) {
	users := new(UserRepoMock)
	currencies := new(CurrencyRepoMock)
	maker := newTestMaker()
	service := NewAuthService(users, currencies, maker)

	access, err := maker.GenerateToken("alice", "user", "uid-123")
	require.NoError(t, err)

	user, role, valid, err := service.ValidateToken(context.Background(), access)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "user", role)
	assert.Equal(t, "uid-123", user.UID)

	// Refresh-токен не подходит как access
	refresh, err := maker.GenerateRefreshToken("alice", "user", "uid-123")
	require.NoError(t, err)
	_, _, _, err = service.ValidateToken(context.Background(), refresh)
	require.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, _, _, err = service.ValidateToken(context.Background(), "garbage")
	require.ErrorIs(t, err, jwt.ErrInvalidToken)
}
