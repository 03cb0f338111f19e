// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/sub-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/sub-manager/internal/lib/password"
	"github.com/magabrotheeeer/sub-manager/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя вместе с настройками
	// по умолчанию и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User, defaultCurrencyID int64) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// GetUserSettings возвращает настройки пользователя по UID.
	GetUserSettings(ctx context.Context, userUID string) (*models.UserSettings, error)
}

// CurrencyRepository нужен для выбора валюты по умолчанию при регистрации.
type CurrencyRepository interface {
	FindCurrencyByCode(ctx context.Context, code string) (*models.Currency, error)
}

// TokenPair содержит пару access/refresh токенов.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users      UserRepository
	currencies CurrencyRepository
	jwtMaker   jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, currencies CurrencyRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:      users,
		currencies: currencies,
		jwtMaker:   jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "user".
// Настройки пользователя получают валюту USD по умолчанию.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	usd, err := s.currencies.FindCurrencyByCode(ctx, "USD")
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         "user", // дефолтная роль при регистрации
	}
	return s.users.RegisterUser(ctx, user, usd.ID)
}

// Login проверяет пароль пользователя и генерирует пару access/refresh токенов.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*TokenPair, string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	pair, err := s.generatePair(user.Username, user.Role, user.UID)
	if err != nil {
		return nil, "", err
	}
	return pair, user.Role, nil
}

// Refresh проверяет refresh-токен и выдает новую пару токенов.
func (s *AuthService) Refresh(_ context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtMaker.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, jwt.ErrInvalidToken
	}
	role := ""
	if len(claims.Roles) > 0 {
		role = claims.Roles[0]
	}
	return s.generatePair(claims.Username, role, claims.UserUID)
}

// ValidateToken проверяет access-токен и возвращает информацию о пользователе.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, string, bool, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, "", false, err
	}
	if claims.TokenType != jwt.TokenTypeAccess {
		return nil, "", false, jwt.ErrInvalidToken
	}
	role := ""
	if len(claims.Roles) > 0 {
		role = claims.Roles[0]
	}
	user := &models.User{
		Username: claims.Username,
		Role:     role,
		UID:      claims.UserUID,
	}
	return user, role, true, nil
}

// Profile возвращает учётные данные пользователя вместе с его настройками.
func (s *AuthService) Profile(ctx context.Context, userUID string) (*models.User, *models.UserSettings, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, nil, err
	}
	settings, err := s.users.GetUserSettings(ctx, userUID)
	if err != nil {
		return nil, nil, err
	}
	return user, settings, nil
}

func (s *AuthService) generatePair(username, role, userUID string) (*TokenPair, error) {
	access, err := s.jwtMaker.GenerateToken(username, role, userUID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtMaker.GenerateRefreshToken(username, role, userUID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
