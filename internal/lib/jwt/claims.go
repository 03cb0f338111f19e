// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки пары access/refresh токенов.
// MakerImpl — конкретная реализация с использованием секретного ключа и сроков жизни.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Типы токенов, различаются claim-полем token_type.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	Username             string   `json:"username"`   // Имя пользователя
	Roles                []string `json:"roles"`      // Роли пользователя
	UserUID              string   `json:"user_uid"`   // Уникальный идентификатор пользователя
	TokenType            string   `json:"token_type"` // access или refresh
	jwt.RegisteredClaims          // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken создаёт access-токен с username, ролью и uid пользователя.
	GenerateToken(username, role, userUID string) (string, error)
	// GenerateRefreshToken создаёт refresh-токен с увеличенным сроком жизни.
	GenerateRefreshToken(username, role, userUID string) (string, error)
	// ParseToken возвращает *CustomClaims, если токен корректен и не истёк.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токенов (TTL).
type MakerImpl struct {
	secretKey  string        // Секретный ключ для подписи токенов.
	tokenTTL   time.Duration // Время жизни access-токена.
	refreshTTL time.Duration // Время жизни refresh-токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, tokenTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		tokenTTL:   tokenTTL,
		refreshTTL: refreshTTL,
	}
}
