package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken возвращается для токена с неверной подписью,
// некорректной структурой или истёкшим сроком действия.
var ErrInvalidToken = errors.New("invalid token")

// GenerateToken создает access-токен с заданными username, role и userUID,
// подписывая его секретным ключом. Время жизни определяется полем tokenTTL.
func (j *MakerImpl) GenerateToken(username, role, userUID string) (string, error) {
	return j.generate(username, role, userUID, TokenTypeAccess, j.tokenTTL)
}

// GenerateRefreshToken создает refresh-токен: тот же набор claims,
// но с типом refresh и сроком жизни refreshTTL.
func (j *MakerImpl) GenerateRefreshToken(username, role, userUID string) (string, error) {
	return j.generate(username, role, userUID, TokenTypeRefresh, j.refreshTTL)
}

func (j *MakerImpl) generate(username, role, userUID, tokenType string, ttl time.Duration) (string, error) {
	claims := CustomClaims{
		Username:  username,
		Roles:     []string{role},
		UserUID:   userUID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет его подпись и валидность,
// возвращает CustomClaims с данными, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, errors.Join(ErrInvalidToken, err))
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	return claims, nil
}
