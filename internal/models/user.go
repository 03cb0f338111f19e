// Package models содержит доменные структуры сервиса: пользователей,
// подписки, платежи и справочник валют, а также вспомогательные типы
// для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя, admin или user
	CreatedAt    time.Time // Дата создания учётной записи
}

// UserSettings хранит пользовательские настройки уведомлений.
// Поле NotificationDaysBeforePayment присутствует в модели данных,
// но рассылкой напоминаний пока не учитывается: она работает с
// фиксированным горизонтом в один день.
type UserSettings struct {
	ID                            int64
	UserUID                       string
	Language                      string
	NotificationDaysBeforePayment int
	NotificationMethod            string
	DefaultCurrencyID             int64
}
