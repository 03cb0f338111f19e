package models

import "time"

// Subscription представляет собой основную модель подписки,
// используемую в бизнес-логике и хранилище. Дата последнего платежа
// хранится как календарная дата без времени.
type Subscription struct {
	ID                int64     // Идентификатор подписки
	Title             string    // Название подписки
	Description       string    // Необязательное описание
	Price             float64   // Цена за один платёжный период (>0)
	Cycle             string    // Платёжный цикл, MONTHLY или YEARLY
	DateOfLastPayment time.Time // Дата последнего платежа
	UserUID           string    // Владелец подписки
	CurrencyID        int64     // Ссылка на валюту
	IsActive          bool      // Флаг активности
}

// DummySubscription используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Subscription. Дата приходит строкой
// в формате 2006-01-02, чтобы её можно было валидировать и парсить вручную.
type DummySubscription struct {
	Title             string  `json:"title" validate:"required,max=75"`
	Description       string  `json:"description" validate:"max=255"`
	Price             float64 `json:"price" validate:"required,gt=0"`
	Cycle             string  `json:"cycle" validate:"required,oneof=MONTHLY YEARLY"`
	DateOfLastPayment string  `json:"date_of_last_payment" validate:"required"`
	CurrencyID        int64   `json:"currency_id" validate:"required,gt=0"`
}

// DummySubscriptionUpdate используется для приёма данных запроса на
// обновление подписки. IsActive передаётся указателем: nil означает,
// что флаг активности менять не нужно.
type DummySubscriptionUpdate struct {
	Title       string  `json:"title" validate:"required,max=75"`
	Description string  `json:"description" validate:"max=255"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// SubscriptionInfo — проекция подписки для ответов API.
type SubscriptionInfo struct {
	ID                int64     `json:"subscription_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Price             float64   `json:"price"`
	Cycle             string    `json:"cycle"`
	DateOfLastPayment time.Time `json:"date_of_last_payment"`
	CurrencyID        int64     `json:"currency_id"`
	IsActive          bool      `json:"is_active"`
}
