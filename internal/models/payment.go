package models

import "time"

// Статусы платежа и статусы уведомления.
const (
	PaymentStatusUnprocessed = "UNPROCESSED"
	PaymentStatusPaid        = "PAID"

	NotifyStatusUnnotified = "UNNOTIFIED"
	NotifyStatusNotified   = "NOTIFIED"
)

// Payment представляет один платёж по подписке. Дата платежа хранится
// как календарная дата без времени.
type Payment struct {
	ID                 int64     // Идентификатор платежа
	SubscriptionID     int64     // Подписка, к которой относится платёж
	Status             string    // UNPROCESSED или PAID
	NotificationStatus string    // UNNOTIFIED или NOTIFIED
	DateOfPayment      time.Time // Дата платежа
	Amount             float64   // Сумма, зафиксированная при создании платежа
}

// PaymentInfo — проекция платежа для ответов API, включает название подписки.
type PaymentInfo struct {
	ID                 int64     `json:"payment_id"`
	Status             string    `json:"status"`
	NotificationStatus string    `json:"notification_status"`
	DateOfPayment      time.Time `json:"date_of_payment"`
	Amount             float64   `json:"amount"`
	SubscriptionID     int64     `json:"subscription_id"`
	SubscriptionTitle  string    `json:"subscription_title"`
}

// DuePayment — строка выборки планировщика: платёж вместе с данными
// подписки и адресом владельца.
type DuePayment struct {
	PaymentID         int64
	Email             string
	SubscriptionTitle string
	SubscriptionPrice float64
	DateOfPayment     time.Time
}

// ReminderItem — одна строка письма-напоминания.
type ReminderItem struct {
	SubscriptionTitle string    `json:"subscription_title"`
	SubscriptionPrice float64   `json:"subscription_price"`
	PaymentDate       time.Time `json:"payment_date"`
}

// PaymentReminder — сообщение для очереди напоминаний: все платежи
// одного получателя, сгруппированные в одно письмо.
type PaymentReminder struct {
	Email string         `json:"email"`
	Items []ReminderItem `json:"items"`
}
