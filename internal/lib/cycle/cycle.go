// Package cycle реализует календарную арифметику платёжных циклов.
//
// NextDate вычисляет дату следующего платежа от даты текущего.
// Переполнение конца месяца обрезается до последнего дня месяца:
// 31 января + 1 месяц даёт 29 февраля в високосный год.
package cycle

import (
	"errors"
	"fmt"
	"time"
)

// Платёжные циклы. Множество закрытое, любое другое значение —
// ошибка конфигурации.
const (
	Monthly = "MONTHLY"
	Yearly  = "YEARLY"
)

// ErrUnsupportedCycle возвращается при неизвестном значении цикла.
// При закрытом enum на входе такая ветка недостижима.
var ErrUnsupportedCycle = errors.New("unsupported cycle")

// NextDate возвращает дату следующего платежа: для MONTHLY — плюс один
// календарный месяц, для YEARLY — плюс один календарный год.
func NextDate(date time.Time, c string) (time.Time, error) {
	switch c {
	case Monthly:
		return addMonths(date, 1), nil
	case Yearly:
		return addYears(date, 1), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedCycle, c)
	}
}

// addMonths прибавляет месяцы с обрезанием дня до длины целевого месяца.
// Стандартный AddDate нормализует 31 января + 1 месяц во 2-3 марта,
// что для платёжных дат не подходит.
func addMonths(date time.Time, months int) time.Time {
	y, m, d := date.Date()
	total := int(m) - 1 + months
	y += total / 12
	m = time.Month(total%12 + 1)
	if last := daysInMonth(y, m); d > last {
		d = last
	}
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location())
}

func addYears(date time.Time, years int) time.Time {
	y, m, d := date.Date()
	y += years
	if last := daysInMonth(y, m); d > last {
		d = last
	}
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
