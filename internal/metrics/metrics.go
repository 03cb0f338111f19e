// Package metrics регистрирует счётчики Prometheus для периодических
// задач планировщика. Значения отдаются через /metrics основного сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentsSettled — количество платежей, закрытых планировщиком.
	PaymentsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "submanager_payments_settled_total",
		Help: "Number of payments settled by the scheduler sweep.",
	})

	// RemindersPublished — количество напоминаний, отправленных в очередь.
	RemindersPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "submanager_reminders_published_total",
		Help: "Number of payment reminders published to the queue.",
	})

	// SweepErrors — количество ошибок периодических задач по типу задачи.
	SweepErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "submanager_sweep_errors_total",
		Help: "Number of errors encountered by scheduler sweeps.",
	}, []string{"sweep"})
)
