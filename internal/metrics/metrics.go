package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rental_console"

var (
	once sync.Once

	bookingSaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_saved_total",
			Help:      "Count of bookings written through to the store, by operation.",
		},
		[]string{"op"},
	)

	bookingRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_rejected_total",
			Help:      "Count of bookings rejected before any write, by reason.",
		},
		[]string{"reason"},
	)

	storeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Count of failed store calls by table and operation.",
		},
		[]string{"table", "op"},
	)

	reportsBuilt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "financial_reports_total",
			Help:      "Count of financial reports built, by period and format.",
		},
		[]string{"period", "format"},
	)
)

// Register регистрирует метрики (идемпотентно).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingSaved, bookingRejected, storeErrors, reportsBuilt)
	})
}

func IncBookingSaved(op string) {
	bookingSaved.WithLabelValues(op).Inc()
}

func IncBookingRejected(reason string) {
	bookingRejected.WithLabelValues(reason).Inc()
}

func IncStoreError(table, op string) {
	storeErrors.WithLabelValues(table, op).Inc()
}

func IncReportBuilt(period, format string) {
	reportsBuilt.WithLabelValues(period, format).Inc()
}
