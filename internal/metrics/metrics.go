package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics expõe contadores do fluxo de agendamento.
type BookingMetrics struct {
	bookingsTotal    *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	evictionsTotal   prometheus.Counter
	slotsCache       *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Subsystem: "booking",
			Name:      "appointments_total",
			Help:      "Booking attempts by result",
		}, []string{"result"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Subsystem: "booking",
			Name:      "status_transitions_total",
			Help:      "Appointment status transitions",
		}, []string{"status"}),
		evictionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "barber",
			Subsystem: "booking",
			Name:      "ledger_evictions_total",
			Help:      "Appointments dropped from a client ledger by the recent-five bound",
		}),
		slotsCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Subsystem: "slots",
			Name:      "cache_lookups_total",
			Help:      "Slot cache lookups by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.transitionsTotal, m.evictionsTotal, m.slotsCache)
	return m
}

func (m *BookingMetrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) ObserveTransition(status string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveEvictions(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.evictionsTotal.Add(float64(n))
}

func (m *BookingMetrics) ObserveSlotsCache(hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.slotsCache.WithLabelValues(outcome).Inc()
}
