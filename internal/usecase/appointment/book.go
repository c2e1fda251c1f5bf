package appointment

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type BookAppointmentInput struct {
	ClientID string
	Date     string
	Time     string
}

type BookAppointmentResult struct {
	Appointment domain.Appointment   `json:"appointment"`
	Retained    bool                 `json:"retained"`
	Evicted     []domain.Appointment `json:"evicted"`
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo    domain.Repository
	hours   domain.WorkingHours
	now     Clock
	audit   *audit.Dispatcher
	metrics *metrics.BookingMetrics

	// leitura + escrita do ledger de um mesmo cliente não podem intercalar
	locks sync.Map
}

func NewBookAppointment(
	repo domain.Repository,
	hours domain.WorkingHours,
	now Clock,
	audit *audit.Dispatcher,
	m *metrics.BookingMetrics,
) *BookAppointment {
	return &BookAppointment{
		repo:    repo,
		hours:   hours,
		now:     now,
		audit:   audit,
		metrics: m,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*BookAppointmentResult, error) {

	res, err := uc.execute(ctx, in)
	if err != nil {
		uc.metrics.ObserveBooking("rejected")
		return nil, err
	}

	uc.metrics.ObserveBooking("created")
	uc.metrics.ObserveEvictions(len(res.Evicted))
	return res, nil
}

func (uc *BookAppointment) execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*BookAppointmentResult, error) {

	// --------------------------------------------------
	// 1️⃣ Data / hora
	// --------------------------------------------------
	start, err := domain.ParseDateTime(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Expediente
	// --------------------------------------------------
	if !uc.hours.Contains(in.Time) {
		return nil, httperr.ErrBusiness("outside_working_hours")
	}

	// --------------------------------------------------
	// 3️⃣ Nada no passado
	// --------------------------------------------------
	now := uc.now()
	if !start.After(domain.Civil(now)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	// --------------------------------------------------
	// 4️⃣ Ledger do cliente (inserção + descarte)
	// --------------------------------------------------
	unlock := uc.lock(in.ClientID)
	defer unlock()

	ledger, err := uc.repo.GetLedger(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}

	next, ins, err := ledger.Add(in.Date, in.Time, now)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.PutLedger(ctx, in.ClientID, next); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Auditoria
	// --------------------------------------------------
	evicted := make([]string, 0, len(ins.Evicted))
	for _, ap := range ins.Evicted {
		evicted = append(evicted, ap.ID)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.ClientID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: ins.Appointment.ID,
		Metadata: map[string]any{
			"date":     ins.Appointment.Date,
			"time":     ins.Appointment.Time,
			"retained": ins.Retained,
			"evicted":  evicted,
		},
	})

	return &BookAppointmentResult{
		Appointment: ins.Appointment,
		Retained:    ins.Retained,
		Evicted:     ins.Evicted,
	}, nil
}

func (uc *BookAppointment) lock(clientID string) func() {
	v, _ := uc.locks.LoadOrStore(clientID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
