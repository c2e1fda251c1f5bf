package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
)

type CancelAppointment struct {
	repo    domain.Repository
	now     Clock
	audit   *audit.Dispatcher
	metrics *metrics.BookingMetrics
}

func NewCancelAppointment(
	repo domain.Repository,
	now Clock,
	audit *audit.Dispatcher,
	m *metrics.BookingMetrics,
) *CancelAppointment {
	return &CancelAppointment{
		repo:    repo,
		now:     now,
		audit:   audit,
		metrics: m,
	}
}

// Execute cancela um agendamento do próprio cliente.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	clientID string,
	appointmentID string,
) (*domain.Appointment, error) {

	owner, err := uc.repo.FindOwner(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if owner != clientID {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	ledger, err := uc.repo.GetLedger(ctx, clientID)
	if err != nil {
		return nil, err
	}

	before, _ := ledger.Find(appointmentID)

	_, ap, err := ledger.Cancel(appointmentID, uc.now())
	if err != nil {
		return nil, err
	}

	// falha com invalid_state se outra transição chegou primeiro
	if err := uc.repo.UpdateStatus(ctx, clientID, ap, before.Status); err != nil {
		return nil, err
	}

	uc.metrics.ObserveTransition(string(ap.Status))

	uc.audit.Dispatch(audit.Event{
		UserID:   clientID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	return &ap, nil
}
