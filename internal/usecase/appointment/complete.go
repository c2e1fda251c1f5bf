package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
)

type CompleteAppointment struct {
	repo    domain.Repository
	now     Clock
	audit   *audit.Dispatcher
	metrics *metrics.BookingMetrics
}

func NewCompleteAppointment(
	repo domain.Repository,
	now Clock,
	audit *audit.Dispatcher,
	m *metrics.BookingMetrics,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:    repo,
		now:     now,
		audit:   audit,
		metrics: m,
	}
}

// Execute é a ação do administrador; o papel é conferido na camada HTTP.
func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	actorID string,
	appointmentID string,
) (*domain.Appointment, error) {

	clientID, err := uc.repo.FindOwner(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	ledger, err := uc.repo.GetLedger(ctx, clientID)
	if err != nil {
		return nil, err
	}

	before, _ := ledger.Find(appointmentID)

	_, ap, err := ledger.MarkCompleted(appointmentID, uc.now())
	if err != nil {
		return nil, err
	}

	// falha com invalid_state se outra transição chegou primeiro
	if err := uc.repo.UpdateStatus(ctx, clientID, ap, before.Status); err != nil {
		return nil, err
	}

	uc.metrics.ObserveTransition(string(ap.Status))

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{"client_id": clientID},
	})

	return &ap, nil
}
