package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
)

type ListRecentAppointments struct {
	repo domain.Repository
	now  Clock
}

func NewListRecentAppointments(
	repo domain.Repository,
	now Clock,
) *ListRecentAppointments {
	return &ListRecentAppointments{
		repo: repo,
		now:  now,
	}
}

func (uc *ListRecentAppointments) Execute(
	ctx context.Context,
	clientID string,
) (*dto.RecentAppointmentsDTO, error) {

	ledger, err := uc.repo.GetLedger(ctx, clientID)
	if err != nil {
		return nil, err
	}

	out := &dto.RecentAppointmentsDTO{
		Appointments: ledger.RecentFive(),
		Completed:    ledger.CountByStatus(domain.StatusCompleted),
	}

	if next, ok := ledger.Next(uc.now()); ok {
		out.Next = &next
	}

	return out, nil
}
