package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/identity"
)

type ListAppointmentsByDate struct {
	repo  domain.Repository
	users identity.Directory
}

func NewListAppointmentsByDate(
	repo domain.Repository,
	users identity.Directory,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo:  repo,
		users: users,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	date string,
) (*dto.DayScheduleDTO, error) {

	day, err := domain.ParseDateTime(date, "00:00")
	if err != nil {
		return nil, err
	}

	entries, err := uc.repo.ListByDate(ctx, day)
	if err != nil {
		return nil, err
	}

	emails := make(map[string]string)

	out := &dto.DayScheduleDTO{
		Date:         day.Format(domain.DateLayout),
		Total:        len(entries),
		Appointments: make([]dto.AppointmentListDTO, 0, len(entries)),
	}

	for _, e := range entries {
		email, ok := emails[e.ClientID]
		if !ok {
			// cliente removido do diretório: a agenda continua visível
			if u, err := uc.users.FindByID(ctx, e.ClientID); err == nil {
				email = u.Email
			}
			emails[e.ClientID] = email
		}

		if e.Appointment.Status == domain.StatusCompleted {
			out.Completed++
		}

		out.Appointments = append(out.Appointments, dto.AppointmentListDTO{
			ID:          e.Appointment.ID,
			ClientID:    e.ClientID,
			ClientEmail: email,
			Date:        e.Appointment.Date,
			Time:        e.Appointment.Time,
			Status:      e.Appointment.Status,
		})
	}

	return out, nil
}
