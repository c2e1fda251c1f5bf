package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	DateTimeLayout = DateLayout + " " + TimeLayout
)

type Appointment struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Status Status `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// Start combina data e horário. A chave de ordenação do ledger.
func (a Appointment) Start() time.Time {
	t, _ := ParseDateTime(a.Date, a.Time)
	return t
}

// ParseDateTime valida o par (data, hora) no formato da agenda.
// Datas e horas são civis: a comparação não depende de fuso.
func ParseDateTime(date, slot string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, date+" "+slot, time.UTC)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_input")
	}
	return t, nil
}

// Civil descarta o fuso mantendo o relógio de parede, para comparar com Start.
func Civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *Appointment, now time.Time) error {
	if err := CanCancel(ap.Status); err != nil {
		return err
	}

	ap.Status = StatusCancelled
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *Appointment, now time.Time) error {
	if err := CanComplete(ap.Status); err != nil {
		return err
	}

	ap.Status = StatusCompleted
	ap.CompletedAt = &now
	return nil
}
