package appointment

import (
	"context"
	"time"
)

// DayEntry é uma linha da agenda do dia (visão do administrador).
type DayEntry struct {
	ClientID    string      `json:"client_id"`
	Appointment Appointment `json:"appointment"`
}

type Repository interface {
	// -------- Ledger --------
	GetLedger(
		ctx context.Context,
		clientID string,
	) (Ledger, error)

	// PutLedger substitui o ledger do cliente; agendamentos que saíram
	// do ranking deixam de existir no armazenamento. O status de quem já
	// estava guardado é preservado: status só muda por UpdateStatus.
	PutLedger(
		ctx context.Context,
		clientID string,
		ledger Ledger,
	) error

	// -------- Appointment (state change) --------

	// UpdateStatus é compare-and-set: só grava se o status guardado ainda
	// for from. Caso contrário devolve invalid_state.
	UpdateStatus(
		ctx context.Context,
		clientID string,
		ap Appointment,
		from Status,
	) error

	FindOwner(
		ctx context.Context,
		appointmentID string,
	) (string, error)

	// -------- Admin --------
	ListByDate(
		ctx context.Context,
		date time.Time,
	) ([]DayEntry, error)
}
