package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// MemoryRepository guarda os ledgers no processo. Útil em desenvolvimento
// e nos testes; não sobrevive a um restart.
type MemoryRepository struct {
	mu      sync.RWMutex
	ledgers map[string]domain.Ledger
	owners  map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		ledgers: make(map[string]domain.Ledger),
		owners:  make(map[string]string),
	}
}

func (r *MemoryRepository) GetLedger(
	_ context.Context,
	clientID string,
) (domain.Ledger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.ledgers[clientID], nil
}

func (r *MemoryRepository) PutLedger(
	_ context.Context,
	clientID string,
	ledger domain.Ledger,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.ledgers[clientID]
	ledger = ledger.Reconcile(current)

	for _, ap := range current.RecentFive() {
		delete(r.owners, ap.ID)
	}
	for _, ap := range ledger.RecentFive() {
		r.owners[ap.ID] = clientID
	}

	r.ledgers[clientID] = ledger
	return nil
}

func (r *MemoryRepository) UpdateStatus(
	_ context.Context,
	clientID string,
	ap domain.Appointment,
	from domain.Status,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := r.ledgers[clientID].Swap(ap, from)
	if err != nil {
		return err
	}

	r.ledgers[clientID] = next
	return nil
}

func (r *MemoryRepository) FindOwner(
	_ context.Context,
	appointmentID string,
) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clientID, ok := r.owners[appointmentID]
	if !ok {
		return "", httperr.ErrBusiness("appointment_not_found")
	}
	return clientID, nil
}

func (r *MemoryRepository) ListByDate(
	_ context.Context,
	date time.Time,
) ([]domain.DayEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := date.Format(domain.DateLayout)

	var out []domain.DayEntry
	for clientID, ledger := range r.ledgers {
		for _, ap := range ledger.RecentFive() {
			if ap.Date == day {
				out = append(out, domain.DayEntry{ClientID: clientID, Appointment: ap})
			}
		}
	}

	sortDay(out)
	return out, nil
}

// sortDay ordena a agenda do dia por horário; empate pelo cliente.
func sortDay(entries []domain.DayEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Appointment.Time != b.Appointment.Time {
			return a.Appointment.Time < b.Appointment.Time
		}
		return a.ClientID < b.ClientID
	})
}

var _ domain.Repository = (*MemoryRepository)(nil)
