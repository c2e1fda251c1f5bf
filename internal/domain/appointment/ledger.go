package appointment

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// RecentCapacity é quantos agendamentos o cliente mantém ("últimos 5").
const RecentCapacity = 5

var newID = uuid.NewString

// Ledger guarda os agendamentos de um cliente, do mais recente para o mais
// antigo por (data, hora), com no máximo RecentCapacity entradas.
//
// É um valor imutável: toda operação devolve um novo Ledger e deixa o
// receptor intacto, então pode ser lido de qualquer goroutine sem lock.
type Ledger struct {
	entries []Appointment
}

// Insertion descreve o efeito de Add sobre o ledger.
type Insertion struct {
	Appointment Appointment
	// Retained é false quando o novo agendamento ficou fora dos cinco mais recentes.
	Retained bool
	// Evicted lista o que deixou de existir no ledger. Pode conter o próprio novo agendamento.
	Evicted []Appointment
}

// NewLedger normaliza entradas arbitrárias: ordena (estável, decrescente)
// e descarta o que passar da capacidade.
func NewLedger(entries ...Appointment) Ledger {
	sorted := make([]Appointment, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start().After(sorted[j].Start())
	})

	if len(sorted) > RecentCapacity {
		sorted = sorted[:RecentCapacity]
	}

	return Ledger{entries: sorted}
}

func (l Ledger) Len() int {
	return len(l.entries)
}

// RecentFive devolve uma cópia das entradas, mais recente primeiro.
func (l Ledger) RecentFive() []Appointment {
	out := make([]Appointment, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l Ledger) Find(id string) (Appointment, bool) {
	if i := l.indexOf(id); i >= 0 {
		return l.entries[i], true
	}
	return Appointment{}, false
}

// Add cria um agendamento "scheduled" e o insere na posição do ranking.
// Em empate de (data, hora) o novo fica à frente dos existentes.
func (l Ledger) Add(date, slot string, now time.Time) (Ledger, Insertion, error) {
	start, err := ParseDateTime(date, slot)
	if err != nil {
		return l, Insertion{}, err
	}

	ap := Appointment{
		ID:        newID(),
		Date:      start.Format(DateLayout),
		Time:      start.Format(TimeLayout),
		Status:    InitialStatus(),
		CreatedAt: now,
	}

	pos := sort.Search(len(l.entries), func(i int) bool {
		return !l.entries[i].Start().After(start)
	})

	next := make([]Appointment, 0, len(l.entries)+1)
	next = append(next, l.entries[:pos]...)
	next = append(next, ap)
	next = append(next, l.entries[pos:]...)

	ins := Insertion{Appointment: ap, Retained: true}
	if len(next) > RecentCapacity {
		ins.Evicted = append([]Appointment(nil), next[RecentCapacity:]...)
		next = next[:RecentCapacity]
		ins.Retained = pos < RecentCapacity
	}

	return Ledger{entries: next}, ins, nil
}

// MarkCompleted é a ação do administrador: scheduled -> completed.
func (l Ledger) MarkCompleted(id string, now time.Time) (Ledger, Appointment, error) {
	return l.transition(id, func(ap *Appointment) error {
		return Complete(ap, now)
	})
}

// Cancel: scheduled -> cancelled.
func (l Ledger) Cancel(id string, now time.Time) (Ledger, Appointment, error) {
	return l.transition(id, func(ap *Appointment) error {
		return Cancel(ap, now)
	})
}

func (l Ledger) transition(id string, apply func(*Appointment) error) (Ledger, Appointment, error) {
	i := l.indexOf(id)
	if i < 0 {
		return l, Appointment{}, httperr.ErrBusiness("appointment_not_found")
	}

	ap := l.entries[i]
	if err := apply(&ap); err != nil {
		return l, Appointment{}, err
	}

	next := l.RecentFive()
	next[i] = ap

	return Ledger{entries: next}, ap, nil
}

// Swap grava status e carimbos de ap no agendamento de mesmo ID, desde que
// o status guardado ainda seja from. A posição não muda.
func (l Ledger) Swap(ap Appointment, from Status) (Ledger, error) {
	i := l.indexOf(ap.ID)
	if i < 0 {
		return l, httperr.ErrBusiness("appointment_not_found")
	}
	if l.entries[i].Status != from {
		return l, httperr.ErrBusiness("invalid_state")
	}

	next := l.RecentFive()
	next[i].Status = ap.Status
	next[i].CompletedAt = ap.CompletedAt
	next[i].CancelledAt = ap.CancelledAt
	return Ledger{entries: next}, nil
}

// Reconcile devolve l com o status e os carimbos de stored para os
// agendamentos presentes nos dois. Quem grava o ledger inteiro não desfaz
// uma transição feita depois da sua leitura.
func (l Ledger) Reconcile(stored Ledger) Ledger {
	next := l.RecentFive()
	for i := range next {
		cur, ok := stored.Find(next[i].ID)
		if !ok {
			continue
		}
		next[i].Status = cur.Status
		next[i].CompletedAt = cur.CompletedAt
		next[i].CancelledAt = cur.CancelledAt
	}
	return Ledger{entries: next}
}

// Next é o agendamento "scheduled" mais próximo a partir de now.
func (l Ledger) Next(now time.Time) (Appointment, bool) {
	var (
		found Appointment
		ok    bool
	)
	ref := Civil(now)
	// entries em ordem decrescente: o último que ainda não passou é o mais próximo
	for _, ap := range l.entries {
		if ap.Status != StatusScheduled || ap.Start().Before(ref) {
			continue
		}
		found, ok = ap, true
	}
	return found, ok
}

func (l Ledger) CountByStatus(s Status) int {
	n := 0
	for _, ap := range l.entries {
		if ap.Status == s {
			n++
		}
	}
	return n
}

func (l Ledger) indexOf(id string) int {
	for i, ap := range l.entries {
		if ap.ID == id {
			return i
		}
	}
	return -1
}
