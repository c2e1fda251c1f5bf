package appointment

import (
	"fmt"
	"math"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// TimeSlot é um horário HH:MM (24h) oferecido para agendamento.
type TimeSlot = string

// WorkingHours descreve o expediente: início e fim em horas (o fim pode
// ser fracionário, 19.5 = 19:30) e o intervalo entre horários em minutos.
type WorkingHours struct {
	StartHour       float64 `json:"start_hour"`
	EndHour         float64 `json:"end_hour"`
	IntervalMinutes int     `json:"interval_minutes"`
}

// DefaultWorkingHours: 08:00 às 19:30, de 30 em 30 minutos.
var DefaultWorkingHours = WorkingHours{
	StartHour:       8,
	EndHour:         19.5,
	IntervalMinutes: 30,
}

func (wh WorkingHours) Validate() error {
	if wh.IntervalMinutes <= 0 {
		return httperr.ErrBusiness("invalid_config")
	}
	if math.IsNaN(wh.StartHour) || math.IsNaN(wh.EndHour) {
		return httperr.ErrBusiness("invalid_config")
	}
	if wh.StartHour < 0 || wh.EndHour >= 24 || wh.StartHour > wh.EndHour {
		return httperr.ErrBusiness("invalid_config")
	}
	if _, end := wh.bounds(); end >= 24*60 {
		return httperr.ErrBusiness("invalid_config")
	}
	return nil
}

// bounds converte o expediente em minutos do dia, arredondando uma única vez.
func (wh WorkingHours) bounds() (start, end int) {
	return int(math.Round(wh.StartHour * 60)), int(math.Round(wh.EndHour * 60))
}

// GenerateSlots devolve os horários de StartHour até EndHour (inclusive),
// avançando IntervalMinutes por passo. Aritmética inteira em minutos:
// intervalos que não dividem 60 não acumulam erro.
func GenerateSlots(wh WorkingHours) ([]TimeSlot, error) {
	if err := wh.Validate(); err != nil {
		return nil, err
	}

	start, end := wh.bounds()

	slots := make([]TimeSlot, 0, (end-start)/wh.IntervalMinutes+1)
	for m := start; m <= end; m += wh.IntervalMinutes {
		slots = append(slots, formatMinuteOfDay(m))
	}

	return slots, nil
}

// Contains reporta se slot é um dos horários gerados pelo expediente.
func (wh WorkingHours) Contains(slot TimeSlot) bool {
	if wh.Validate() != nil {
		return false
	}

	m, ok := parseMinuteOfDay(slot)
	if !ok {
		return false
	}

	start, end := wh.bounds()
	if m < start || m > end {
		return false
	}
	return (m-start)%wh.IntervalMinutes == 0
}

func formatMinuteOfDay(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func parseMinuteOfDay(slot string) (int, bool) {
	if len(slot) != 5 || slot[2] != ':' {
		return 0, false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if slot[i] < '0' || slot[i] > '9' {
			return 0, false
		}
	}

	h := int(slot[0]-'0')*10 + int(slot[1]-'0')
	m := int(slot[3]-'0')*10 + int(slot[4]-'0')
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
