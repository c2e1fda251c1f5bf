package appointment

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
)

type GetSlots struct {
	hours   domain.WorkingHours
	cache   *lru.Cache[domain.WorkingHours, []domain.TimeSlot]
	now     Clock
	metrics *metrics.BookingMetrics
}

func NewGetSlots(
	hours domain.WorkingHours,
	cacheSize int,
	now Clock,
	m *metrics.BookingMetrics,
) (*GetSlots, error) {
	cache, err := lru.New[domain.WorkingHours, []domain.TimeSlot](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("slots cache: %w", err)
	}

	return &GetSlots{
		hours:   hours,
		cache:   cache,
		now:     now,
		metrics: m,
	}, nil
}

// Execute devolve os horários do dia. Para hoje, só os que ainda não passaram.
func (uc *GetSlots) Execute(
	_ context.Context,
	date string,
) ([]domain.TimeSlot, error) {

	day, err := domain.ParseDateTime(date, "00:00")
	if err != nil {
		return nil, err
	}

	now := domain.Civil(uc.now())
	today := now.Format(domain.DateLayout)
	requested := day.Format(domain.DateLayout)
	if requested < today {
		return nil, httperr.ErrBusiness("too_soon")
	}

	all, err := uc.slots()
	if err != nil {
		return nil, err
	}

	out := make([]domain.TimeSlot, 0, len(all))
	for _, s := range all {
		if requested == today && s <= now.Format(domain.TimeLayout) {
			continue
		}
		out = append(out, s)
	}

	return out, nil
}

func (uc *GetSlots) slots() ([]domain.TimeSlot, error) {
	if cached, ok := uc.cache.Get(uc.hours); ok {
		uc.metrics.ObserveSlotsCache(true)
		return cached, nil
	}
	uc.metrics.ObserveSlotsCache(false)

	slots, err := domain.GenerateSlots(uc.hours)
	if err != nil {
		return nil, err
	}

	uc.cache.Add(uc.hours, slots)
	return slots, nil
}
