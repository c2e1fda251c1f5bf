package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

var now = time.Date(2024, 3, 19, 9, 0, 0, 0, time.UTC)

func book(t *testing.T, l domain.Ledger, date, slot string) (domain.Ledger, domain.Insertion) {
	t.Helper()
	next, ins, err := l.Add(date, slot, now)
	require.NoError(t, err)
	return next, ins
}

// runRepositoryContract roda o mesmo comportamento contra qualquer backend.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) domain.Repository) {
	ctx := context.Background()

	t.Run("unknown client has empty ledger", func(t *testing.T) {
		repo := newRepo(t)

		l, err := repo.GetLedger(ctx, "nobody")
		require.NoError(t, err)
		assert.Equal(t, 0, l.Len())
	})

	t.Run("put and get round trip", func(t *testing.T) {
		repo := newRepo(t)

		l, _ := book(t, domain.NewLedger(), "2024-03-20", "10:00")
		l, _ = book(t, l, "2024-03-22", "14:30")
		require.NoError(t, repo.PutLedger(ctx, "c1", l))

		got, err := repo.GetLedger(ctx, "c1")
		require.NoError(t, err)
		require.Equal(t, 2, got.Len())
		assert.Equal(t, l.RecentFive()[0].ID, got.RecentFive()[0].ID)
		assert.Equal(t, "2024-03-22", got.RecentFive()[0].Date)

		owner, err := repo.FindOwner(ctx, l.RecentFive()[1].ID)
		require.NoError(t, err)
		assert.Equal(t, "c1", owner)
	})

	t.Run("evicted appointments disappear", func(t *testing.T) {
		repo := newRepo(t)

		l := domain.NewLedger()
		for i := 20; i <= 24; i++ {
			l, _ = book(t, l, fmt.Sprintf("2024-03-%02d", i), "10:00")
		}
		require.NoError(t, repo.PutLedger(ctx, "c1", l))

		l, ins := book(t, l, "2024-03-25", "14:30")
		require.Len(t, ins.Evicted, 1)
		require.NoError(t, repo.PutLedger(ctx, "c1", l))

		_, err := repo.FindOwner(ctx, ins.Evicted[0].ID)
		assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))

		day, err := repo.ListByDate(ctx, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, day)

		got, err := repo.GetLedger(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 5, got.Len())
		assert.Equal(t, "2024-03-25", got.RecentFive()[0].Date)
	})

	t.Run("update status persists only the target", func(t *testing.T) {
		repo := newRepo(t)

		l, _ := book(t, domain.NewLedger(), "2024-03-20", "10:00")
		l, _ = book(t, l, "2024-03-21", "10:00")
		require.NoError(t, repo.PutLedger(ctx, "c1", l))

		target := l.RecentFive()[1]
		_, done, err := l.MarkCompleted(target.ID, now)
		require.NoError(t, err)
		require.NoError(t, repo.UpdateStatus(ctx, "c1", done, domain.StatusScheduled))

		got, err := repo.GetLedger(ctx, "c1")
		require.NoError(t, err)

		ap, ok := got.Find(target.ID)
		require.True(t, ok)
		assert.Equal(t, domain.StatusCompleted, ap.Status)
		require.NotNil(t, ap.CompletedAt)

		other, _ := got.Find(l.RecentFive()[0].ID)
		assert.Equal(t, domain.StatusScheduled, other.Status)

		err = repo.UpdateStatus(ctx, "c2", done, domain.StatusScheduled)
		assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
	})

	t.Run("update status rejects a stale prior status", func(t *testing.T) {
		repo := newRepo(t)

		l, _ := book(t, domain.NewLedger(), "2024-03-20", "10:00")
		require.NoError(t, repo.PutLedger(ctx, "c1", l))
		id := l.RecentFive()[0].ID

		_, done, err := l.MarkCompleted(id, now)
		require.NoError(t, err)
		_, cancelled, err := l.Cancel(id, now)
		require.NoError(t, err)

		require.NoError(t, repo.UpdateStatus(ctx, "c1", done, domain.StatusScheduled))

		err = repo.UpdateStatus(ctx, "c1", cancelled, domain.StatusScheduled)
		assert.True(t, httperr.IsBusiness(err, "invalid_state"))

		got, err := repo.GetLedger(ctx, "c1")
		require.NoError(t, err)
		ap, _ := got.Find(id)
		assert.Equal(t, domain.StatusCompleted, ap.Status)
		assert.NotNil(t, ap.CompletedAt)
		assert.Nil(t, ap.CancelledAt)
	})

	t.Run("put ledger keeps stored status", func(t *testing.T) {
		repo := newRepo(t)

		stale, _ := book(t, domain.NewLedger(), "2024-03-20", "10:00")
		require.NoError(t, repo.PutLedger(ctx, "c1", stale))
		id := stale.RecentFive()[0].ID

		_, done, err := stale.MarkCompleted(id, now)
		require.NoError(t, err)
		require.NoError(t, repo.UpdateStatus(ctx, "c1", done, domain.StatusScheduled))

		// gravação de quem leu antes da conclusão
		next, ins := book(t, stale, "2024-03-21", "10:00")
		require.NoError(t, repo.PutLedger(ctx, "c1", next))

		got, err := repo.GetLedger(ctx, "c1")
		require.NoError(t, err)
		require.Equal(t, 2, got.Len())

		ap, _ := got.Find(id)
		assert.Equal(t, domain.StatusCompleted, ap.Status)
		fresh, _ := got.Find(ins.Appointment.ID)
		assert.Equal(t, domain.StatusScheduled, fresh.Status)
	})

	t.Run("equal keys keep the newer entry ahead", func(t *testing.T) {
		repo := newRepo(t)

		l, first := book(t, domain.NewLedger(), "2024-03-20", "10:00")
		l, second := book(t, l, "2024-03-20", "10:00")
		for _, d := range []string{"2024-03-21", "2024-03-22", "2024-03-23"} {
			l, _ = book(t, l, d, "10:00")
		}
		require.NoError(t, repo.PutLedger(ctx, "c1", l))

		got, err := repo.GetLedger(ctx, "c1")
		require.NoError(t, err)
		ids := make([]string, 0, got.Len())
		for _, ap := range got.RecentFive() {
			ids = append(ids, ap.ID)
		}
		require.Len(t, ids, 5)
		assert.Equal(t, second.Appointment.ID, ids[3])
		assert.Equal(t, first.Appointment.ID, ids[4])

		_, ins := book(t, got, "2024-03-24", "10:00")
		require.Len(t, ins.Evicted, 1)
		assert.Equal(t, first.Appointment.ID, ins.Evicted[0].ID)
	})

	t.Run("list by date spans clients in time order", func(t *testing.T) {
		repo := newRepo(t)

		a, _ := book(t, domain.NewLedger(), "2024-03-20", "16:00")
		a, _ = book(t, a, "2024-03-21", "09:00")
		b, _ := book(t, domain.NewLedger(), "2024-03-20", "14:30")
		require.NoError(t, repo.PutLedger(ctx, "a", a))
		require.NoError(t, repo.PutLedger(ctx, "b", b))

		day, err := repo.ListByDate(ctx, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, day, 2)
		assert.Equal(t, "b", day[0].ClientID)
		assert.Equal(t, "14:30", day[0].Appointment.Time)
		assert.Equal(t, "a", day[1].ClientID)
		assert.Equal(t, "16:00", day[1].Appointment.Time)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.FindOwner(ctx, "nonexistent-id")
		assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
	})
}

func TestMemoryRepository(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) domain.Repository {
		return NewMemoryRepository()
	})
}
