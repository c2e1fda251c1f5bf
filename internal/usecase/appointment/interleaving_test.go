package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
)

// heldRepo segura a primeira leitura de ledger até release ser fechado.
type heldRepo struct {
	domain.Repository

	once    sync.Once
	reached chan struct{}
	release chan struct{}
}

func newHeldRepo(inner domain.Repository) *heldRepo {
	return &heldRepo{
		Repository: inner,
		reached:    make(chan struct{}),
		release:    make(chan struct{}),
	}
}

func (r *heldRepo) GetLedger(ctx context.Context, clientID string) (domain.Ledger, error) {
	l, err := r.Repository.GetLedger(ctx, clientID)

	held := false
	r.once.Do(func() { held = true })
	if held {
		close(r.reached)
		<-r.release
	}
	return l, err
}

type sharedDeps struct {
	clock   Clock
	audit   *audit.Dispatcher
	metrics *metrics.BookingMetrics
}

func newSharedDeps(t *testing.T) sharedDeps {
	t.Helper()

	dispatcher := audit.NewDispatcher(audit.NewZapSink(zap.NewNop()), zap.NewNop(), 16)
	t.Cleanup(dispatcher.Close)

	return sharedDeps{
		clock:   func() time.Time { return fixedNow },
		audit:   dispatcher,
		metrics: metrics.NewBookingMetrics(prometheus.NewRegistry()),
	}
}

func (d sharedDeps) book(repo domain.Repository) *BookAppointment {
	return NewBookAppointment(repo, domain.DefaultWorkingHours, d.clock, d.audit, d.metrics)
}

func TestCompleteSurvivesConcurrentBooking(t *testing.T) {
	ctx := context.Background()
	d := newSharedDeps(t)
	inner := repository.NewMemoryRepository()

	first, err := d.book(inner).Execute(ctx, BookAppointmentInput{ClientID: "2", Date: "2024-03-20", Time: "10:00"})
	require.NoError(t, err)

	held := newHeldRepo(inner)
	bookDone := make(chan error, 1)
	go func() {
		_, err := d.book(held).Execute(ctx, BookAppointmentInput{ClientID: "2", Date: "2024-03-21", Time: "10:00"})
		bookDone <- err
	}()

	<-held.reached

	complete := NewCompleteAppointment(inner, d.clock, d.audit, d.metrics)
	_, err = complete.Execute(ctx, "1", first.Appointment.ID)
	require.NoError(t, err)

	close(held.release)
	require.NoError(t, <-bookDone)

	ledger, err := inner.GetLedger(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 2, ledger.Len())

	ap, ok := ledger.Find(first.Appointment.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StatusCompleted, ap.Status)
	assert.NotNil(t, ap.CompletedAt)
}

func TestCancelLosesToConcurrentComplete(t *testing.T) {
	ctx := context.Background()
	d := newSharedDeps(t)
	inner := repository.NewMemoryRepository()

	booked, err := d.book(inner).Execute(ctx, BookAppointmentInput{ClientID: "2", Date: "2024-03-20", Time: "10:00"})
	require.NoError(t, err)
	id := booked.Appointment.ID

	held := newHeldRepo(inner)
	cancel := NewCancelAppointment(held, d.clock, d.audit, d.metrics)

	cancelDone := make(chan error, 1)
	go func() {
		_, err := cancel.Execute(ctx, "2", id)
		cancelDone <- err
	}()

	<-held.reached

	complete := NewCompleteAppointment(inner, d.clock, d.audit, d.metrics)
	_, err = complete.Execute(ctx, "1", id)
	require.NoError(t, err)

	close(held.release)
	err = <-cancelDone
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))

	ledger, err := inner.GetLedger(ctx, "2")
	require.NoError(t, err)
	ap, _ := ledger.Find(id)
	assert.Equal(t, domain.StatusCompleted, ap.Status)
	assert.NotNil(t, ap.CompletedAt)
	assert.Nil(t, ap.CancelledAt)
}
