package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

const redisMaxRetries = 5

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisRepository guarda um JSON por ledger e dois índices:
// dono de cada agendamento e agendamentos por data.
type RedisRepository struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisRepository(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{rdb: rdb, prefix: "barber:"}
}

func (r *RedisRepository) ledgerKey(clientID string) string {
	return r.prefix + "ledger:" + clientID
}

func (r *RedisRepository) ownerKey(appointmentID string) string {
	return r.prefix + "appointment:owner:" + appointmentID
}

func (r *RedisRepository) dayKey(date string) string {
	return r.prefix + "appointments:date:" + date
}

// --------------------------------------------------
// Ledger
// --------------------------------------------------

func (r *RedisRepository) GetLedger(
	ctx context.Context,
	clientID string,
) (domain.Ledger, error) {
	return r.readLedger(ctx, r.rdb, clientID)
}

func (r *RedisRepository) readLedger(
	ctx context.Context,
	c stringGetter,
	clientID string,
) (domain.Ledger, error) {
	raw, err := c.Get(ctx, r.ledgerKey(clientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewLedger(), nil
	}
	if err != nil {
		return domain.Ledger{}, fmt.Errorf("get ledger %s: %w", clientID, err)
	}

	var entries []domain.Appointment
	if err := json.Unmarshal(raw, &entries); err != nil {
		return domain.Ledger{}, fmt.Errorf("decode ledger %s: %w", clientID, err)
	}

	return domain.NewLedger(entries...), nil
}

func (r *RedisRepository) PutLedger(
	ctx context.Context,
	clientID string,
	ledger domain.Ledger,
) error {
	key := r.ledgerKey(clientID)

	return r.watch(ctx, key, func(tx *redis.Tx) error {
		current, err := r.readLedger(ctx, tx, clientID)
		if err != nil {
			return err
		}

		// status gravados depois da leitura do chamador prevalecem
		merged := ledger.Reconcile(current)

		payload, err := json.Marshal(merged.RecentFive())
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			for _, ap := range current.RecentFive() {
				p.Del(ctx, r.ownerKey(ap.ID))
				p.HDel(ctx, r.dayKey(ap.Date), ap.ID)
			}
			for _, ap := range merged.RecentFive() {
				p.Set(ctx, r.ownerKey(ap.ID), clientID, 0)
				p.HSet(ctx, r.dayKey(ap.Date), ap.ID, clientID)
			}
			p.Set(ctx, key, payload, 0)
			return nil
		})
		return err
	})
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *RedisRepository) UpdateStatus(
	ctx context.Context,
	clientID string,
	ap domain.Appointment,
	from domain.Status,
) error {
	key := r.ledgerKey(clientID)

	return r.watch(ctx, key, func(tx *redis.Tx) error {
		current, err := r.readLedger(ctx, tx, clientID)
		if err != nil {
			return err
		}

		next, err := current.Swap(ap, from)
		if err != nil {
			return err
		}

		payload, err := json.Marshal(next.RecentFive())
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, payload, 0)
			return nil
		})
		return err
	})
}

func (r *RedisRepository) FindOwner(
	ctx context.Context,
	appointmentID string,
) (string, error) {
	clientID, err := r.rdb.Get(ctx, r.ownerKey(appointmentID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", httperr.ErrBusiness("appointment_not_found")
	}
	if err != nil {
		return "", fmt.Errorf("find owner %s: %w", appointmentID, err)
	}
	return clientID, nil
}

// --------------------------------------------------
// Admin
// --------------------------------------------------

func (r *RedisRepository) ListByDate(
	ctx context.Context,
	date time.Time,
) ([]domain.DayEntry, error) {
	day := date.Format(domain.DateLayout)

	index, err := r.rdb.HGetAll(ctx, r.dayKey(day)).Result()
	if err != nil {
		return nil, fmt.Errorf("list day %s: %w", day, err)
	}

	ledgers := make(map[string]domain.Ledger)
	var out []domain.DayEntry

	for appointmentID, clientID := range index {
		ledger, ok := ledgers[clientID]
		if !ok {
			ledger, err = r.GetLedger(ctx, clientID)
			if err != nil {
				return nil, err
			}
			ledgers[clientID] = ledger
		}

		ap, found := ledger.Find(appointmentID)
		if !found || ap.Date != day {
			continue
		}
		out = append(out, domain.DayEntry{ClientID: clientID, Appointment: ap})
	}

	sortDay(out)
	return out, nil
}

// watch executa fn com WATCH na chave, repetindo em caso de conflito.
func (r *RedisRepository) watch(ctx context.Context, key string, fn func(*redis.Tx) error) error {
	for i := 0; i < redisMaxRetries; i++ {
		err := r.rdb.Watch(ctx, fn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update %s: too much contention", key)
}

var _ domain.Repository = (*RedisRepository)(nil)
