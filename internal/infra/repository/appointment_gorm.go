package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Ledger
// --------------------------------------------------

func (r *AppointmentGormRepository) GetLedger(
	ctx context.Context,
	clientID string,
) (domain.Ledger, error) {

	var rows []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("start_at DESC").
		Order("position ASC").
		Limit(domain.RecentCapacity).
		Find(&rows).Error; err != nil {
		return domain.Ledger{}, err
	}

	entries := make([]domain.Appointment, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toDomain(row))
	}

	return domain.NewLedger(entries...), nil
}

func (r *AppointmentGormRepository) PutLedger(
	ctx context.Context,
	clientID string,
	ledger domain.Ledger,
) error {

	entries := ledger.RecentFive()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// o que saiu do ranking é apagado
		del := tx.Where("client_id = ?", clientID)
		if len(entries) > 0 {
			ids := make([]string, 0, len(entries))
			for _, ap := range entries {
				ids = append(ids, ap.ID)
			}
			del = del.Where("id NOT IN ?", ids)
		}
		if err := del.Delete(&models.Appointment{}).Error; err != nil {
			return err
		}

		if len(entries) == 0 {
			return nil
		}

		rows := make([]models.Appointment, 0, len(entries))
		for i, ap := range entries {
			row := toModel(clientID, ap)
			row.Position = i
			rows = append(rows, row)
		}

		// linhas existentes só mudam de posição; status é de UpdateStatus
		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"position", "updated_at"}),
			}).
			Create(&rows).Error
	})
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) UpdateStatus(
	ctx context.Context,
	clientID string,
	ap domain.Appointment,
	from domain.Status,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Appointment{}).
			Where("id = ? AND client_id = ? AND status = ?", ap.ID, clientID, string(from)).
			Updates(map[string]any{
				"status":       string(ap.Status),
				"completed_at": ap.CompletedAt,
				"cancelled_at": ap.CancelledAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		// nada mudou: ou não existe, ou outro pedido já mudou o status
		var count int64
		if err := tx.
			Model(&models.Appointment{}).
			Where("id = ? AND client_id = ?", ap.ID, clientID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return httperr.ErrBusiness("appointment_not_found")
		}
		return httperr.ErrBusiness("invalid_state")
	})
}

func (r *AppointmentGormRepository) FindOwner(
	ctx context.Context,
	appointmentID string,
) (string, error) {

	var row models.Appointment
	err := r.db.WithContext(ctx).
		Select("client_id").
		Where("id = ?", appointmentID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", httperr.ErrBusiness("appointment_not_found")
	}
	if err != nil {
		return "", err
	}

	return row.ClientID, nil
}

// --------------------------------------------------
// Admin
// --------------------------------------------------

func (r *AppointmentGormRepository) ListByDate(
	ctx context.Context,
	date time.Time,
) ([]domain.DayEntry, error) {

	var rows []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("date = ?", date.Format(domain.DateLayout)).
		Order("time ASC").
		Order("client_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.DayEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.DayEntry{
			ClientID:    row.ClientID,
			Appointment: toDomain(row),
		})
	}

	return out, nil
}

func toDomain(row models.Appointment) domain.Appointment {
	return domain.Appointment{
		ID:          row.ID,
		Date:        row.Date,
		Time:        row.Time,
		Status:      domain.Status(row.Status),
		CreatedAt:   row.CreatedAt,
		CompletedAt: row.CompletedAt,
		CancelledAt: row.CancelledAt,
	}
}

func toModel(clientID string, ap domain.Appointment) models.Appointment {
	return models.Appointment{
		ID:          ap.ID,
		ClientID:    clientID,
		Date:        ap.Date,
		Time:        ap.Time,
		StartAt:     ap.Start(),
		Status:      string(ap.Status),
		CreatedAt:   ap.CreatedAt,
		CompletedAt: ap.CompletedAt,
		CancelledAt: ap.CancelledAt,
	}
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
