package identity

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// GormDirectory guarda os usuários na tabela users.
type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

// Seed insere os usuários que ainda não existem (por ID ou e-mail).
func (d *GormDirectory) Seed(ctx context.Context, users ...User) error {
	if len(users) == 0 {
		return nil
	}

	rows := make([]models.User, 0, len(users))
	for _, u := range users {
		u.Email = normalizeEmail(u.Email)
		rows = append(rows, toUserModel(&u))
	}

	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (d *GormDirectory) FindByEmail(ctx context.Context, email string) (*User, error) {
	return d.first(ctx, "email = ?", normalizeEmail(email))
}

func (d *GormDirectory) FindByID(ctx context.Context, id string) (*User, error) {
	return d.first(ctx, "id = ?", id)
}

func (d *GormDirectory) Create(ctx context.Context, u *User) error {
	u.Email = normalizeEmail(u.Email)

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("email = ?", u.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("email_already_exists")
		}

		row := toUserModel(u)
		err := tx.Create(&row).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return httperr.ErrBusiness("email_already_exists")
		}
		return err
	})
}

func (d *GormDirectory) first(ctx context.Context, query string, arg any) (*User, error) {
	var row models.User
	err := d.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("user_not_found")
	}
	if err != nil {
		return nil, err
	}

	return &User{
		ID:           row.ID,
		Email:        row.Email,
		Role:         Role(row.Role),
		PasswordHash: row.PasswordHash,
	}, nil
}

func toUserModel(u *User) models.User {
	return models.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
	}
}

var _ Directory = (*GormDirectory)(nil)
