package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// storedUser é o formato gravado; User esconde o hash no JSON da API.
type storedUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"password_hash,omitempty"`
}

// RedisDirectory guarda cada usuário como JSON e um índice e-mail -> ID.
type RedisDirectory struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisDirectory(rdb *redis.Client) *RedisDirectory {
	return &RedisDirectory{rdb: rdb, prefix: "barber:"}
}

func (d *RedisDirectory) userKey(id string) string {
	return d.prefix + "user:" + id
}

func (d *RedisDirectory) emailKey(email string) string {
	return d.prefix + "user:email:" + email
}

// Seed grava os usuários cujo e-mail ainda está livre.
func (d *RedisDirectory) Seed(ctx context.Context, users ...User) error {
	for i := range users {
		u := users[i]
		err := d.Create(ctx, &u)
		if err != nil && !httperr.IsBusiness(err, "email_already_exists") {
			return err
		}
	}
	return nil
}

func (d *RedisDirectory) FindByEmail(ctx context.Context, email string) (*User, error) {
	id, err := d.rdb.Get(ctx, d.emailKey(normalizeEmail(email))).Result()
	if errors.Is(err, redis.Nil) {
		return nil, httperr.ErrBusiness("user_not_found")
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return d.FindByID(ctx, id)
}

func (d *RedisDirectory) FindByID(ctx context.Context, id string) (*User, error) {
	raw, err := d.rdb.Get(ctx, d.userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, httperr.ErrBusiness("user_not_found")
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}

	var su storedUser
	if err := json.Unmarshal(raw, &su); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}

	return &User{ID: su.ID, Email: su.Email, Role: su.Role, PasswordHash: su.PasswordHash}, nil
}

// Create reserva o e-mail com SETNX antes de gravar o usuário.
func (d *RedisDirectory) Create(ctx context.Context, u *User) error {
	u.Email = normalizeEmail(u.Email)

	payload, err := json.Marshal(storedUser{
		ID:           u.ID,
		Email:        u.Email,
		Role:         u.Role,
		PasswordHash: u.PasswordHash,
	})
	if err != nil {
		return err
	}

	ok, err := d.rdb.SetNX(ctx, d.emailKey(u.Email), u.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("reserve email: %w", err)
	}
	if !ok {
		return httperr.ErrBusiness("email_already_exists")
	}

	if err := d.rdb.Set(ctx, d.userKey(u.ID), payload, 0).Err(); err != nil {
		return fmt.Errorf("save user %s: %w", u.ID, err)
	}
	return nil
}

var _ Directory = (*RedisDirectory)(nil)
