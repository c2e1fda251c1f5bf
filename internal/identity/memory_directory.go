package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// Usuários de demonstração; sem senha cadastrada.
var SeedUsers = []User{
	{ID: "1", Email: "admin@catoia.com", Role: RoleAdmin},
	{ID: "2", Email: "cliente@email.com", Role: RoleClient},
}

type MemoryDirectory struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]*User
}

func NewMemoryDirectory(seed ...User) *MemoryDirectory {
	d := &MemoryDirectory{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
	for i := range seed {
		u := seed[i]
		d.put(&u)
	}
	return d
}

func (d *MemoryDirectory) FindByEmail(_ context.Context, email string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, httperr.ErrBusiness("user_not_found")
	}
	cp := *u
	return &cp, nil
}

func (d *MemoryDirectory) FindByID(_ context.Context, id string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.byID[id]
	if !ok {
		return nil, httperr.ErrBusiness("user_not_found")
	}
	cp := *u
	return &cp, nil
}

func (d *MemoryDirectory) Create(_ context.Context, u *User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	u.Email = normalizeEmail(u.Email)
	if _, exists := d.byEmail[u.Email]; exists {
		return httperr.ErrBusiness("email_already_exists")
	}

	cp := *u
	d.put(&cp)
	return nil
}

func (d *MemoryDirectory) put(u *User) {
	u.Email = normalizeEmail(u.Email)
	d.byID[u.ID] = u
	d.byEmail[u.Email] = u
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ Directory = (*MemoryDirectory)(nil)
