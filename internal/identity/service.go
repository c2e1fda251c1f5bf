package identity

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

type Service struct {
	dir Directory
}

func NewService(dir Directory) *Service {
	return &Service{dir: dir}
}

// SignIn localiza o usuário pelo e-mail. A senha só é conferida quando o
// usuário tem uma cadastrada; os usuários de demonstração não têm.
func (s *Service) SignIn(ctx context.Context, email, password string) (*User, error) {
	u, err := s.dir.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if u.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
			return nil, httperr.ErrBusiness("invalid_credentials")
		}
	}

	return u, nil
}

// SignUp sempre cria um cliente.
func (s *Service) SignUp(ctx context.Context, email, password string) (*User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Role:         RoleClient,
		PasswordHash: string(hashed),
	}

	if err := s.dir.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) Current(ctx context.Context, id string) (*User, error) {
	return s.dir.FindByID(ctx, id)
}
