package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

func TestSignInSeedUsers(t *testing.T) {
	svc := NewService(NewMemoryDirectory(SeedUsers...))
	ctx := context.Background()

	admin, err := svc.SignIn(ctx, "Admin@Catoia.com ", "whatever")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, admin.Role)

	client, err := svc.SignIn(ctx, "cliente@email.com", "")
	require.NoError(t, err)
	assert.Equal(t, RoleClient, client.Role)

	_, err = svc.SignIn(ctx, "ninguem@email.com", "x")
	assert.True(t, httperr.IsBusiness(err, "user_not_found"))
}

func TestSignUpCreatesClientWithPassword(t *testing.T) {
	svc := NewService(NewMemoryDirectory(SeedUsers...))
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "novo@email.com", "segredo123")
	require.NoError(t, err)
	assert.Equal(t, RoleClient, u.Role)
	assert.NotEmpty(t, u.ID)

	_, err = svc.SignIn(ctx, "novo@email.com", "errada")
	assert.True(t, httperr.IsBusiness(err, "invalid_credentials"))

	got, err := svc.SignIn(ctx, "novo@email.com", "segredo123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.SignUp(ctx, "NOVO@email.com", "outra")
	assert.True(t, httperr.IsBusiness(err, "email_already_exists"))

	current, err := svc.Current(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "novo@email.com", current.Email)
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	raw, err := tokens.Issue(&User{ID: "2", Email: "cliente@email.com", Role: RoleClient})
	require.NoError(t, err)

	u, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "2", u.ID)
	assert.Equal(t, RoleClient, u.Role)

	_, err = NewTokens("other", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensExpire(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	issued := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issued }

	raw, err := tokens.Issue(&User{ID: "1", Role: RoleAdmin})
	require.NoError(t, err)

	tokens.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
