package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/balcao-digital-api/internal/application/apptest"
	"github.com/jhoicas/balcao-digital-api/internal/application/auth"
	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/internal/domain"
	pkgjwt "github.com/jhoicas/balcao-digital-api/pkg/jwt"
)

const secret = "test-secret"

func newUseCase() *auth.AuthUseCase {
	store := apptest.NewStore()
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "test"})
}

func TestRegisterYLogin(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: " Ana@Balcao.com ", Password: "segredo", FirstName: "ana", LastName: "da silva"})
	require.NoError(t, err)
	assert.Equal(t, "ana@balcao.com", u.Email)
	assert.Equal(t, "Ana", u.FirstName)
	assert.Equal(t, "Ana Da Silva", u.DisplayName)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@balcao.com", Password: "segredo"})
	require.NoError(t, err)
	userID, email, err := pkgjwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, "ana@balcao.com", email)

	me, err := uc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)
}

func TestRegister_Errores(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@balcao.com", Password: "12345"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "no-es-email", Password: "123456"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@balcao.com", Password: "123456"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ANA@balcao.com", Password: "123456"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@balcao.com", Password: "123456"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@balcao.com", Password: "errada"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@balcao.com", Password: "123456"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Me(ctx, "inexistente")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
