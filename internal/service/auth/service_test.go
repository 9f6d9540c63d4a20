package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/neuroexam/clinic-api/internal/config"
	"github.com/neuroexam/clinic-api/internal/model"
	apperrors "github.com/neuroexam/clinic-api/pkg/errors"
	"github.com/neuroexam/clinic-api/pkg/logger"
	"github.com/neuroexam/clinic-api/pkg/security"
)

type mockUsuarioRepo struct {
	createFn     func(ctx context.Context, u *model.Usuario) error
	getByEmailFn func(ctx context.Context, email string) (*model.Usuario, error)
}

func (m *mockUsuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return m.createFn(ctx, u)
}

func (m *mockUsuarioRepo) GetByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	return m.getByEmailFn(ctx, email)
}

func newTestService(repo *mockUsuarioRepo, cfg config.AuthConfig) *Service {
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	return NewService(repo, hasher, cfg, logger.NewLogger(nil))
}

func testUsuario(t *testing.T, senha string) *model.Usuario {
	t.Helper()
	hash, err := security.NewBcryptHasher(bcrypt.MinCost).Hash(senha)
	require.NoError(t, err)
	return &model.Usuario{
		ID:        7,
		Nome:      "Recepção",
		Email:     "recepcao@clinica.com.br",
		SenhaHash: hash,
		Ativo:     true,
	}
}

func TestLoginSucesso(t *testing.T) {
	u := testUsuario(t, "segredo123")
	repo := &mockUsuarioRepo{
		getByEmailFn: func(ctx context.Context, email string) (*model.Usuario, error) {
			assert.Equal(t, u.Email, email)
			return u, nil
		},
	}
	svc := newTestService(repo, config.AuthConfig{Secret: "test-secret"})

	resp, err := svc.Login(context.Background(), &model.LoginRequest{Email: u.Email, Senha: "segredo123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, u.Email, resp.Usuario.Email)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), resp.ExpiresAt, time.Minute)
}

func TestLoginSenhaIncorreta(t *testing.T) {
	u := testUsuario(t, "segredo123")
	repo := &mockUsuarioRepo{
		getByEmailFn: func(ctx context.Context, email string) (*model.Usuario, error) {
			return u, nil
		},
	}
	svc := newTestService(repo, config.AuthConfig{Secret: "test-secret"})

	_, err := svc.Login(context.Background(), &model.LoginRequest{Email: u.Email, Senha: "errada"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestLoginEmailDesconhecido(t *testing.T) {
	repo := &mockUsuarioRepo{
		getByEmailFn: func(ctx context.Context, email string) (*model.Usuario, error) {
			return nil, apperrors.NotFound("usuário não encontrado")
		},
	}
	svc := newTestService(repo, config.AuthConfig{Secret: "test-secret"})

	_, err := svc.Login(context.Background(), &model.LoginRequest{Email: "ninguem@clinica.com.br", Senha: "x"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestValidateTokenRoundtrip(t *testing.T) {
	u := testUsuario(t, "segredo123")
	repo := &mockUsuarioRepo{
		getByEmailFn: func(ctx context.Context, email string) (*model.Usuario, error) {
			return u, nil
		},
	}
	svc := newTestService(repo, config.AuthConfig{Secret: "test-secret", ExpiryHours: 2})

	resp, err := svc.Login(context.Background(), &model.LoginRequest{Email: u.Email, Senha: "segredo123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UsuarioID)
	assert.Equal(t, u.Email, claims.Email)
}

func TestValidateTokenInvalido(t *testing.T) {
	svc := newTestService(&mockUsuarioRepo{}, config.AuthConfig{Secret: "test-secret"})

	_, err := svc.ValidateToken("nao-e-um-token")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestValidateTokenSecretDiferente(t *testing.T) {
	u := testUsuario(t, "segredo123")
	repo := &mockUsuarioRepo{
		getByEmailFn: func(ctx context.Context, email string) (*model.Usuario, error) {
			return u, nil
		},
	}
	emissor := newTestService(repo, config.AuthConfig{Secret: "outro-secret"})
	resp, err := emissor.Login(context.Background(), &model.LoginRequest{Email: u.Email, Senha: "segredo123"})
	require.NoError(t, err)

	validador := newTestService(repo, config.AuthConfig{Secret: "test-secret"})
	_, err = validador.ValidateToken(resp.Token)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestBootstrapSemConfiguracao(t *testing.T) {
	called := false
	repo := &mockUsuarioRepo{
		createFn: func(ctx context.Context, u *model.Usuario) error {
			called = true
			return nil
		},
	}
	svc := newTestService(repo, config.AuthConfig{Secret: "test-secret"})

	require.NoError(t, svc.Bootstrap(context.Background()))
	assert.False(t, called)
}

func TestBootstrapCriaUsuario(t *testing.T) {
	var created *model.Usuario
	repo := &mockUsuarioRepo{
		createFn: func(ctx context.Context, u *model.Usuario) error {
			created = u
			return nil
		},
	}
	svc := newTestService(repo, config.AuthConfig{
		Secret:            "test-secret",
		BootstrapEmail:    "admin@clinica.com.br",
		BootstrapPassword: "inicial123",
	})

	require.NoError(t, svc.Bootstrap(context.Background()))
	require.NotNil(t, created)
	assert.Equal(t, "admin@clinica.com.br", created.Email)
	assert.NoError(t, security.NewBcryptHasher(bcrypt.MinCost).Compare(created.SenhaHash, "inicial123"))
}
