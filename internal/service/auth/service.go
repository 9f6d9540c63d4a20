package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/neuroexam/clinic-api/internal/config"
	"github.com/neuroexam/clinic-api/internal/model"
	"github.com/neuroexam/clinic-api/internal/repository"
	apperrors "github.com/neuroexam/clinic-api/pkg/errors"
	"github.com/neuroexam/clinic-api/pkg/logger"
	"github.com/neuroexam/clinic-api/pkg/security"
)

type Service struct {
	repo   repository.UsuarioRepository
	hasher security.PasswordHasher
	cfg    config.AuthConfig
	logger *logger.Logger
}

func NewService(repo repository.UsuarioRepository, hasher security.PasswordHasher, cfg config.AuthConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, cfg: cfg, logger: log}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.Unauthorized("credenciais inválidas")
		}
		return nil, err
	}
	if err := s.hasher.Compare(u.SenhaHash, req.Senha); err != nil {
		return nil, apperrors.Unauthorized("credenciais inválidas")
	}

	expiry := time.Duration(s.cfg.ExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = 8 * time.Hour
	}
	expiresAt := time.Now().Add(expiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		Usuario:   u,
	}, nil
}

// ValidateToken parses and verifies a bearer token.
func (s *Service) ValidateToken(tokenString string) (*model.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("token inválido")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.Unauthorized("token inválido")
	}

	out := &model.TokenClaims{}
	if sub, ok := claims["sub"].(float64); ok {
		out.UsuarioID = int64(sub)
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	return out, nil
}

// Bootstrap creates the initial staff account if one is configured and no
// account with that email exists yet.
func (s *Service) Bootstrap(ctx context.Context) error {
	if s.cfg.BootstrapEmail == "" || s.cfg.BootstrapPassword == "" {
		return nil
	}

	hash, err := s.hasher.Hash(s.cfg.BootstrapPassword)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	u := &model.Usuario{
		Nome:      "Administrador",
		Email:     s.cfg.BootstrapEmail,
		SenhaHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return err
	}
	s.logger.Info("bootstrap usuario ensured", "email", s.cfg.BootstrapEmail)
	return nil
}
