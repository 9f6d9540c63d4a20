package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/neuroexam/clinic-api/internal/model"
	apperrors "github.com/neuroexam/clinic-api/pkg/errors"
)

func (r *usuarioRepository) Create(ctx context.Context, u *model.Usuario) error {
	query := `
		INSERT INTO usuarios (nome, email, senha_hash, ativo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	u.Ativo = true

	err := r.db.QueryRowxContext(ctx, query,
		u.Nome,
		u.Email,
		u.SenhaHash,
		u.Ativo,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(&u.ID)
	if errors.Is(err, sql.ErrNoRows) {
		// Email already registered; bootstrap calls rely on this being
		// a quiet no-op.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create usuario: %w", err)
	}
	return nil
}

func (r *usuarioRepository) GetByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	query := `
		SELECT id, nome, email, senha_hash, ativo, created_at, updated_at
		FROM usuarios
		WHERE email = $1 AND ativo = TRUE
	`
	var u model.Usuario
	err := r.db.GetContext(ctx, &u, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("usuário")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get usuario: %w", err)
	}
	return &u, nil
}
