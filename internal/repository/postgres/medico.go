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

func (r *medicoRepository) Create(ctx context.Context, m *model.Medico) error {
	query := `
		INSERT INTO medicos (
			nome, crm, uf_crm, rqe, especialidade, telefone, email,
			endereco, horario_atendimento, ativo, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	m.Ativo = true

	err := r.db.QueryRowxContext(ctx, query,
		m.Nome,
		m.CRM,
		m.UFCRM,
		m.RQE,
		m.Especialidade,
		m.Telefone,
		m.Email,
		m.Endereco,
		m.HorarioAtendimento,
		m.Ativo,
		m.CreatedAt,
		m.UpdatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to create medico: %w", err)
	}
	return nil
}

func (r *medicoRepository) Get(ctx context.Context, id int64) (*model.Medico, error) {
	query := `
		SELECT id, nome, crm, uf_crm, rqe, especialidade, telefone, email,
			   endereco, horario_atendimento, ativo, created_at, updated_at
		FROM medicos
		WHERE id = $1
	`
	var m model.Medico
	err := r.db.GetContext(ctx, &m, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("medico")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medico: %w", err)
	}
	return &m, nil
}
