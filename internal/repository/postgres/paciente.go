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

const pacienteColumns = `
	id, nome, cpf, rg, data_nascimento, sexo, telefone, email,
	endereco, cep, cidade, estado, convenio, numero_carteirinha,
	contato_emergencia, telefone_emergencia, observacoes_medicas,
	alergias, medicamentos_uso, historico_familiar,
	created_at, updated_at
`

func (r *pacienteRepository) Create(ctx context.Context, p *model.Paciente) error {
	query := `
		INSERT INTO pacientes (
			nome, cpf, rg, data_nascimento, sexo, telefone, email,
			endereco, cep, cidade, estado, convenio, numero_carteirinha,
			contato_emergencia, telefone_emergencia, observacoes_medicas,
			alergias, medicamentos_uso, historico_familiar,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id
	`
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	err := r.db.QueryRowxContext(ctx, query,
		p.Nome,
		p.CPF,
		p.RG,
		p.DataNascimento,
		p.Sexo,
		p.Telefone,
		p.Email,
		p.Endereco,
		p.CEP,
		p.Cidade,
		p.Estado,
		p.Convenio,
		p.NumeroCarteirinha,
		p.ContatoEmergencia,
		p.TelefoneEmergencia,
		p.ObservacoesMedicas,
		p.Alergias,
		p.MedicamentosUso,
		p.HistoricoFamiliar,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create paciente: %w", err)
	}
	return nil
}

func (r *pacienteRepository) Get(ctx context.Context, id int64) (*model.Paciente, error) {
	var p model.Paciente
	err := r.db.GetContext(ctx, &p, `SELECT `+pacienteColumns+` FROM pacientes WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("paciente")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get paciente: %w", err)
	}
	return &p, nil
}

func (r *pacienteRepository) Search(ctx context.Context, termo string, limite int) ([]*model.Paciente, error) {
	query := `
		SELECT ` + pacienteColumns + `
		FROM pacientes
		WHERE nome ILIKE $1 OR cpf = $2 OR telefone LIKE $1
		ORDER BY nome
		LIMIT $3
	`
	var pacientes []*model.Paciente
	if err := r.db.SelectContext(ctx, &pacientes, query, "%"+termo+"%", termo, limite); err != nil {
		return nil, fmt.Errorf("failed to search pacientes: %w", err)
	}
	return pacientes, nil
}
