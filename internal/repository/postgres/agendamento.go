package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/neuroexam/clinic-api/internal/model"
	apperrors "github.com/neuroexam/clinic-api/pkg/errors"
)

func (r *agendamentoRepository) Create(ctx context.Context, ag *model.Agendamento) error {
	query := `
		INSERT INTO agendamentos (
			nome_paciente, telefone, email, data_agendamento,
			tipo_exame, status, observacoes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	ag.CreatedAt = time.Now()
	ag.UpdatedAt = ag.CreatedAt
	if ag.Status == "" {
		ag.Status = model.AgendamentoStatusAgendado
	}

	err := r.db.QueryRowxContext(ctx, query,
		ag.NomePaciente,
		ag.Telefone,
		ag.Email,
		ag.DataAgendamento,
		ag.TipoExame,
		ag.Status,
		ag.Observacoes,
		ag.CreatedAt,
		ag.UpdatedAt,
	).Scan(&ag.ID)
	if err != nil {
		return fmt.Errorf("failed to create agendamento: %w", err)
	}
	return nil
}

func (r *agendamentoRepository) Get(ctx context.Context, id int64) (*model.Agendamento, error) {
	query := `
		SELECT id, nome_paciente, telefone, email, data_agendamento,
			   tipo_exame, status, observacoes, data_nascimento, sexo,
			   rg, cpf, endereco, convenio, indicacao, medico_solicitante,
			   laudo_id, created_at, updated_at
		FROM agendamentos
		WHERE id = $1
	`
	var ag model.Agendamento
	err := r.db.GetContext(ctx, &ag, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("agendamento")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agendamento: %w", err)
	}
	return &ag, nil
}

func (r *agendamentoRepository) List(ctx context.Context, filtros *model.AgendamentoFiltros) ([]*model.Agendamento, error) {
	query := `
		SELECT id, nome_paciente, telefone, email, data_agendamento,
			   tipo_exame, status, observacoes, data_nascimento, sexo,
			   rg, cpf, endereco, convenio, indicacao, medico_solicitante,
			   laudo_id, created_at, updated_at
		FROM agendamentos
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filtros.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filtros.Status)
		argCount++
	}
	if filtros.TipoExame != "" {
		query += fmt.Sprintf(" AND tipo_exame = $%d", argCount)
		args = append(args, filtros.TipoExame)
		argCount++
	}
	if filtros.DataInicio != "" {
		query += fmt.Sprintf(" AND data_agendamento >= $%d", argCount)
		args = append(args, filtros.DataInicio)
		argCount++
	}
	if filtros.DataFim != "" {
		query += fmt.Sprintf(" AND data_agendamento < ($%d::date + INTERVAL '1 day')", argCount)
		args = append(args, filtros.DataFim)
		argCount++
	}

	query += " ORDER BY data_agendamento ASC"

	var ags []*model.Agendamento
	if err := r.db.SelectContext(ctx, &ags, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list agendamentos: %w", err)
	}
	return ags, nil
}

func (r *agendamentoRepository) Update(ctx context.Context, ag *model.Agendamento) error {
	query := `
		UPDATE agendamentos
		SET nome_paciente = $1, telefone = $2, email = $3,
			data_agendamento = $4, tipo_exame = $5, status = $6,
			observacoes = $7, data_nascimento = $8, sexo = $9,
			rg = $10, cpf = $11, endereco = $12, convenio = $13,
			indicacao = $14, medico_solicitante = $15, laudo_id = $16,
			updated_at = $17
		WHERE id = $18
	`
	ag.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		ag.NomePaciente,
		ag.Telefone,
		ag.Email,
		ag.DataAgendamento,
		ag.TipoExame,
		ag.Status,
		ag.Observacoes,
		ag.DataNascimento,
		ag.Sexo,
		ag.RG,
		ag.CPF,
		ag.Endereco,
		ag.Convenio,
		ag.Indicacao,
		ag.MedicoSolicitante,
		ag.LaudoID,
		ag.UpdatedAt,
		ag.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update agendamento: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("agendamento")
	}
	return nil
}

func (r *agendamentoRepository) Precadastro(ctx context.Context, ag *model.Agendamento, laudo *model.Laudo) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if laudo.NumeroControle == "" {
			numero, err := nextNumeroControle(ctx, tx, laudo.DataExame.Year())
			if err != nil {
				return err
			}
			laudo.NumeroControle = numero
		}

		laudo.CreatedAt = time.Now()
		laudo.UpdatedAt = laudo.CreatedAt
		if laudo.Status == "" {
			laudo.Status = model.LaudoStatusPendente
		}

		err := tx.QueryRowxContext(ctx, `
			INSERT INTO laudos (
				codigo_validador, nome_paciente, numero_controle,
				data_nascimento, indicacao, sexo, data_exame,
				rg, cpf, convenio, tipo_exame,
				medico_nome, medico_crm, medico_rqe, medico_especialidade,
				status, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			RETURNING id
		`,
			laudo.CodigoValidador,
			laudo.NomePaciente,
			laudo.NumeroControle,
			laudo.DataNascimento,
			laudo.Indicacao,
			laudo.Sexo,
			laudo.DataExame,
			laudo.RG,
			laudo.CPF,
			laudo.Convenio,
			laudo.TipoExame,
			laudo.MedicoNome,
			laudo.MedicoCRM,
			laudo.MedicoRQE,
			laudo.MedicoEspecialidade,
			laudo.Status,
			laudo.CreatedAt,
			laudo.UpdatedAt,
		).Scan(&laudo.ID)
		if err != nil {
			return fmt.Errorf("failed to create laudo: %w", err)
		}

		ag.UpdatedAt = time.Now()

		result, err := tx.ExecContext(ctx, `
			UPDATE agendamentos
			SET data_nascimento = $1, sexo = $2, rg = $3, cpf = $4,
				endereco = $5, convenio = $6, indicacao = $7,
				medico_solicitante = $8, laudo_id = $9, status = $10,
				updated_at = $11
			WHERE id = $12
		`,
			ag.DataNascimento,
			ag.Sexo,
			ag.RG,
			ag.CPF,
			ag.Endereco,
			ag.Convenio,
			ag.Indicacao,
			ag.MedicoSolicitante,
			laudo.ID,
			ag.Status,
			ag.UpdatedAt,
			ag.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update agendamento: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NotFound("agendamento")
		}
		return nil
	})
}

func (r *agendamentoRepository) Estatisticas(ctx context.Context) (*model.AgendamentoEstatisticas, error) {
	stats := &model.AgendamentoEstatisticas{
		PorStatus: make(map[string]int),
	}

	rows, err := r.db.QueryxContext(ctx, `
		SELECT status, COUNT(*) FROM agendamentos GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count agendamentos by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.PorStatus[status] = count
		stats.TotalAgendamentos += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}

	if err := r.db.SelectContext(ctx, &stats.PorTipoExame, `
		SELECT tipo_exame AS tipo, COUNT(*) AS count
		FROM agendamentos
		GROUP BY tipo_exame
		ORDER BY count DESC
	`); err != nil {
		return nil, fmt.Errorf("failed to count agendamentos by tipo: %w", err)
	}

	return stats, nil
}
