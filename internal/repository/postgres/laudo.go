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

// nextNumeroControle allocates the next "YYYY/NNNN" control number for the
// given year. An advisory lock keyed by the year serializes concurrent
// allocations for the duration of the enclosing transaction.
func nextNumeroControle(ctx context.Context, tx *sqlx.Tx, ano int) (string, error) {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(ano)); err != nil {
		return "", fmt.Errorf("failed to lock control number sequence: %w", err)
	}

	var max sql.NullInt64
	err := tx.GetContext(ctx, &max, `
		SELECT MAX(CAST(SPLIT_PART(numero_controle, '/', 2) AS INT))
		FROM laudos
		WHERE numero_controle LIKE $1
	`, fmt.Sprintf("%d/%%", ano))
	if err != nil {
		return "", fmt.Errorf("failed to scan control number sequence: %w", err)
	}

	seq := int64(1)
	if max.Valid {
		seq = max.Int64 + 1
	}
	return fmt.Sprintf("%d/%04d", ano, seq), nil
}

func (r *laudoRepository) Create(ctx context.Context, l *model.Laudo) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if l.NumeroControle == "" {
			numero, err := nextNumeroControle(ctx, tx, l.DataExame.Year())
			if err != nil {
				return err
			}
			l.NumeroControle = numero
		}

		l.CreatedAt = time.Now()
		l.UpdatedAt = l.CreatedAt
		if l.Status == "" {
			l.Status = model.LaudoStatusPendente
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
			l.CodigoValidador,
			l.NomePaciente,
			l.NumeroControle,
			l.DataNascimento,
			l.Indicacao,
			l.Sexo,
			l.DataExame,
			l.RG,
			l.CPF,
			l.Convenio,
			l.TipoExame,
			l.MedicoNome,
			l.MedicoCRM,
			l.MedicoRQE,
			l.MedicoEspecialidade,
			l.Status,
			l.CreatedAt,
			l.UpdatedAt,
		).Scan(&l.ID)
		if err != nil {
			return fmt.Errorf("failed to create laudo: %w", err)
		}
		return nil
	})
}

const laudoColumns = `
	id, codigo_validador, nome_paciente, numero_controle,
	data_nascimento, indicacao, sexo, data_exame,
	rg, cpf, convenio, tipo_exame,
	medico_nome, medico_crm, medico_rqe, medico_especialidade,
	status, conteudo_laudo, created_at, updated_at
`

func (r *laudoRepository) Get(ctx context.Context, id int64) (*model.Laudo, error) {
	var l model.Laudo
	err := r.db.GetContext(ctx, &l, `SELECT `+laudoColumns+` FROM laudos WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("laudo")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get laudo: %w", err)
	}
	return &l, nil
}

func (r *laudoRepository) GetByCodigo(ctx context.Context, codigo string) (*model.Laudo, error) {
	var l model.Laudo
	err := r.db.GetContext(ctx, &l, `SELECT `+laudoColumns+` FROM laudos WHERE codigo_validador = $1`, codigo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("laudo")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get laudo by codigo: %w", err)
	}
	return &l, nil
}

func (r *laudoRepository) List(ctx context.Context, filtros *model.LaudoFiltros) ([]*model.Laudo, error) {
	query := `SELECT ` + laudoColumns + ` FROM laudos WHERE 1=1`
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
		query += fmt.Sprintf(" AND data_exame >= $%d", argCount)
		args = append(args, filtros.DataInicio)
		argCount++
	}
	if filtros.DataFim != "" {
		query += fmt.Sprintf(" AND data_exame <= $%d", argCount)
		args = append(args, filtros.DataFim)
		argCount++
	}
	if filtros.Search != "" {
		query += fmt.Sprintf(" AND (nome_paciente ILIKE $%d OR numero_controle ILIKE $%d OR codigo_validador ILIKE $%d)", argCount, argCount, argCount)
		args = append(args, "%"+filtros.Search+"%")
		argCount++
	}

	query += " ORDER BY created_at DESC"

	var laudos []*model.Laudo
	if err := r.db.SelectContext(ctx, &laudos, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list laudos: %w", err)
	}
	return laudos, nil
}

func (r *laudoRepository) Update(ctx context.Context, l *model.Laudo) error {
	query := `
		UPDATE laudos
		SET nome_paciente = $1, data_nascimento = $2, indicacao = $3,
			sexo = $4, data_exame = $5, rg = $6, cpf = $7, convenio = $8,
			tipo_exame = $9, medico_nome = $10, medico_crm = $11,
			medico_rqe = $12, medico_especialidade = $13, status = $14,
			conteudo_laudo = $15, updated_at = $16
		WHERE id = $17
	`
	l.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		l.NomePaciente,
		l.DataNascimento,
		l.Indicacao,
		l.Sexo,
		l.DataExame,
		l.RG,
		l.CPF,
		l.Convenio,
		l.TipoExame,
		l.MedicoNome,
		l.MedicoCRM,
		l.MedicoRQE,
		l.MedicoEspecialidade,
		l.Status,
		l.ConteudoLaudo,
		l.UpdatedAt,
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update laudo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("laudo")
	}
	return nil
}

func (r *laudoRepository) Estatisticas(ctx context.Context) (*model.LaudoEstatisticas, error) {
	stats := &model.LaudoEstatisticas{
		PorStatus: make(map[string]int),
	}

	rows, err := r.db.QueryxContext(ctx, `
		SELECT status, COUNT(*) FROM laudos GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count laudos by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.PorStatus[status] = count
		stats.TotalLaudos += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}

	if err := r.db.SelectContext(ctx, &stats.PorTipoExame, `
		SELECT tipo_exame AS tipo, COUNT(*) AS count
		FROM laudos
		GROUP BY tipo_exame
		ORDER BY count DESC
	`); err != nil {
		return nil, fmt.Errorf("failed to count laudos by tipo: %w", err)
	}

	if err := r.db.SelectContext(ctx, &stats.PorMes, `
		SELECT TO_CHAR(data_exame, 'YYYY-MM') AS mes, COUNT(*) AS count
		FROM laudos
		WHERE data_exame >= NOW() - INTERVAL '12 months'
		GROUP BY mes
		ORDER BY mes
	`); err != nil {
		return nil, fmt.Errorf("failed to count laudos by month: %w", err)
	}

	return stats, nil
}
