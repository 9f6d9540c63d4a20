package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/neuroexam/clinic-api/internal/model"
	apperrors "github.com/neuroexam/clinic-api/pkg/errors"
)

// statusesInativos are the statuses that free up a slot.
var statusesInativos = pq.StringArray{
	string(model.ConsultaStatusCancelado),
	string(model.ConsultaStatusFaltou),
}

func (r *consultaRepository) CreateSeDisponivel(ctx context.Context, c *model.Consulta) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			SELECT EXISTS (
				SELECT 1 FROM consultas
				WHERE data_consulta = $1
				  AND status <> ALL($2)` + medicoFiltro(3, c.MedicoID, false) + `
			)
		`
		args := []interface{}{c.DataConsulta, statusesInativos}
		if c.MedicoID != nil {
			args = append(args, *c.MedicoID)
		}

		var ocupado bool
		err := tx.GetContext(ctx, &ocupado, query, args...)
		if err != nil {
			return fmt.Errorf("failed to check slot occupancy: %w", err)
		}
		if ocupado {
			return apperrors.SlotUnavailable("horário não disponível")
		}

		c.CreatedAt = time.Now()
		c.UpdatedAt = c.CreatedAt
		if c.Status == "" {
			c.Status = model.ConsultaStatusAgendado
		}

		err = tx.QueryRowxContext(ctx, `
			INSERT INTO consultas (
				paciente_id, medico_id, agendamento_id, tipo_exame,
				data_consulta, duracao_estimada, status, valor,
				convenio, numero_autorizacao, observacoes,
				instrucoes_preparo, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING id
		`,
			c.PacienteID,
			c.MedicoID,
			c.AgendamentoID,
			c.TipoExame,
			c.DataConsulta,
			c.DuracaoEstimada,
			c.Status,
			c.Valor,
			c.Convenio,
			c.NumeroAutorizacao,
			c.Observacoes,
			c.InstrucoesPreparo,
			c.CreatedAt,
			c.UpdatedAt,
		).Scan(&c.ID)
		if err != nil {
			// The partial unique index backstops the occupancy check under
			// concurrent inserts.
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return apperrors.SlotUnavailable("horário não disponível")
			}
			return fmt.Errorf("failed to create consulta: %w", err)
		}
		return nil
	})
}

const consultaColumns = `
	c.id, c.paciente_id, c.medico_id, c.agendamento_id, c.tipo_exame,
	c.data_consulta, c.duracao_estimada, c.status, c.valor,
	c.convenio, c.numero_autorizacao, c.observacoes,
	c.instrucoes_preparo, c.data_preparo_enviado, c.created_at, c.updated_at,
	p.nome AS paciente_nome, p.telefone AS paciente_telefone, p.email AS paciente_email,
	m.nome AS medico_nome, m.crm AS medico_crm
`

func (r *consultaRepository) Get(ctx context.Context, id int64) (*model.Consulta, error) {
	query := `
		SELECT ` + consultaColumns + `
		FROM consultas c
		JOIN pacientes p ON p.id = c.paciente_id
		LEFT JOIN medicos m ON m.id = c.medico_id
		WHERE c.id = $1
	`
	var c model.Consulta
	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("consulta")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get consulta: %w", err)
	}
	return &c, nil
}

func (r *consultaRepository) ListPorPeriodo(ctx context.Context, filtros *model.ConsultaFiltros) ([]*model.Consulta, error) {
	query := `
		SELECT ` + consultaColumns + `
		FROM consultas c
		JOIN pacientes p ON p.id = c.paciente_id
		LEFT JOIN medicos m ON m.id = c.medico_id
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filtros.DataInicio != "" {
		query += fmt.Sprintf(" AND c.data_consulta >= $%d", argCount)
		args = append(args, filtros.DataInicio)
		argCount++
	}
	if filtros.DataFim != "" {
		query += fmt.Sprintf(" AND c.data_consulta < ($%d::date + INTERVAL '1 day')", argCount)
		args = append(args, filtros.DataFim)
		argCount++
	}
	if filtros.TipoExame != "" {
		query += fmt.Sprintf(" AND c.tipo_exame = $%d", argCount)
		args = append(args, filtros.TipoExame)
		argCount++
	}
	if filtros.Status != "" {
		query += fmt.Sprintf(" AND c.status = $%d", argCount)
		args = append(args, filtros.Status)
		argCount++
	}

	query += " ORDER BY c.data_consulta ASC"

	var consultas []*model.Consulta
	if err := r.db.SelectContext(ctx, &consultas, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list consultas: %w", err)
	}
	return consultas, nil
}

func (r *consultaRepository) UpdateStatus(ctx context.Context, id int64, status model.ConsultaStatus, observacoes *string) error {
	query := `
		UPDATE consultas
		SET status = $1,
			observacoes = COALESCE($2, observacoes),
			updated_at = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, status, observacoes, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update consulta status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("consulta")
	}
	return nil
}

func (r *consultaRepository) MarcarPreparoEnviado(ctx context.Context, id int64, quando time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE consultas
		SET data_preparo_enviado = $1, updated_at = $1
		WHERE id = $2
	`, quando, id)
	if err != nil {
		return fmt.Errorf("failed to mark preparo enviado: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("consulta")
	}
	return nil
}

func (r *consultaRepository) RegistrarResultado(ctx context.Context, res *model.ResultadoExame) error {
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt

	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO resultados_exames (
			consulta_id, tipo_resultado, dados_tecnicos, interpretacao,
			conclusao, recomendacoes, arquivo_pdf, arquivo_imagem,
			qualidade_exame, artefatos_detectados, tempo_exame,
			medico_responsavel_id, revisado, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`,
		res.ConsultaID,
		res.TipoResultado,
		res.DadosTecnicos,
		res.Interpretacao,
		res.Conclusao,
		res.Recomendacoes,
		res.ArquivoPDF,
		res.ArquivoImagem,
		res.QualidadeExame,
		res.ArtefatosDetectados,
		res.TempoExame,
		res.MedicoResponsavelID,
		res.Revisado,
		res.CreatedAt,
		res.UpdatedAt,
	).Scan(&res.ID)
	if err != nil {
		return fmt.Errorf("failed to register resultado: %w", err)
	}
	return nil
}

func (r *consultaRepository) Estatisticas(ctx context.Context, dataInicio, dataFim string) (*model.ConsultaEstatisticas, error) {
	stats := &model.ConsultaEstatisticas{
		PorStatus: make(map[string]int),
	}

	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1
	if dataInicio != "" {
		where += fmt.Sprintf(" AND data_consulta >= $%d", argCount)
		args = append(args, dataInicio)
		argCount++
	}
	if dataFim != "" {
		where += fmt.Sprintf(" AND data_consulta < ($%d::date + INTERVAL '1 day')", argCount)
		args = append(args, dataFim)
		argCount++
	}

	rows, err := r.db.QueryxContext(ctx, `SELECT status, COUNT(*) FROM consultas`+where+` GROUP BY status`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count consultas by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.PorStatus[status] = count
		stats.TotalConsultas += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}

	if err := r.db.SelectContext(ctx, &stats.PorTipoExame, `
		SELECT tipo_exame AS tipo, COUNT(*) AS count
		FROM consultas`+where+`
		GROUP BY tipo_exame
		ORDER BY count DESC
	`, args...); err != nil {
		return nil, fmt.Errorf("failed to count consultas by tipo: %w", err)
	}

	// Revenue counts only encounters that actually happened.
	receitaQuery := `
		SELECT COALESCE(SUM(valor), 0)
		FROM consultas` + where + fmt.Sprintf(" AND status <> ALL($%d)", argCount)
	receitaArgs := append(append([]interface{}{}, args...), statusesInativos)
	if err := r.db.GetContext(ctx, &stats.ReceitaTotal, receitaQuery, receitaArgs...); err != nil {
		return nil, fmt.Errorf("failed to sum receita: %w", err)
	}

	return stats, nil
}

// medicoFiltro builds the practitioner predicate for availability and
// occupancy queries. A nil filter means no predicate: the whole agenda
// counts. With a filter set, incluiGlobais also matches rows without a
// practitioner (shared templates and blackouts).
func medicoFiltro(argPos int, medicoID *int64, incluiGlobais bool) string {
	if medicoID == nil {
		return ""
	}
	if incluiGlobais {
		return fmt.Sprintf(" AND (medico_id = $%d OR medico_id IS NULL)", argPos)
	}
	return fmt.Sprintf(" AND medico_id = $%d", argPos)
}

func (r *consultaRepository) TemplatesPara(ctx context.Context, diaSemana int, tipoExame string, medicoID *int64, data time.Time) ([]*model.HorarioDisponivel, error) {
	query := `
		SELECT id, medico_id, tipo_exame, dia_semana, hora_inicio::text AS hora_inicio,
			   hora_fim::text AS hora_fim, intervalo_minutos, ativo,
			   data_inicio, data_fim, observacoes, created_at
		FROM horarios_disponiveis
		WHERE ativo = TRUE
		  AND dia_semana = $1
		  AND tipo_exame = $2
		  AND (data_inicio IS NULL OR data_inicio <= $3)
		  AND (data_fim IS NULL OR data_fim >= $3)` + medicoFiltro(4, medicoID, true) + `
		ORDER BY hora_inicio
	`
	args := []interface{}{diaSemana, tipoExame, data.Format("2006-01-02")}
	if medicoID != nil {
		args = append(args, *medicoID)
	}

	var templates []*model.HorarioDisponivel
	err := r.db.SelectContext(ctx, &templates, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list horarios disponiveis: %w", err)
	}
	return templates, nil
}

func (r *consultaRepository) TemplateCobre(ctx context.Context, diaSemana int, hora string, tipoExame string, medicoID *int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM horarios_disponiveis
			WHERE ativo = TRUE
			  AND dia_semana = $1
			  AND tipo_exame = $2
			  AND hora_inicio <= $3::time
			  AND hora_fim > $3::time` + medicoFiltro(4, medicoID, true) + `
		)
	`
	args := []interface{}{diaSemana, tipoExame, hora}
	if medicoID != nil {
		args = append(args, *medicoID)
	}

	var cobre bool
	err := r.db.GetContext(ctx, &cobre, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to check template coverage: %w", err)
	}
	return cobre, nil
}

func (r *consultaRepository) HorarioOcupado(ctx context.Context, instante time.Time, medicoID *int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM consultas
			WHERE data_consulta = $1
			  AND status <> ALL($2)` + medicoFiltro(3, medicoID, false) + `
		)
	`
	args := []interface{}{instante, statusesInativos}
	if medicoID != nil {
		args = append(args, *medicoID)
	}

	var ocupado bool
	err := r.db.GetContext(ctx, &ocupado, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to check slot occupancy: %w", err)
	}
	return ocupado, nil
}

func (r *consultaRepository) BloqueioCobre(ctx context.Context, instante time.Time, medicoID *int64) (bool, error) {
	// data_fim is inclusive, matching the blackout table's contract
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bloqueios_horarios
			WHERE data_inicio <= $1
			  AND data_fim >= $1` + medicoFiltro(2, medicoID, true) + `
		)
	`
	args := []interface{}{instante}
	if medicoID != nil {
		args = append(args, *medicoID)
	}

	var bloqueado bool
	err := r.db.GetContext(ctx, &bloqueado, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to check bloqueio: %w", err)
	}
	return bloqueado, nil
}
