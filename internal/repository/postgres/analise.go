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

const analiseColumns = `
	a.id, a.laudo_id, a.arquivo_pdf, a.total_paginas, a.paginas_limpas,
	a.paginas_artefato, a.percentual_qualidade, a.recomendacao,
	a.dados_paciente, a.relatorio_qualidade, a.qeeg_data, a.status,
	a.created_at, a.updated_at,
	l.nome_paciente, l.numero_controle
`

func (r *analiseRepository) Create(ctx context.Context, a *model.AnaliseEEG) error {
	query := `
		INSERT INTO analises_eeg (
			laudo_id, arquivo_pdf, total_paginas, paginas_limpas,
			paginas_artefato, percentual_qualidade, recomendacao,
			dados_paciente, relatorio_qualidade, qeeg_data, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	if a.Status == "" {
		a.Status = model.AnaliseStatusProcessando
	}
	if a.Recomendacao == "" {
		a.Recomendacao = model.RecomendacaoProcessando
	}

	err := r.db.QueryRowxContext(ctx, query,
		a.LaudoID,
		a.ArquivoPDF,
		a.TotalPaginas,
		a.PaginasLimpas,
		a.PaginasArtefato,
		a.PercentualQualidade,
		a.Recomendacao,
		a.DadosPaciente,
		a.RelatorioQualidade,
		a.QEEGData,
		a.Status,
		a.CreatedAt,
		a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to create analise: %w", err)
	}
	return nil
}

func (r *analiseRepository) Get(ctx context.Context, id int64) (*model.AnaliseEEG, error) {
	query := `
		SELECT ` + analiseColumns + `
		FROM analises_eeg a
		JOIN laudos l ON l.id = a.laudo_id
		WHERE a.id = $1
	`
	var a model.AnaliseEEG
	err := r.db.GetContext(ctx, &a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("análise")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analise: %w", err)
	}
	return &a, nil
}

func (r *analiseRepository) List(ctx context.Context, filtros *model.AnaliseFiltros) ([]*model.AnaliseEEG, error) {
	query := `
		SELECT ` + analiseColumns + `
		FROM analises_eeg a
		JOIN laudos l ON l.id = a.laudo_id
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filtros.Status != "" {
		query += fmt.Sprintf(" AND a.status = $%d", argCount)
		args = append(args, filtros.Status)
		argCount++
	}
	if filtros.Recomendacao != "" {
		query += fmt.Sprintf(" AND a.recomendacao = $%d", argCount)
		args = append(args, filtros.Recomendacao)
		argCount++
	}
	if filtros.LaudoID != nil {
		query += fmt.Sprintf(" AND a.laudo_id = $%d", argCount)
		args = append(args, *filtros.LaudoID)
		argCount++
	}

	query += " ORDER BY a.created_at DESC"

	var analises []*model.AnaliseEEG
	if err := r.db.SelectContext(ctx, &analises, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list analises: %w", err)
	}
	return analises, nil
}

func (r *analiseRepository) ListByLaudo(ctx context.Context, laudoID int64) ([]*model.AnaliseEEG, error) {
	return r.List(ctx, &model.AnaliseFiltros{LaudoID: &laudoID})
}

func (r *analiseRepository) Update(ctx context.Context, a *model.AnaliseEEG) error {
	query := `
		UPDATE analises_eeg
		SET total_paginas = $1, paginas_limpas = $2, paginas_artefato = $3,
			percentual_qualidade = $4, recomendacao = $5,
			dados_paciente = $6, relatorio_qualidade = $7, qeeg_data = $8,
			status = $9, updated_at = $10
		WHERE id = $11
	`
	a.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		a.TotalPaginas,
		a.PaginasLimpas,
		a.PaginasArtefato,
		a.PercentualQualidade,
		a.Recomendacao,
		a.DadosPaciente,
		a.RelatorioQualidade,
		a.QEEGData,
		a.Status,
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update analise: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("análise")
	}
	return nil
}

func (r *analiseRepository) Estatisticas(ctx context.Context) (*model.AnaliseEstatisticas, error) {
	stats := &model.AnaliseEstatisticas{
		PorStatus:       make(map[string]int),
		PorRecomendacao: make(map[string]int),
	}

	rows, err := r.db.QueryxContext(ctx, `
		SELECT status, COUNT(*) FROM analises_eeg GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count analises by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.PorStatus[status] = count
		stats.TotalAnalises += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}

	recRows, err := r.db.QueryxContext(ctx, `
		SELECT recomendacao, COUNT(*) FROM analises_eeg GROUP BY recomendacao
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count analises by recomendacao: %w", err)
	}
	defer recRows.Close()

	for recRows.Next() {
		var rec string
		var count int
		if err := recRows.Scan(&rec, &count); err != nil {
			return nil, fmt.Errorf("failed to scan recomendacao count: %w", err)
		}
		stats.PorRecomendacao[rec] = count
	}
	if err := recRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recomendacao counts: %w", err)
	}

	var media sql.NullFloat64
	if err := r.db.GetContext(ctx, &media, `
		SELECT AVG(percentual_qualidade)
		FROM analises_eeg
		WHERE percentual_qualidade IS NOT NULL
	`); err != nil {
		return nil, fmt.Errorf("failed to average quality: %w", err)
	}
	if media.Valid {
		stats.QualidadeMedia = media.Float64
	}

	return stats, nil
}
