package analise

import (
	"context"
	"time"

	"github.com/neuroexam/clinic-api/internal/model"
	"github.com/neuroexam/clinic-api/internal/repository"
	"github.com/neuroexam/clinic-api/pkg/circuitbreaker"
	apperrors "github.com/neuroexam/clinic-api/pkg/errors"
	"github.com/neuroexam/clinic-api/pkg/logger"
	"github.com/neuroexam/clinic-api/pkg/messaging"
	"github.com/neuroexam/clinic-api/pkg/metrics"
)

type Service struct {
	repo    repository.AnaliseRepository
	laudos  repository.LaudoRepository
	scorer  PageScorer
	broker  messaging.Broker
	breaker *circuitbreaker.CircuitBreaker
	channel string
	timeout time.Duration
	logger  *logger.Logger
	metrics *metrics.Metrics
}

type Options struct {
	Channel        string
	ScorerTimeout  time.Duration
	ScorerFailures int
}

func NewService(repo repository.AnaliseRepository, laudos repository.LaudoRepository, scorer PageScorer, broker messaging.Broker, opts Options, log *logger.Logger, m *metrics.Metrics) *Service {
	failures := opts.ScorerFailures
	if failures <= 0 {
		failures = 5
	}
	return &Service{
		repo:   repo,
		laudos: laudos,
		scorer: scorer,
		broker: broker,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "pdf-scorer",
			MaxFailures: failures,
			Timeout:     30 * time.Second,
		}),
		channel: opts.Channel,
		timeout: opts.ScorerTimeout,
		logger:  log,
		metrics: m,
	}
}

// Criar records an analysis whose page counts were produced elsewhere.
// Derived fields are recomputed server-side rather than trusted.
func (s *Service) Criar(ctx context.Context, req *model.CriarAnaliseRequest) (*model.AnaliseEEG, error) {
	if _, err := s.laudos.Get(ctx, req.LaudoID); err != nil {
		return nil, err
	}

	a := &model.AnaliseEEG{
		LaudoID:            req.LaudoID,
		ArquivoPDF:         req.ArquivoPDF,
		TotalPaginas:       req.TotalPaginas,
		PaginasLimpas:      req.PaginasLimpas,
		PaginasArtefato:    req.PaginasArtefato,
		DadosPaciente:      req.DadosPaciente,
		RelatorioQualidade: req.RelatorioQualidade,
		QEEGData:           req.QEEGData,
	}

	if req.TotalPaginas != nil && req.PaginasLimpas != nil {
		percentual := model.PercentualQualidade(*req.PaginasLimpas, *req.TotalPaginas)
		a.PercentualQualidade = &percentual
		a.Recomendacao = model.RecomendacaoPorQualidade(percentual)
		a.Status = model.AnaliseStatusConcluido
	} else {
		a.Recomendacao = model.RecomendacaoProcessando
		a.Status = model.AnaliseStatusProcessando
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ProcessarPDF enqueues a quality analysis for an uploaded PDF. The record
// is created in processando and picked up by the worker.
func (s *Service) ProcessarPDF(ctx context.Context, laudoID int64, arquivoPDF string) (*model.AnaliseEEG, error) {
	laudo, err := s.laudos.Get(ctx, laudoID)
	if err != nil {
		return nil, err
	}

	a := &model.AnaliseEEG{
		LaudoID:    laudoID,
		ArquivoPDF: arquivoPDF,
		DadosPaciente: model.JSONMap{
			"nome":  laudo.NomePaciente,
			"sexo":  laudo.Sexo,
			"exame": laudo.TipoExame,
		},
		Recomendacao: model.RecomendacaoProcessando,
		Status:       model.AnaliseStatusProcessando,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	job := &model.AnaliseJob{AnaliseID: a.ID, ArquivoPDF: arquivoPDF}
	if err := s.broker.Publish(ctx, s.channel, job); err != nil {
		// The record stays in processando; the reconciler in the worker
		// will not see it, so surface the failure immediately.
		s.marcarErro(ctx, a)
		return nil, apperrors.Internal(err)
	}
	return a, nil
}

// Processar runs the scorer for a queued job and stores the outcome. A
// scorer failure marks the analysis erro/ERRO instead of leaving it stuck.
func (s *Service) Processar(ctx context.Context, job *model.AnaliseJob) error {
	a, err := s.repo.Get(ctx, job.AnaliseID)
	if err != nil {
		return err
	}
	if a.Status != model.AnaliseStatusProcessando {
		return nil
	}

	started := time.Now()
	var report *ScoreReport
	err = s.breaker.Execute(func() error {
		scoreCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		var scoreErr error
		report, scoreErr = s.scorer.Score(scoreCtx, job.ArquivoPDF)
		return scoreErr
	})
	s.metrics.AnalysisLatency.Observe(time.Since(started).Seconds())

	if err != nil {
		s.logger.Error(err, "pdf scoring failed")
		s.metrics.AnalysesFailed.Inc()
		s.marcarErro(ctx, a)
		return err
	}

	limpas := 0
	porArtefato := map[string]int{}
	for _, p := range report.Paginas {
		if p.Limpa {
			limpas++
		} else {
			porArtefato[p.Artefato]++
		}
	}
	artefato := report.TotalPaginas - limpas
	percentual := model.PercentualQualidade(limpas, report.TotalPaginas)

	a.TotalPaginas = &report.TotalPaginas
	a.PaginasLimpas = &limpas
	a.PaginasArtefato = &artefato
	a.PercentualQualidade = &percentual
	a.Recomendacao = model.RecomendacaoPorQualidade(percentual)
	a.Status = model.AnaliseStatusConcluido
	a.RelatorioQualidade = model.JSONMap{
		"total_paginas":        report.TotalPaginas,
		"paginas_limpas":       limpas,
		"paginas_artefato":     artefato,
		"percentual_qualidade": percentual,
		"artefatos":            porArtefato,
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return err
	}
	s.metrics.AnalysesProcessed.Inc()
	return nil
}

func (s *Service) marcarErro(ctx context.Context, a *model.AnaliseEEG) {
	a.Status = model.AnaliseStatusErro
	a.Recomendacao = model.RecomendacaoErro
	if err := s.repo.Update(ctx, a); err != nil {
		s.logger.Error(err, "failed to mark analise as erro")
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*model.AnaliseEEG, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Listar(ctx context.Context, filtros *model.AnaliseFiltros) ([]*model.AnaliseEEG, error) {
	return s.repo.List(ctx, filtros)
}

func (s *Service) ListarPorLaudo(ctx context.Context, laudoID int64) ([]*model.AnaliseEEG, error) {
	if _, err := s.laudos.Get(ctx, laudoID); err != nil {
		return nil, err
	}
	return s.repo.ListByLaudo(ctx, laudoID)
}

func (s *Service) Atualizar(ctx context.Context, id int64, req *model.AtualizarAnaliseRequest) (*model.AnaliseEEG, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TotalPaginas != nil {
		a.TotalPaginas = req.TotalPaginas
	}
	if req.PaginasLimpas != nil {
		a.PaginasLimpas = req.PaginasLimpas
	}
	if req.PaginasArtefato != nil {
		a.PaginasArtefato = req.PaginasArtefato
	}
	if req.DadosPaciente != nil {
		a.DadosPaciente = req.DadosPaciente
	}
	if req.RelatorioQualidade != nil {
		a.RelatorioQualidade = req.RelatorioQualidade
	}
	if req.QEEGData != nil {
		a.QEEGData = req.QEEGData
	}
	if req.Status != nil {
		switch model.AnaliseStatus(*req.Status) {
		case model.AnaliseStatusProcessando, model.AnaliseStatusConcluido, model.AnaliseStatusErro:
			a.Status = model.AnaliseStatus(*req.Status)
		default:
			return nil, apperrors.Validation("status inválido: %s", *req.Status)
		}
	}

	// Page counts changed: recompute the derived quality fields so the
	// stored recommendation can never contradict them.
	if a.TotalPaginas != nil && a.PaginasLimpas != nil {
		percentual := model.PercentualQualidade(*a.PaginasLimpas, *a.TotalPaginas)
		a.PercentualQualidade = &percentual
		a.Recomendacao = model.RecomendacaoPorQualidade(percentual)
	} else if req.Recomendacao != nil {
		a.Recomendacao = model.Recomendacao(*req.Recomendacao)
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Estatisticas(ctx context.Context) (*model.AnaliseEstatisticas, error) {
	return s.repo.Estatisticas(ctx)
}
