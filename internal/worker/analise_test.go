package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuroexam/clinic-api/internal/model"
	"github.com/neuroexam/clinic-api/internal/service/analise"
	apperrors "github.com/neuroexam/clinic-api/pkg/errors"
	"github.com/neuroexam/clinic-api/pkg/logger"
	"github.com/neuroexam/clinic-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("clinic_test", "worker")

type mockAnaliseRepo struct {
	mu    sync.Mutex
	store map[int64]*model.AnaliseEEG
}

func newMockAnaliseRepo(records ...*model.AnaliseEEG) *mockAnaliseRepo {
	m := &mockAnaliseRepo{store: map[int64]*model.AnaliseEEG{}}
	for _, a := range records {
		cp := *a
		m.store[a.ID] = &cp
	}
	return m
}

func (m *mockAnaliseRepo) Create(ctx context.Context, a *model.AnaliseEEG) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.store[a.ID] = &cp
	return nil
}

func (m *mockAnaliseRepo) Get(ctx context.Context, id int64) (*model.AnaliseEEG, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[id]
	if !ok {
		return nil, apperrors.NotFound("análise não encontrada")
	}
	cp := *a
	return &cp, nil
}

func (m *mockAnaliseRepo) List(ctx context.Context, f *model.AnaliseFiltros) ([]*model.AnaliseEEG, error) {
	return nil, nil
}

func (m *mockAnaliseRepo) ListByLaudo(ctx context.Context, laudoID int64) ([]*model.AnaliseEEG, error) {
	return nil, nil
}

func (m *mockAnaliseRepo) Update(ctx context.Context, a *model.AnaliseEEG) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.store[a.ID] = &cp
	return nil
}

func (m *mockAnaliseRepo) Estatisticas(ctx context.Context) (*model.AnaliseEstatisticas, error) {
	return nil, nil
}

type mockLaudoRepo struct{}

func (m *mockLaudoRepo) Create(ctx context.Context, l *model.Laudo) error { return nil }
func (m *mockLaudoRepo) Get(ctx context.Context, id int64) (*model.Laudo, error) {
	return &model.Laudo{ID: id}, nil
}
func (m *mockLaudoRepo) GetByCodigo(ctx context.Context, codigo string) (*model.Laudo, error) {
	return nil, apperrors.NotFound("laudo não encontrado")
}
func (m *mockLaudoRepo) List(ctx context.Context, f *model.LaudoFiltros) ([]*model.Laudo, error) {
	return nil, nil
}
func (m *mockLaudoRepo) Update(ctx context.Context, l *model.Laudo) error { return nil }
func (m *mockLaudoRepo) Estatisticas(ctx context.Context) (*model.LaudoEstatisticas, error) {
	return nil, nil
}

type countingScorer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *countingScorer) Score(ctx context.Context, arquivo string) (*analise.ScoreReport, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return &analise.ScoreReport{
		TotalPaginas: 2,
		Paginas: []analise.PageResult{
			{Pagina: 1, Limpa: true},
			{Pagina: 2, Limpa: true},
		},
	}, nil
}

func (s *countingScorer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubBroker struct {
	messages chan []byte
}

func (b *stubBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	return nil
}

func (b *stubBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return b.messages, nil
}

func (b *stubBroker) Close() error { return nil }

func runWorker(t *testing.T, repo *mockAnaliseRepo, scorer *countingScorer, payloads ...[]byte) {
	t.Helper()

	broker := &stubBroker{messages: make(chan []byte, len(payloads))}
	svc := analise.NewService(repo, &mockLaudoRepo{}, scorer, broker, analise.Options{
		Channel:       "analises",
		ScorerTimeout: time.Second,
	}, logger.NewLogger(nil), testMetrics)
	w := NewAnaliseWorker(svc, broker, "analises", logger.NewLogger(nil))

	for _, p := range payloads {
		broker.messages <- p
	}
	close(broker.messages)

	require.NoError(t, w.Run(context.Background()))
}

func TestWorkerProcessaJob(t *testing.T) {
	repo := newMockAnaliseRepo(&model.AnaliseEEG{
		ID:         1,
		LaudoID:    10,
		ArquivoPDF: "exame.pdf",
		Status:     model.AnaliseStatusProcessando,
	})
	scorer := &countingScorer{}
	payload, _ := json.Marshal(&model.AnaliseJob{AnaliseID: 1, ArquivoPDF: "exame.pdf"})

	runWorker(t, repo, scorer, payload)

	a, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.AnaliseStatusConcluido, a.Status)
	assert.Equal(t, 1, scorer.count())
}

func TestWorkerNaoReprocessaFalha(t *testing.T) {
	repo := newMockAnaliseRepo(&model.AnaliseEEG{
		ID:         2,
		LaudoID:    10,
		ArquivoPDF: "exame.pdf",
		Status:     model.AnaliseStatusProcessando,
	})
	scorer := &countingScorer{err: errors.New("scorer offline")}
	payload, _ := json.Marshal(&model.AnaliseJob{AnaliseID: 2, ArquivoPDF: "exame.pdf"})

	// a re-delivered job after a failure must not run the scorer again
	runWorker(t, repo, scorer, payload, payload)

	a, err := repo.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, model.AnaliseStatusErro, a.Status)
	assert.Equal(t, model.RecomendacaoErro, a.Recomendacao)
	assert.Equal(t, 1, scorer.count())
}

func TestWorkerIgnoraPayloadInvalido(t *testing.T) {
	repo := newMockAnaliseRepo()
	scorer := &countingScorer{}

	runWorker(t, repo, scorer, []byte("nao é json"))

	assert.Equal(t, 0, scorer.count())
}
