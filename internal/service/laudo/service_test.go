package laudo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuroexam/clinic-api/internal/model"
	apperrors "github.com/neuroexam/clinic-api/pkg/errors"
)

type mockRepo struct {
	createFn      func(ctx context.Context, l *model.Laudo) error
	getFn         func(ctx context.Context, id int64) (*model.Laudo, error)
	getByCodigoFn func(ctx context.Context, codigo string) (*model.Laudo, error)
	updateFn      func(ctx context.Context, l *model.Laudo) error
}

func (m *mockRepo) Create(ctx context.Context, l *model.Laudo) error {
	return m.createFn(ctx, l)
}

func (m *mockRepo) Get(ctx context.Context, id int64) (*model.Laudo, error) {
	return m.getFn(ctx, id)
}

func (m *mockRepo) GetByCodigo(ctx context.Context, codigo string) (*model.Laudo, error) {
	return m.getByCodigoFn(ctx, codigo)
}

func (m *mockRepo) List(ctx context.Context, f *model.LaudoFiltros) ([]*model.Laudo, error) {
	return nil, nil
}

func (m *mockRepo) Update(ctx context.Context, l *model.Laudo) error {
	return m.updateFn(ctx, l)
}

func (m *mockRepo) Estatisticas(ctx context.Context) (*model.LaudoEstatisticas, error) {
	return &model.LaudoEstatisticas{}, nil
}

func validCriarRequest() *model.CriarLaudoRequest {
	return &model.CriarLaudoRequest{
		NomePaciente:   "Carlos Mota",
		DataNascimento: "1978-12-02",
		Indicacao:      "cefaleia",
		Sexo:           "M",
		DataExame:      "2026-03-15",
		TipoExame:      "eeg_rotina",
		MedicoNome:     "Dra. Nunes",
		MedicoCRM:      "54321",
	}
}

func TestCriarGeraCodigoValidador(t *testing.T) {
	repo := &mockRepo{
		createFn: func(ctx context.Context, l *model.Laudo) error {
			l.ID = 1
			l.NumeroControle = "2026/0001"
			return nil
		},
	}
	svc := NewService(repo)

	l, err := svc.Criar(context.Background(), validCriarRequest())
	require.NoError(t, err)
	assert.Len(t, l.CodigoValidador, 8)
	assert.Equal(t, model.LaudoStatusPendente, l.Status)
	assert.Equal(t, "Neurologista", l.MedicoEspecialidade)
}

func TestCriarPreservaCodigoInformado(t *testing.T) {
	repo := &mockRepo{
		createFn: func(ctx context.Context, l *model.Laudo) error { return nil },
	}
	svc := NewService(repo)

	req := validCriarRequest()
	req.CodigoValidador = "ABCD1234"
	l, err := svc.Criar(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "ABCD1234", l.CodigoValidador)
}

func TestFinalizar(t *testing.T) {
	var updated *model.Laudo
	repo := &mockRepo{
		getFn: func(ctx context.Context, id int64) (*model.Laudo, error) {
			return &model.Laudo{ID: id, Status: model.LaudoStatusPendente}, nil
		},
		updateFn: func(ctx context.Context, l *model.Laudo) error {
			updated = l
			return nil
		},
	}
	svc := NewService(repo)

	l, err := svc.Finalizar(context.Background(), 1, &model.FinalizarLaudoRequest{
		ConteudoLaudo: "Traçado dentro dos limites da normalidade.",
	})
	require.NoError(t, err)
	assert.Equal(t, model.LaudoStatusFinalizado, l.Status)
	require.NotNil(t, updated)
	assert.Equal(t, model.LaudoStatusFinalizado, updated.Status)
}

func TestFinalizarJaFinalizado(t *testing.T) {
	repo := &mockRepo{
		getFn: func(ctx context.Context, id int64) (*model.Laudo, error) {
			return &model.Laudo{ID: id, Status: model.LaudoStatusFinalizado}, nil
		},
	}
	svc := NewService(repo)

	_, err := svc.Finalizar(context.Background(), 1, &model.FinalizarLaudoRequest{ConteudoLaudo: "x"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
}

func TestAtualizarFinalizadoImutavel(t *testing.T) {
	repo := &mockRepo{
		getFn: func(ctx context.Context, id int64) (*model.Laudo, error) {
			return &model.Laudo{ID: id, Status: model.LaudoStatusFinalizado}, nil
		},
	}
	svc := NewService(repo)

	nome := "Outro Nome"
	_, err := svc.Atualizar(context.Background(), 1, &model.AtualizarLaudoRequest{NomePaciente: &nome})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
}

func TestAtualizarFinalizarSemConteudo(t *testing.T) {
	repo := &mockRepo{
		getFn: func(ctx context.Context, id int64) (*model.Laudo, error) {
			return &model.Laudo{ID: id, Status: model.LaudoStatusPendente}, nil
		},
	}
	svc := NewService(repo)

	status := string(model.LaudoStatusFinalizado)
	_, err := svc.Atualizar(context.Background(), 1, &model.AtualizarLaudoRequest{Status: &status})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestValidar(t *testing.T) {
	repo := &mockRepo{
		getByCodigoFn: func(ctx context.Context, codigo string) (*model.Laudo, error) {
			if codigo == "ABCD1234" {
				return &model.Laudo{ID: 1, CodigoValidador: codigo}, nil
			}
			return nil, apperrors.NotFound("laudo")
		},
	}
	svc := NewService(repo)

	l, err := svc.Validar(context.Background(), "ABCD1234")
	require.NoError(t, err)
	assert.Equal(t, int64(1), l.ID)

	_, err = svc.Validar(context.Background(), "WRONG000")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	_, err = svc.Validar(context.Background(), "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
