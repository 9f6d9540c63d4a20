package consulta

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuroexam/clinic-api/internal/catalog"
	"github.com/neuroexam/clinic-api/internal/model"
	apperrors "github.com/neuroexam/clinic-api/pkg/errors"
	"github.com/neuroexam/clinic-api/pkg/logger"
	"github.com/neuroexam/clinic-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("clinic_test", "consulta")

type mockConsultaRepo struct {
	createSeDisponivelFn   func(ctx context.Context, c *model.Consulta) error
	getFn                  func(ctx context.Context, id int64) (*model.Consulta, error)
	updateStatusFn         func(ctx context.Context, id int64, status model.ConsultaStatus, obs *string) error
	marcarPreparoFn        func(ctx context.Context, id int64, quando time.Time) error
	templatesParaFn        func(ctx context.Context, diaSemana int, tipoExame string, medicoID *int64, data time.Time) ([]*model.HorarioDisponivel, error)
	templateCobreFn        func(ctx context.Context, diaSemana int, hora string, tipoExame string, medicoID *int64) (bool, error)
	horarioOcupadoFn       func(ctx context.Context, instante time.Time, medicoID *int64) (bool, error)
	bloqueioCobreFn        func(ctx context.Context, instante time.Time, medicoID *int64) (bool, error)
	registrarResultadoFn   func(ctx context.Context, r *model.ResultadoExame) error
}

func (m *mockConsultaRepo) CreateSeDisponivel(ctx context.Context, c *model.Consulta) error {
	return m.createSeDisponivelFn(ctx, c)
}

func (m *mockConsultaRepo) Get(ctx context.Context, id int64) (*model.Consulta, error) {
	return m.getFn(ctx, id)
}

func (m *mockConsultaRepo) ListPorPeriodo(ctx context.Context, f *model.ConsultaFiltros) ([]*model.Consulta, error) {
	return nil, nil
}

func (m *mockConsultaRepo) UpdateStatus(ctx context.Context, id int64, status model.ConsultaStatus, obs *string) error {
	return m.updateStatusFn(ctx, id, status, obs)
}

func (m *mockConsultaRepo) MarcarPreparoEnviado(ctx context.Context, id int64, quando time.Time) error {
	if m.marcarPreparoFn != nil {
		return m.marcarPreparoFn(ctx, id, quando)
	}
	return nil
}

func (m *mockConsultaRepo) RegistrarResultado(ctx context.Context, r *model.ResultadoExame) error {
	return m.registrarResultadoFn(ctx, r)
}

func (m *mockConsultaRepo) Estatisticas(ctx context.Context, dataInicio, dataFim string) (*model.ConsultaEstatisticas, error) {
	return &model.ConsultaEstatisticas{}, nil
}

func (m *mockConsultaRepo) TemplatesPara(ctx context.Context, diaSemana int, tipoExame string, medicoID *int64, data time.Time) ([]*model.HorarioDisponivel, error) {
	return m.templatesParaFn(ctx, diaSemana, tipoExame, medicoID, data)
}

func (m *mockConsultaRepo) TemplateCobre(ctx context.Context, diaSemana int, hora string, tipoExame string, medicoID *int64) (bool, error) {
	return m.templateCobreFn(ctx, diaSemana, hora, tipoExame, medicoID)
}

func (m *mockConsultaRepo) HorarioOcupado(ctx context.Context, instante time.Time, medicoID *int64) (bool, error) {
	return m.horarioOcupadoFn(ctx, instante, medicoID)
}

func (m *mockConsultaRepo) BloqueioCobre(ctx context.Context, instante time.Time, medicoID *int64) (bool, error) {
	return m.bloqueioCobreFn(ctx, instante, medicoID)
}

type mockPacienteRepo struct {
	getFn func(ctx context.Context, id int64) (*model.Paciente, error)
}

func (m *mockPacienteRepo) Create(ctx context.Context, p *model.Paciente) error {
	p.ID = 1
	return nil
}

func (m *mockPacienteRepo) Get(ctx context.Context, id int64) (*model.Paciente, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return &model.Paciente{ID: id, Nome: "Ana Lima", Telefone: "11999990000"}, nil
}

func (m *mockPacienteRepo) Search(ctx context.Context, termo string, limite int) ([]*model.Paciente, error) {
	return nil, nil
}

type mockMedicoRepo struct{}

func (m *mockMedicoRepo) Create(ctx context.Context, md *model.Medico) error {
	md.ID = 1
	return nil
}

func (m *mockMedicoRepo) Get(ctx context.Context, id int64) (*model.Medico, error) {
	return &model.Medico{ID: id}, nil
}

type mockEmail struct {
	sent []string
}

func (m *mockEmail) SendInstrucoesPreparo(destinatario, nome, tipoExame, instrucoes string) error {
	m.sent = append(m.sent, destinatario)
	return nil
}

func newTestService(repo *mockConsultaRepo) (*Service, *mockEmail) {
	mail := &mockEmail{}
	svc := NewService(repo, &mockPacienteRepo{}, &mockMedicoRepo{}, catalog.Default(), mail, logger.NewLogger(nil), testMetrics)
	return svc, mail
}

func futureDataConsulta() string {
	return time.Now().AddDate(0, 1, 0).Format(model.DateTimeLayout)
}

func TestAgendarPreencheDefaultsDoCatalogo(t *testing.T) {
	repo := &mockConsultaRepo{
		templateCobreFn: func(ctx context.Context, d int, h, te string, m *int64) (bool, error) {
			return true, nil
		},
		bloqueioCobreFn: func(ctx context.Context, i time.Time, m *int64) (bool, error) {
			return false, nil
		},
		createSeDisponivelFn: func(ctx context.Context, c *model.Consulta) error {
			c.ID = 10
			return nil
		},
	}
	svc, _ := newTestService(repo)

	c, err := svc.Agendar(context.Background(), &model.AgendarConsultaRequest{
		PacienteID:   1,
		TipoExame:    "video_eeg",
		DataConsulta: futureDataConsulta(),
	})
	require.NoError(t, err)
	assert.Equal(t, 120, c.DuracaoEstimada)
	assert.Equal(t, 500.0, c.Valor)
	assert.Equal(t, model.ConsultaStatusAgendado, c.Status)
	require.NotNil(t, c.InstrucoesPreparo)
	assert.NotEmpty(t, *c.InstrucoesPreparo)
}

func TestAgendarForaDaGrade(t *testing.T) {
	repo := &mockConsultaRepo{
		templateCobreFn: func(ctx context.Context, d int, h, te string, m *int64) (bool, error) {
			return false, nil
		},
	}
	svc, _ := newTestService(repo)

	_, err := svc.Agendar(context.Background(), &model.AgendarConsultaRequest{
		PacienteID:   1,
		TipoExame:    "eeg_rotina",
		DataConsulta: futureDataConsulta(),
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindSlotUnavailable))
}

func TestAgendarPassado(t *testing.T) {
	svc, _ := newTestService(&mockConsultaRepo{})

	_, err := svc.Agendar(context.Background(), &model.AgendarConsultaRequest{
		PacienteID:   1,
		TipoExame:    "eeg_rotina",
		DataConsulta: "2020-01-01 09:00",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestAgendarSlotOcupadoNoInsert(t *testing.T) {
	repo := &mockConsultaRepo{
		templateCobreFn: func(ctx context.Context, d int, h, te string, m *int64) (bool, error) {
			return true, nil
		},
		bloqueioCobreFn: func(ctx context.Context, i time.Time, m *int64) (bool, error) {
			return false, nil
		},
		createSeDisponivelFn: func(ctx context.Context, c *model.Consulta) error {
			return apperrors.SlotUnavailable("horário não disponível")
		},
	}
	svc, _ := newTestService(repo)

	_, err := svc.Agendar(context.Background(), &model.AgendarConsultaRequest{
		PacienteID:   1,
		TipoExame:    "eeg_rotina",
		DataConsulta: futureDataConsulta(),
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindSlotUnavailable))
}

func TestAgendarEnviaPreparoQuandoHaEmail(t *testing.T) {
	email := "ana@example.com"
	repo := &mockConsultaRepo{
		templateCobreFn: func(ctx context.Context, d int, h, te string, m *int64) (bool, error) {
			return true, nil
		},
		bloqueioCobreFn: func(ctx context.Context, i time.Time, m *int64) (bool, error) {
			return false, nil
		},
		createSeDisponivelFn: func(ctx context.Context, c *model.Consulta) error {
			c.ID = 11
			return nil
		},
	}
	mail := &mockEmail{}
	pacientes := &mockPacienteRepo{
		getFn: func(ctx context.Context, id int64) (*model.Paciente, error) {
			return &model.Paciente{ID: id, Nome: "Ana", Telefone: "11", Email: &email}, nil
		},
	}
	svc := NewService(repo, pacientes, &mockMedicoRepo{}, catalog.Default(), mail, logger.NewLogger(nil), testMetrics)

	_, err := svc.Agendar(context.Background(), &model.AgendarConsultaRequest{
		PacienteID:   1,
		TipoExame:    "eeg_rotina",
		DataConsulta: futureDataConsulta(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{email}, mail.sent)
}

func TestAtualizarStatusTransicaoInvalida(t *testing.T) {
	repo := &mockConsultaRepo{
		getFn: func(ctx context.Context, id int64) (*model.Consulta, error) {
			return &model.Consulta{ID: id, Status: model.ConsultaStatusAgendado}, nil
		},
	}
	svc, _ := newTestService(repo)

	_, err := svc.AtualizarStatus(context.Background(), 1, &model.AtualizarStatusConsultaRequest{
		Status: string(model.ConsultaStatusConcluido),
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
}

func TestAtualizarStatusNoopMesmoStatus(t *testing.T) {
	updates := 0
	repo := &mockConsultaRepo{
		getFn: func(ctx context.Context, id int64) (*model.Consulta, error) {
			return &model.Consulta{ID: id, Status: model.ConsultaStatusAgendado}, nil
		},
		updateStatusFn: func(ctx context.Context, id int64, status model.ConsultaStatus, obs *string) error {
			updates++
			return nil
		},
	}
	svc, _ := newTestService(repo)

	c, err := svc.AtualizarStatus(context.Background(), 1, &model.AtualizarStatusConsultaRequest{
		Status: string(model.ConsultaStatusAgendado),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ConsultaStatusAgendado, c.Status)
	assert.Zero(t, updates)
}

func TestRegistrarResultadoExigeConcluida(t *testing.T) {
	repo := &mockConsultaRepo{
		getFn: func(ctx context.Context, id int64) (*model.Consulta, error) {
			return &model.Consulta{ID: id, Status: model.ConsultaStatusEmAndamento}, nil
		},
	}
	svc, _ := newTestService(repo)

	_, err := svc.RegistrarResultado(context.Background(), 1, &model.RegistrarResultadoRequest{
		TipoResultado: "eeg",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
}

func TestHorariosDisponiveis(t *testing.T) {
	medicoID := int64(3)
	ocupado := time.Date(2026, 10, 5, 9, 30, 0, 0, time.Local) // monday

	repo := &mockConsultaRepo{
		templatesParaFn: func(ctx context.Context, diaSemana int, tipoExame string, mID *int64, data time.Time) ([]*model.HorarioDisponivel, error) {
			assert.Equal(t, 1, diaSemana)
			return []*model.HorarioDisponivel{
				{HoraInicio: "09:00:00", HoraFim: "10:30:00", IntervaloMinutos: 30, MedicoID: &medicoID},
				// Overlapping global template: duplicates must collapse.
				{HoraInicio: "09:00:00", HoraFim: "10:00:00", IntervaloMinutos: 30},
			}, nil
		},
		horarioOcupadoFn: func(ctx context.Context, instante time.Time, mID *int64) (bool, error) {
			return instante.Equal(ocupado), nil
		},
		bloqueioCobreFn: func(ctx context.Context, instante time.Time, mID *int64) (bool, error) {
			return false, nil
		},
	}
	svc, _ := newTestService(repo)

	slots, err := svc.HorariosDisponiveis(context.Background(), "2026-10-05", "eeg_rotina", &medicoID)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, slots)
}

func TestHorariosDisponiveisBloqueio(t *testing.T) {
	repo := &mockConsultaRepo{
		templatesParaFn: func(ctx context.Context, diaSemana int, tipoExame string, mID *int64, data time.Time) ([]*model.HorarioDisponivel, error) {
			return []*model.HorarioDisponivel{
				{HoraInicio: "08:00:00", HoraFim: "09:00:00", IntervaloMinutos: 30},
			}, nil
		},
		horarioOcupadoFn: func(ctx context.Context, instante time.Time, mID *int64) (bool, error) {
			return false, nil
		},
		bloqueioCobreFn: func(ctx context.Context, instante time.Time, mID *int64) (bool, error) {
			return true, nil
		},
	}
	svc, _ := newTestService(repo)

	slots, err := svc.HorariosDisponiveis(context.Background(), "2026-10-05", "eeg_rotina", nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestHorariosDisponiveisSemTemplates(t *testing.T) {
	repo := &mockConsultaRepo{
		templatesParaFn: func(ctx context.Context, diaSemana int, tipoExame string, mID *int64, data time.Time) ([]*model.HorarioDisponivel, error) {
			return nil, nil
		},
	}
	svc, _ := newTestService(repo)

	slots, err := svc.HorariosDisponiveis(context.Background(), "2026-10-05", "eeg_rotina", nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestVerificarDisponibilidade(t *testing.T) {
	instante := time.Date(2026, 10, 5, 9, 0, 0, 0, time.Local)

	cases := []struct {
		name      string
		cobre     bool
		ocupado   bool
		bloqueado bool
		want      bool
	}{
		{"livre", true, false, false, true},
		{"fora da grade", false, false, false, false},
		{"ocupado", true, true, false, false},
		{"bloqueado", true, false, true, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockConsultaRepo{
				templateCobreFn: func(ctx context.Context, d int, h, te string, m *int64) (bool, error) {
					assert.Equal(t, 1, d)
					assert.Equal(t, "09:00", h)
					return tc.cobre, nil
				},
				horarioOcupadoFn: func(ctx context.Context, i time.Time, m *int64) (bool, error) {
					return tc.ocupado, nil
				},
				bloqueioCobreFn: func(ctx context.Context, i time.Time, m *int64) (bool, error) {
					return tc.bloqueado, nil
				},
			}
			svc, _ := newTestService(repo)

			ok, err := svc.VerificarDisponibilidade(context.Background(), instante, nil, "eeg_rotina")
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}
