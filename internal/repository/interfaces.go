package repository

import (
	"context"
	"time"

	"github.com/neuroexam/clinic-api/internal/model"
)

type AgendamentoRepository interface {
	Create(ctx context.Context, ag *model.Agendamento) error
	Get(ctx context.Context, id int64) (*model.Agendamento, error)
	List(ctx context.Context, filtros *model.AgendamentoFiltros) ([]*model.Agendamento, error)
	Update(ctx context.Context, ag *model.Agendamento) error
	// Precadastro atomically applies the demographic update, creates the
	// laudo (assigning its control number) and links it back. Either all
	// three happen or none.
	Precadastro(ctx context.Context, ag *model.Agendamento, laudo *model.Laudo) error
	Estatisticas(ctx context.Context) (*model.AgendamentoEstatisticas, error)
}

type ConsultaRepository interface {
	// CreateSeDisponivel inserts the consultation only if no active
	// consultation occupies the same instant for the same practitioner,
	// inside a single transaction.
	CreateSeDisponivel(ctx context.Context, c *model.Consulta) error
	Get(ctx context.Context, id int64) (*model.Consulta, error)
	ListPorPeriodo(ctx context.Context, filtros *model.ConsultaFiltros) ([]*model.Consulta, error)
	UpdateStatus(ctx context.Context, id int64, status model.ConsultaStatus, observacoes *string) error
	MarcarPreparoEnviado(ctx context.Context, id int64, quando time.Time) error
	RegistrarResultado(ctx context.Context, r *model.ResultadoExame) error
	Estatisticas(ctx context.Context, dataInicio, dataFim string) (*model.ConsultaEstatisticas, error)

	// Availability queries.
	TemplatesPara(ctx context.Context, diaSemana int, tipoExame string, medicoID *int64, data time.Time) ([]*model.HorarioDisponivel, error)
	TemplateCobre(ctx context.Context, diaSemana int, hora string, tipoExame string, medicoID *int64) (bool, error)
	HorarioOcupado(ctx context.Context, instante time.Time, medicoID *int64) (bool, error)
	BloqueioCobre(ctx context.Context, instante time.Time, medicoID *int64) (bool, error)
}

type PacienteRepository interface {
	Create(ctx context.Context, p *model.Paciente) error
	Get(ctx context.Context, id int64) (*model.Paciente, error)
	Search(ctx context.Context, termo string, limite int) ([]*model.Paciente, error)
}

type MedicoRepository interface {
	Create(ctx context.Context, m *model.Medico) error
	Get(ctx context.Context, id int64) (*model.Medico, error)
}

type LaudoRepository interface {
	// Create assigns the next sequential control number for the exam year
	// when laudo.NumeroControle is empty, serialized inside a transaction.
	Create(ctx context.Context, l *model.Laudo) error
	Get(ctx context.Context, id int64) (*model.Laudo, error)
	GetByCodigo(ctx context.Context, codigo string) (*model.Laudo, error)
	List(ctx context.Context, filtros *model.LaudoFiltros) ([]*model.Laudo, error)
	Update(ctx context.Context, l *model.Laudo) error
	Estatisticas(ctx context.Context) (*model.LaudoEstatisticas, error)
}

type AnaliseRepository interface {
	Create(ctx context.Context, a *model.AnaliseEEG) error
	Get(ctx context.Context, id int64) (*model.AnaliseEEG, error)
	List(ctx context.Context, filtros *model.AnaliseFiltros) ([]*model.AnaliseEEG, error)
	ListByLaudo(ctx context.Context, laudoID int64) ([]*model.AnaliseEEG, error)
	Update(ctx context.Context, a *model.AnaliseEEG) error
	Estatisticas(ctx context.Context) (*model.AnaliseEstatisticas, error)
}

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	GetByEmail(ctx context.Context, email string) (*model.Usuario, error)
}
