package consulta

import (
	"context"
	"sort"
	"time"

	"github.com/neuroexam/clinic-api/internal/catalog"
	"github.com/neuroexam/clinic-api/internal/email"
	"github.com/neuroexam/clinic-api/internal/model"
	"github.com/neuroexam/clinic-api/internal/repository"
	apperrors "github.com/neuroexam/clinic-api/pkg/errors"
	"github.com/neuroexam/clinic-api/pkg/logger"
	"github.com/neuroexam/clinic-api/pkg/metrics"
)

type Service struct {
	repo      repository.ConsultaRepository
	pacientes repository.PacienteRepository
	medicos   repository.MedicoRepository
	catalog   *catalog.Catalog
	email     email.Service
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewService(repo repository.ConsultaRepository, pacientes repository.PacienteRepository, medicos repository.MedicoRepository, cat *catalog.Catalog, mail email.Service, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:      repo,
		pacientes: pacientes,
		medicos:   medicos,
		catalog:   cat,
		email:     mail,
		logger:    log,
		metrics:   m,
	}
}

// Agendar books an encounter. The slot must be covered by an availability
// template, free of active consultations and outside any blackout window;
// the final occupancy check happens inside the insert transaction so two
// concurrent bookings cannot both win.
func (s *Service) Agendar(ctx context.Context, req *model.AgendarConsultaRequest) (*model.Consulta, error) {
	exam, ok := s.catalog.ExamType(req.TipoExame)
	if !ok {
		return nil, apperrors.Validation("tipo de exame inválido: %s", req.TipoExame)
	}

	quando, err := time.ParseInLocation(model.DateTimeLayout, req.DataConsulta, time.Local)
	if err != nil {
		return nil, apperrors.Validation("data_consulta inválida, use o formato %s", model.DateTimeLayout)
	}
	if quando.Before(time.Now()) {
		return nil, apperrors.Validation("não é possível agendar no passado")
	}

	paciente, err := s.pacientes.Get(ctx, req.PacienteID)
	if err != nil {
		return nil, err
	}

	cobre, err := s.repo.TemplateCobre(ctx, int(quando.Weekday()), quando.Format("15:04"), req.TipoExame, req.MedicoID)
	if err != nil {
		return nil, err
	}
	if !cobre {
		s.metrics.BookingsRejected.Inc()
		return nil, apperrors.SlotUnavailable("horário fora da grade de atendimento")
	}

	bloqueado, err := s.repo.BloqueioCobre(ctx, quando, req.MedicoID)
	if err != nil {
		return nil, err
	}
	if bloqueado {
		s.metrics.BookingsRejected.Inc()
		return nil, apperrors.SlotUnavailable("horário bloqueado")
	}

	valor := req.Valor
	if valor == 0 {
		valor = exam.Price
	}

	c := &model.Consulta{
		PacienteID:        req.PacienteID,
		MedicoID:          req.MedicoID,
		AgendamentoID:     req.AgendamentoID,
		TipoExame:         req.TipoExame,
		DataConsulta:      quando,
		DuracaoEstimada:   exam.Duration,
		Status:            model.ConsultaStatusAgendado,
		Valor:             valor,
		InstrucoesPreparo: &exam.Preparation,
	}
	if req.Convenio != "" {
		c.Convenio = &req.Convenio
	}
	if req.NumeroAutorizacao != "" {
		c.NumeroAutorizacao = &req.NumeroAutorizacao
	}
	if req.Observacoes != "" {
		c.Observacoes = &req.Observacoes
	}

	if err := s.repo.CreateSeDisponivel(ctx, c); err != nil {
		if apperrors.IsKind(err, apperrors.KindSlotUnavailable) {
			s.metrics.BookingsRejected.Inc()
		}
		return nil, err
	}
	s.metrics.BookingsCreated.Inc()

	c.PacienteNome = &paciente.Nome
	c.PacienteTelefone = &paciente.Telefone
	c.PacienteEmail = paciente.Email

	if paciente.Email != nil {
		if err := s.email.SendInstrucoesPreparo(*paciente.Email, paciente.Nome, exam.Name, exam.Preparation); err != nil {
			s.logger.Error(err, "failed to send preparo email")
		} else if err := s.repo.MarcarPreparoEnviado(ctx, c.ID, time.Now()); err != nil {
			s.logger.Error(err, "failed to mark preparo enviado")
		}
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Consulta, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListarPorPeriodo(ctx context.Context, filtros *model.ConsultaFiltros) ([]*model.Consulta, error) {
	return s.repo.ListPorPeriodo(ctx, filtros)
}

// AtualizarStatus applies the consultation state machine. Repeating the
// current status is accepted and changes nothing.
func (s *Service) AtualizarStatus(ctx context.Context, id int64, req *model.AtualizarStatusConsultaRequest) (*model.Consulta, error) {
	if !s.catalog.ValidConsultaStatus(req.Status) {
		return nil, apperrors.Validation("status inválido: %s", req.Status)
	}
	next := model.ConsultaStatus(req.Status)

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Status.CanTransition(next) {
		return nil, apperrors.InvalidTransition("transição inválida: %s -> %s", c.Status, next)
	}

	var obs *string
	if req.Observacoes != "" {
		obs = &req.Observacoes
	}
	if c.Status != next || obs != nil {
		if err := s.repo.UpdateStatus(ctx, id, next, obs); err != nil {
			return nil, err
		}
	}

	c.Status = next
	if obs != nil {
		c.Observacoes = obs
	}
	return c, nil
}

// RegistrarResultado stores the technical findings of a finished exam.
func (s *Service) RegistrarResultado(ctx context.Context, consultaID int64, req *model.RegistrarResultadoRequest) (*model.ResultadoExame, error) {
	c, err := s.repo.Get(ctx, consultaID)
	if err != nil {
		return nil, err
	}
	switch c.Status {
	case model.ConsultaStatusConcluido, model.ConsultaStatusLaudoPendente, model.ConsultaStatusFinalizado:
	default:
		return nil, apperrors.InvalidTransition("resultado exige consulta concluída, atual: %s", c.Status)
	}

	res := &model.ResultadoExame{
		ConsultaID:          consultaID,
		TipoResultado:       req.TipoResultado,
		DadosTecnicos:       req.DadosTecnicos,
		MedicoResponsavelID: req.MedicoResponsavelID,
		TempoExame:          req.TempoExame,
	}
	if req.Interpretacao != "" {
		res.Interpretacao = &req.Interpretacao
	}
	if req.Conclusao != "" {
		res.Conclusao = &req.Conclusao
	}
	if req.Recomendacoes != "" {
		res.Recomendacoes = &req.Recomendacoes
	}
	if req.ArquivoPDF != "" {
		res.ArquivoPDF = &req.ArquivoPDF
	}
	if req.ArquivoImagem != "" {
		res.ArquivoImagem = &req.ArquivoImagem
	}
	if req.QualidadeExame != "" {
		res.QualidadeExame = &req.QualidadeExame
	}
	if req.ArtefatosDetectados != "" {
		res.ArtefatosDetectados = &req.ArtefatosDetectados
	}

	if err := s.repo.RegistrarResultado(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// HorariosDisponiveis lists the bookable "HH:MM" slots for a date and exam
// type. Practitioner-specific and global templates both contribute; slots
// taken by an active consultation or inside a blackout window are skipped.
func (s *Service) HorariosDisponiveis(ctx context.Context, data string, tipoExame string, medicoID *int64) ([]string, error) {
	if _, ok := s.catalog.ExamType(tipoExame); !ok {
		return nil, apperrors.Validation("tipo de exame inválido: %s", tipoExame)
	}
	dia, err := time.ParseInLocation(model.DateLayout, data, time.Local)
	if err != nil {
		return nil, apperrors.Validation("data inválida, use o formato %s", model.DateLayout)
	}

	templates, err := s.repo.TemplatesPara(ctx, int(dia.Weekday()), tipoExame, medicoID, dia)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	slots := []string{}
	for _, t := range templates {
		inicio, err := horaNoDia(dia, t.HoraInicio)
		if err != nil {
			return nil, err
		}
		fim, err := horaNoDia(dia, t.HoraFim)
		if err != nil {
			return nil, err
		}

		intervalo := time.Duration(t.IntervaloMinutos) * time.Minute
		for cur := inicio; cur.Before(fim); cur = cur.Add(intervalo) {
			hhmm := cur.Format("15:04")
			if seen[hhmm] {
				continue
			}

			ocupado, err := s.repo.HorarioOcupado(ctx, cur, medicoID)
			if err != nil {
				return nil, err
			}
			if ocupado {
				continue
			}

			bloqueado, err := s.repo.BloqueioCobre(ctx, cur, medicoID)
			if err != nil {
				return nil, err
			}
			if bloqueado {
				continue
			}

			seen[hhmm] = true
			slots = append(slots, hhmm)
		}
	}

	sort.Strings(slots)
	return slots, nil
}

// VerificarDisponibilidade reports whether a single instant can still be
// booked: the weekly grid must cover it, no active encounter may occupy
// it and no blackout may contain it.
func (s *Service) VerificarDisponibilidade(ctx context.Context, instante time.Time, medicoID *int64, tipoExame string) (bool, error) {
	cobre, err := s.repo.TemplateCobre(ctx, int(instante.Weekday()), instante.Format("15:04"), tipoExame, medicoID)
	if err != nil {
		return false, err
	}
	if !cobre {
		return false, nil
	}

	ocupado, err := s.repo.HorarioOcupado(ctx, instante, medicoID)
	if err != nil {
		return false, err
	}
	if ocupado {
		return false, nil
	}

	bloqueado, err := s.repo.BloqueioCobre(ctx, instante, medicoID)
	if err != nil {
		return false, err
	}
	return !bloqueado, nil
}

// Cancelar is shorthand for moving the encounter to cancelado.
func (s *Service) Cancelar(ctx context.Context, id int64, motivo string) (*model.Consulta, error) {
	return s.AtualizarStatus(ctx, id, &model.AtualizarStatusConsultaRequest{
		Status:      string(model.ConsultaStatusCancelado),
		Observacoes: motivo,
	})
}

// EnviarPreparo re-sends the preparation instructions to the patient.
func (s *Service) EnviarPreparo(ctx context.Context, id int64) (*model.Consulta, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status.Terminal() {
		return nil, apperrors.InvalidTransition("consulta %s não recebe instruções de preparo", c.Status)
	}
	if c.PacienteEmail == nil || *c.PacienteEmail == "" {
		return nil, apperrors.Validation("paciente sem e-mail cadastrado")
	}

	exam, _ := s.catalog.ExamType(c.TipoExame)
	instrucoes := exam.Preparation
	if c.InstrucoesPreparo != nil && *c.InstrucoesPreparo != "" {
		instrucoes = *c.InstrucoesPreparo
	}

	nome := ""
	if c.PacienteNome != nil {
		nome = *c.PacienteNome
	}
	if err := s.email.SendInstrucoesPreparo(*c.PacienteEmail, nome, exam.Name, instrucoes); err != nil {
		return nil, apperrors.Internal(err)
	}

	agora := time.Now()
	if err := s.repo.MarcarPreparoEnviado(ctx, id, agora); err != nil {
		return nil, err
	}
	c.DataPreparoEnviado = &agora
	return c, nil
}

func (s *Service) RegistrarPaciente(ctx context.Context, req *model.RegistrarPacienteRequest) (*model.Paciente, error) {
	nascimento, err := time.ParseInLocation(model.DateLayout, req.DataNascimento, time.Local)
	if err != nil {
		return nil, apperrors.Validation("data_nascimento inválida, use o formato %s", model.DateLayout)
	}

	p := &model.Paciente{
		Nome:           req.Nome,
		DataNascimento: nascimento,
		Sexo:           req.Sexo,
		Telefone:       req.Telefone,
	}
	opt := func(dst **string, v string) {
		if v != "" {
			*dst = &v
		}
	}
	opt(&p.CPF, req.CPF)
	opt(&p.RG, req.RG)
	opt(&p.Email, req.Email)
	opt(&p.Endereco, req.Endereco)
	opt(&p.CEP, req.CEP)
	opt(&p.Cidade, req.Cidade)
	opt(&p.Estado, req.Estado)
	opt(&p.Convenio, req.Convenio)
	opt(&p.NumeroCarteirinha, req.NumeroCarteirinha)
	opt(&p.ContatoEmergencia, req.ContatoEmergencia)
	opt(&p.TelefoneEmergencia, req.TelefoneEmergencia)
	opt(&p.ObservacoesMedicas, req.ObservacoesMedicas)
	opt(&p.Alergias, req.Alergias)
	opt(&p.MedicamentosUso, req.MedicamentosUso)
	opt(&p.HistoricoFamiliar, req.HistoricoFamiliar)

	if err := s.pacientes.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) BuscarPacientes(ctx context.Context, termo string, limite int) ([]*model.Paciente, error) {
	if termo == "" {
		return nil, apperrors.Validation("termo de busca é obrigatório")
	}
	if limite <= 0 || limite > 50 {
		limite = 20
	}
	return s.pacientes.Search(ctx, termo, limite)
}

func (s *Service) RegistrarMedico(ctx context.Context, req *model.RegistrarMedicoRequest) (*model.Medico, error) {
	m := &model.Medico{
		Nome:               req.Nome,
		CRM:                req.CRM,
		UFCRM:              req.UFCRM,
		Especialidade:      req.Especialidade,
		HorarioAtendimento: req.HorarioAtendimento,
	}
	if req.RQE != "" {
		m.RQE = &req.RQE
	}
	if req.Telefone != "" {
		m.Telefone = &req.Telefone
	}
	if req.Email != "" {
		m.Email = &req.Email
	}
	if req.Endereco != "" {
		m.Endereco = &req.Endereco
	}

	if err := s.medicos.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Estatisticas(ctx context.Context, dataInicio, dataFim string) (*model.ConsultaEstatisticas, error) {
	return s.repo.Estatisticas(ctx, dataInicio, dataFim)
}

// horaNoDia anchors a "HH:MM[:SS]" template time onto a calendar day.
func horaNoDia(dia time.Time, hora string) (time.Time, error) {
	t, err := time.Parse("15:04:05", hora)
	if err != nil {
		t, err = time.Parse("15:04", hora)
		if err != nil {
			return time.Time{}, apperrors.Validation("horário de template inválido: %s", hora)
		}
	}
	return time.Date(dia.Year(), dia.Month(), dia.Day(), t.Hour(), t.Minute(), 0, 0, dia.Location()), nil
}
