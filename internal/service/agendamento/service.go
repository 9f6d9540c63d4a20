package agendamento

import (
	"context"
	"time"

	"github.com/neuroexam/clinic-api/internal/catalog"
	"github.com/neuroexam/clinic-api/internal/model"
	"github.com/neuroexam/clinic-api/internal/repository"
	apperrors "github.com/neuroexam/clinic-api/pkg/errors"
	"github.com/neuroexam/clinic-api/pkg/security"
)

const codigoValidadorLen = 8

// agendamentoTransitions is the intake state machine. Any non-terminal
// status can move to cancelado.
var agendamentoTransitions = map[model.AgendamentoStatus]model.AgendamentoStatus{
	model.AgendamentoStatusAgendado:    model.AgendamentoStatusCompareceu,
	model.AgendamentoStatusCompareceu:  model.AgendamentoStatusProntoExame,
	model.AgendamentoStatusProntoExame: model.AgendamentoStatusFinalizado,
}

type Service struct {
	repo    repository.AgendamentoRepository
	catalog *catalog.Catalog
}

func NewService(repo repository.AgendamentoRepository, cat *catalog.Catalog) *Service {
	return &Service{repo: repo, catalog: cat}
}

func (s *Service) Criar(ctx context.Context, req *model.CriarAgendamentoRequest) (*model.Agendamento, error) {
	if _, ok := s.catalog.ExamType(req.TipoExame); !ok {
		return nil, apperrors.Validation("tipo de exame inválido: %s", req.TipoExame)
	}

	quando, err := time.ParseInLocation(model.DateTimeLayout, req.DataAgendamento, time.Local)
	if err != nil {
		return nil, apperrors.Validation("data_agendamento inválida, use o formato %s", model.DateTimeLayout)
	}
	if quando.Before(time.Now()) {
		return nil, apperrors.Validation("não é possível agendar no passado")
	}

	ag := &model.Agendamento{
		NomePaciente:    req.NomePaciente,
		Telefone:        req.Telefone,
		Email:           req.Email,
		DataAgendamento: quando,
		TipoExame:       req.TipoExame,
		Status:          model.AgendamentoStatusAgendado,
		Observacoes:     req.Observacoes,
	}
	if err := s.repo.Create(ctx, ag); err != nil {
		return nil, err
	}
	return ag, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Agendamento, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Listar(ctx context.Context, filtros *model.AgendamentoFiltros) ([]*model.Agendamento, error) {
	return s.repo.List(ctx, filtros)
}

func (s *Service) Atualizar(ctx context.Context, id int64, req *model.AtualizarAgendamentoRequest) (*model.Agendamento, error) {
	ag, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.NomePaciente != nil {
		ag.NomePaciente = *req.NomePaciente
	}
	if req.Telefone != nil {
		ag.Telefone = *req.Telefone
	}
	if req.Email != nil {
		ag.Email = *req.Email
	}
	if req.DataAgendamento != nil {
		quando, err := time.ParseInLocation(model.DateTimeLayout, *req.DataAgendamento, time.Local)
		if err != nil {
			return nil, apperrors.Validation("data_agendamento inválida, use o formato %s", model.DateTimeLayout)
		}
		ag.DataAgendamento = quando
	}
	if req.TipoExame != nil {
		if _, ok := s.catalog.ExamType(*req.TipoExame); !ok {
			return nil, apperrors.Validation("tipo de exame inválido: %s", *req.TipoExame)
		}
		ag.TipoExame = *req.TipoExame
	}
	if req.Observacoes != nil {
		ag.Observacoes = *req.Observacoes
	}
	if req.Status != nil {
		next := model.AgendamentoStatus(*req.Status)
		if err := s.validarTransicao(ag.Status, next); err != nil {
			return nil, err
		}
		ag.Status = next
	}

	if err := s.repo.Update(ctx, ag); err != nil {
		return nil, err
	}
	return ag, nil
}

// Checkin marks the patient as arrived.
func (s *Service) Checkin(ctx context.Context, id int64) (*model.Agendamento, error) {
	ag, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ag.Status != model.AgendamentoStatusAgendado {
		return nil, apperrors.InvalidTransition("check-in exige agendamento com status agendado, atual: %s", ag.Status)
	}

	ag.Status = model.AgendamentoStatusCompareceu
	if err := s.repo.Update(ctx, ag); err != nil {
		return nil, err
	}
	return ag, nil
}

// Cancelar moves the booking to cancelado. Cancelling an already
// cancelled booking is a no-op.
func (s *Service) Cancelar(ctx context.Context, id int64) (*model.Agendamento, error) {
	ag, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ag.Status == model.AgendamentoStatusCancelado {
		return ag, nil
	}
	if ag.Status == model.AgendamentoStatusFinalizado {
		return nil, apperrors.InvalidTransition("agendamento finalizado não pode ser cancelado")
	}

	ag.Status = model.AgendamentoStatusCancelado
	if err := s.repo.Update(ctx, ag); err != nil {
		return nil, err
	}
	return ag, nil
}

// Precadastro records the demographics collected at check-in, creates the
// pending laudo and advances the booking to pronto_exame, atomically.
func (s *Service) Precadastro(ctx context.Context, id int64, req *model.PrecadastroRequest) (*model.Agendamento, *model.Laudo, error) {
	ag, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if ag.Status != model.AgendamentoStatusCompareceu {
		return nil, nil, apperrors.InvalidTransition("pré-cadastro exige agendamento com status compareceu, atual: %s", ag.Status)
	}

	nascimento, err := time.ParseInLocation(model.DateLayout, req.DataNascimento, time.Local)
	if err != nil {
		return nil, nil, apperrors.Validation("data_nascimento inválida, use o formato %s", model.DateLayout)
	}

	codigo, err := security.GenerateCodigo(codigoValidadorLen)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	ag.DataNascimento = &nascimento
	ag.Sexo = &req.Sexo
	ag.Indicacao = &req.Indicacao
	if req.RG != "" {
		ag.RG = &req.RG
	}
	if req.CPF != "" {
		ag.CPF = &req.CPF
	}
	if req.Endereco != "" {
		ag.Endereco = &req.Endereco
	}
	if req.Convenio != "" {
		ag.Convenio = &req.Convenio
	}
	if req.MedicoSolicitante != "" {
		ag.MedicoSolicitante = &req.MedicoSolicitante
	}

	medicoNome := req.MedicoNome
	if medicoNome == "" {
		medicoNome = req.MedicoSolicitante
	}
	especialidade := req.MedicoEspecialidade
	if especialidade == "" {
		especialidade = "Neurologista"
	}

	laudo := &model.Laudo{
		CodigoValidador:     codigo,
		NomePaciente:        ag.NomePaciente,
		DataNascimento:      nascimento,
		Indicacao:           req.Indicacao,
		Sexo:                req.Sexo,
		DataExame:           ag.DataAgendamento,
		RG:                  req.RG,
		CPF:                 req.CPF,
		Convenio:            req.Convenio,
		TipoExame:           ag.TipoExame,
		MedicoNome:          medicoNome,
		MedicoCRM:           req.MedicoCRM,
		MedicoRQE:           req.MedicoRQE,
		MedicoEspecialidade: especialidade,
		Status:              model.LaudoStatusPendente,
	}

	ag.Status = model.AgendamentoStatusProntoExame
	if err := s.repo.Precadastro(ctx, ag, laudo); err != nil {
		return nil, nil, err
	}
	ag.LaudoID = &laudo.ID
	return ag, laudo, nil
}

func (s *Service) Estatisticas(ctx context.Context) (*model.AgendamentoEstatisticas, error) {
	return s.repo.Estatisticas(ctx)
}

func (s *Service) validarTransicao(atual, next model.AgendamentoStatus) error {
	if atual == next {
		return nil
	}
	switch next {
	case model.AgendamentoStatusCancelado:
		if atual.Terminal() {
			return apperrors.InvalidTransition("agendamento %s não pode ser cancelado", atual)
		}
		return nil
	case model.AgendamentoStatusCompareceu, model.AgendamentoStatusProntoExame, model.AgendamentoStatusFinalizado:
		if agendamentoTransitions[atual] == next {
			return nil
		}
		return apperrors.InvalidTransition("transição inválida: %s -> %s", atual, next)
	default:
		return apperrors.Validation("status inválido: %s", next)
	}
}
