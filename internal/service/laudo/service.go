package laudo

import (
	"context"
	"time"

	"github.com/neuroexam/clinic-api/internal/model"
	"github.com/neuroexam/clinic-api/internal/repository"
	apperrors "github.com/neuroexam/clinic-api/pkg/errors"
	"github.com/neuroexam/clinic-api/pkg/security"
)

const codigoValidadorLen = 8

type Service struct {
	repo repository.LaudoRepository
}

func NewService(repo repository.LaudoRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Criar(ctx context.Context, req *model.CriarLaudoRequest) (*model.Laudo, error) {
	nascimento, err := time.ParseInLocation(model.DateLayout, req.DataNascimento, time.Local)
	if err != nil {
		return nil, apperrors.Validation("data_nascimento inválida, use o formato %s", model.DateLayout)
	}
	exame, err := time.ParseInLocation(model.DateLayout, req.DataExame, time.Local)
	if err != nil {
		return nil, apperrors.Validation("data_exame inválida, use o formato %s", model.DateLayout)
	}

	codigo := req.CodigoValidador
	if codigo == "" {
		codigo, err = security.GenerateCodigo(codigoValidadorLen)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
	}

	especialidade := req.MedicoEspecialidade
	if especialidade == "" {
		especialidade = "Neurologista"
	}

	l := &model.Laudo{
		CodigoValidador:     codigo,
		NomePaciente:        req.NomePaciente,
		NumeroControle:      req.NumeroControle,
		DataNascimento:      nascimento,
		Indicacao:           req.Indicacao,
		Sexo:                req.Sexo,
		DataExame:           exame,
		RG:                  req.RG,
		CPF:                 req.CPF,
		Convenio:            req.Convenio,
		TipoExame:           req.TipoExame,
		MedicoNome:          req.MedicoNome,
		MedicoCRM:           req.MedicoCRM,
		MedicoRQE:           req.MedicoRQE,
		MedicoEspecialidade: especialidade,
		Status:              model.LaudoStatusPendente,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Laudo, error) {
	return s.repo.Get(ctx, id)
}

// Validar resolves a report by its public validation code.
func (s *Service) Validar(ctx context.Context, codigo string) (*model.Laudo, error) {
	if codigo == "" {
		return nil, apperrors.Validation("código validador é obrigatório")
	}
	return s.repo.GetByCodigo(ctx, codigo)
}

func (s *Service) Listar(ctx context.Context, filtros *model.LaudoFiltros) ([]*model.Laudo, error) {
	return s.repo.List(ctx, filtros)
}

func (s *Service) Atualizar(ctx context.Context, id int64, req *model.AtualizarLaudoRequest) (*model.Laudo, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status == model.LaudoStatusFinalizado {
		return nil, apperrors.InvalidTransition("laudo finalizado não pode ser alterado")
	}

	if req.NomePaciente != nil {
		l.NomePaciente = *req.NomePaciente
	}
	if req.DataNascimento != nil {
		nascimento, err := time.ParseInLocation(model.DateLayout, *req.DataNascimento, time.Local)
		if err != nil {
			return nil, apperrors.Validation("data_nascimento inválida, use o formato %s", model.DateLayout)
		}
		l.DataNascimento = nascimento
	}
	if req.Indicacao != nil {
		l.Indicacao = *req.Indicacao
	}
	if req.Sexo != nil {
		if *req.Sexo != "M" && *req.Sexo != "F" {
			return nil, apperrors.Validation("sexo deve ser M ou F")
		}
		l.Sexo = *req.Sexo
	}
	if req.RG != nil {
		l.RG = *req.RG
	}
	if req.CPF != nil {
		l.CPF = *req.CPF
	}
	if req.Convenio != nil {
		l.Convenio = *req.Convenio
	}
	if req.TipoExame != nil {
		l.TipoExame = *req.TipoExame
	}
	if req.MedicoNome != nil {
		l.MedicoNome = *req.MedicoNome
	}
	if req.MedicoCRM != nil {
		l.MedicoCRM = *req.MedicoCRM
	}
	if req.MedicoRQE != nil {
		l.MedicoRQE = *req.MedicoRQE
	}
	if req.MedicoEspecialidade != nil {
		l.MedicoEspecialidade = *req.MedicoEspecialidade
	}
	if req.ConteudoLaudo != nil {
		l.ConteudoLaudo = req.ConteudoLaudo
	}
	if req.Status != nil {
		switch model.LaudoStatus(*req.Status) {
		case model.LaudoStatusPendente:
		case model.LaudoStatusFinalizado:
			if l.ConteudoLaudo == nil || *l.ConteudoLaudo == "" {
				return nil, apperrors.Validation("laudo não pode ser finalizado sem conteúdo")
			}
			l.Status = model.LaudoStatusFinalizado
		default:
			return nil, apperrors.Validation("status inválido: %s", *req.Status)
		}
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Finalizar stores the report body and seals the record. Finalized
// reports are immutable.
func (s *Service) Finalizar(ctx context.Context, id int64, req *model.FinalizarLaudoRequest) (*model.Laudo, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status == model.LaudoStatusFinalizado {
		return nil, apperrors.InvalidTransition("laudo já finalizado")
	}

	l.ConteudoLaudo = &req.ConteudoLaudo
	l.Status = model.LaudoStatusFinalizado
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) Estatisticas(ctx context.Context) (*model.LaudoEstatisticas, error) {
	return s.repo.Estatisticas(ctx)
}
