package model

import (
	"time"
)

type AgendamentoStatus string

const (
	AgendamentoStatusAgendado    AgendamentoStatus = "agendado"
	AgendamentoStatusCompareceu  AgendamentoStatus = "compareceu"
	AgendamentoStatusProntoExame AgendamentoStatus = "pronto_exame"
	AgendamentoStatusFinalizado  AgendamentoStatus = "finalizado"
	AgendamentoStatusCancelado   AgendamentoStatus = "cancelado"
)

// Terminal reports whether the status accepts no further transitions.
func (s AgendamentoStatus) Terminal() bool {
	return s == AgendamentoStatusFinalizado || s == AgendamentoStatusCancelado
}

// Agendamento is the pre-clinical intake record: a walk-in booking that is
// tracked from scheduling through exam readiness. Demographic fields are
// filled in at pre-registration.
type Agendamento struct {
	ID                int64             `db:"id" json:"id"`
	NomePaciente      string            `db:"nome_paciente" json:"nome_paciente"`
	Telefone          string            `db:"telefone" json:"telefone"`
	Email             string            `db:"email" json:"email,omitempty"`
	DataAgendamento   time.Time         `db:"data_agendamento" json:"data_agendamento"`
	TipoExame         string            `db:"tipo_exame" json:"tipo_exame"`
	Status            AgendamentoStatus `db:"status" json:"status"`
	Observacoes       string            `db:"observacoes" json:"observacoes,omitempty"`
	DataNascimento    *time.Time        `db:"data_nascimento" json:"data_nascimento,omitempty"`
	Sexo              *string           `db:"sexo" json:"sexo,omitempty"`
	RG                *string           `db:"rg" json:"rg,omitempty"`
	CPF               *string           `db:"cpf" json:"cpf,omitempty"`
	Endereco          *string           `db:"endereco" json:"endereco,omitempty"`
	Convenio          *string           `db:"convenio" json:"convenio,omitempty"`
	Indicacao         *string           `db:"indicacao" json:"indicacao,omitempty"`
	MedicoSolicitante *string           `db:"medico_solicitante" json:"medico_solicitante,omitempty"`
	LaudoID           *int64            `db:"laudo_id" json:"laudo_id,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updated_at"`
}

type CriarAgendamentoRequest struct {
	NomePaciente    string `json:"nome_paciente" binding:"required"`
	Telefone        string `json:"telefone" binding:"required"`
	Email           string `json:"email" binding:"omitempty,email"`
	DataAgendamento string `json:"data_agendamento" binding:"required"`
	TipoExame       string `json:"tipo_exame" binding:"required"`
	Observacoes     string `json:"observacoes"`
}

type AtualizarAgendamentoRequest struct {
	NomePaciente    *string `json:"nome_paciente"`
	Telefone        *string `json:"telefone"`
	Email           *string `json:"email"`
	DataAgendamento *string `json:"data_agendamento"`
	TipoExame       *string `json:"tipo_exame"`
	Observacoes     *string `json:"observacoes"`
	Status          *string `json:"status"`
}

// PrecadastroRequest carries the demographics collected at the front desk
// once the patient has checked in.
type PrecadastroRequest struct {
	DataNascimento      string `json:"data_nascimento" binding:"required"`
	Sexo                string `json:"sexo" binding:"required,oneof=M F"`
	Indicacao           string `json:"indicacao" binding:"required"`
	RG                  string `json:"rg"`
	CPF                 string `json:"cpf" binding:"omitempty,cpf"`
	Endereco            string `json:"endereco"`
	Convenio            string `json:"convenio"`
	MedicoSolicitante   string `json:"medico_solicitante"`
	MedicoNome          string `json:"medico_nome"`
	MedicoCRM           string `json:"medico_crm"`
	MedicoRQE           string `json:"medico_rqe"`
	MedicoEspecialidade string `json:"medico_especialidade"`
}

type AgendamentoFiltros struct {
	Status     string
	TipoExame  string
	DataInicio string
	DataFim    string
}

type ContagemPorTipo struct {
	Tipo  string `db:"tipo" json:"tipo"`
	Count int    `db:"count" json:"count"`
}

type AgendamentoEstatisticas struct {
	TotalAgendamentos int               `json:"total_agendamentos"`
	PorStatus         map[string]int    `json:"por_status"`
	PorTipoExame      []ContagemPorTipo `json:"por_tipo_exame"`
}
