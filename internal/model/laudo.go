package model

import (
	"time"
)

type LaudoStatus string

const (
	LaudoStatusPendente   LaudoStatus = "pendente"
	LaudoStatusFinalizado LaudoStatus = "finalizado"
)

// Laudo is the clinical report. CodigoValidador is an 8-character uppercase
// alphanumeric code unique across all reports; NumeroControle follows the
// "YYYY/NNNN" format with the numeric suffix sequential within each year.
type Laudo struct {
	ID                  int64       `db:"id" json:"id"`
	CodigoValidador     string      `db:"codigo_validador" json:"codigo_validador"`
	NomePaciente        string      `db:"nome_paciente" json:"nome_paciente"`
	NumeroControle      string      `db:"numero_controle" json:"numero_controle"`
	DataNascimento      time.Time   `db:"data_nascimento" json:"-"`
	Indicacao           string      `db:"indicacao" json:"indicacao"`
	Sexo                string      `db:"sexo" json:"sexo"`
	DataExame           time.Time   `db:"data_exame" json:"-"`
	RG                  string      `db:"rg" json:"rg,omitempty"`
	CPF                 string      `db:"cpf" json:"cpf,omitempty"`
	Convenio            string      `db:"convenio" json:"convenio,omitempty"`
	TipoExame           string      `db:"tipo_exame" json:"tipo_exame"`
	MedicoNome          string      `db:"medico_nome" json:"medico_nome"`
	MedicoCRM           string      `db:"medico_crm" json:"medico_crm"`
	MedicoRQE           string      `db:"medico_rqe" json:"medico_rqe,omitempty"`
	MedicoEspecialidade string      `db:"medico_especialidade" json:"medico_especialidade"`
	Status              LaudoStatus `db:"status" json:"status"`
	ConteudoLaudo       *string     `db:"conteudo_laudo" json:"conteudo_laudo,omitempty"`
	CreatedAt           time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time   `db:"updated_at" json:"updated_at"`
}

// LaudoResponse is the wire representation; dates use the dd/mm/yyyy
// format the clinic's dashboard expects.
type LaudoResponse struct {
	*Laudo
	DataNascimento string `json:"data_nascimento"`
	DataExame      string `json:"data_exame"`
}

func (l *Laudo) Response() *LaudoResponse {
	return &LaudoResponse{
		Laudo:          l,
		DataNascimento: l.DataNascimento.Format("02/01/2006"),
		DataExame:      l.DataExame.Format("02/01/2006"),
	}
}

type CriarLaudoRequest struct {
	CodigoValidador     string `json:"codigo_validador"`
	NumeroControle      string `json:"numero_controle"`
	NomePaciente        string `json:"nome_paciente" binding:"required"`
	DataNascimento      string `json:"data_nascimento" binding:"required"`
	Indicacao           string `json:"indicacao" binding:"required"`
	Sexo                string `json:"sexo" binding:"required,oneof=M F"`
	DataExame           string `json:"data_exame" binding:"required"`
	RG                  string `json:"rg"`
	CPF                 string `json:"cpf" binding:"omitempty,cpf"`
	Convenio            string `json:"convenio"`
	TipoExame           string `json:"tipo_exame" binding:"required"`
	MedicoNome          string `json:"medico_nome" binding:"required"`
	MedicoCRM           string `json:"medico_crm" binding:"required"`
	MedicoRQE           string `json:"medico_rqe"`
	MedicoEspecialidade string `json:"medico_especialidade"`
}

type AtualizarLaudoRequest struct {
	NomePaciente        *string `json:"nome_paciente"`
	DataNascimento      *string `json:"data_nascimento"`
	Indicacao           *string `json:"indicacao"`
	Sexo                *string `json:"sexo"`
	RG                  *string `json:"rg"`
	CPF                 *string `json:"cpf" binding:"omitempty,cpf"`
	Convenio            *string `json:"convenio"`
	TipoExame           *string `json:"tipo_exame"`
	MedicoNome          *string `json:"medico_nome"`
	MedicoCRM           *string `json:"medico_crm"`
	MedicoRQE           *string `json:"medico_rqe"`
	MedicoEspecialidade *string `json:"medico_especialidade"`
	Status              *string `json:"status"`
	ConteudoLaudo       *string `json:"conteudo_laudo"`
}

type FinalizarLaudoRequest struct {
	ConteudoLaudo string `json:"conteudo_laudo" binding:"required"`
}

type LaudoFiltros struct {
	Status     string
	TipoExame  string
	DataInicio string
	DataFim    string
	Search     string
}

type ContagemPorMes struct {
	Mes   string `db:"mes" json:"mes"`
	Count int    `db:"count" json:"count"`
}

type LaudoEstatisticas struct {
	TotalLaudos  int               `json:"total_laudos"`
	PorStatus    map[string]int    `json:"por_status"`
	PorTipoExame []ContagemPorTipo `json:"por_tipo_exame"`
	PorMes       []ContagemPorMes  `json:"por_mes"`
}
