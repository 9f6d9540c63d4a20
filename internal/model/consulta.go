package model

import (
	"time"
)

type ConsultaStatus string

const (
	ConsultaStatusAgendado      ConsultaStatus = "agendado"
	ConsultaStatusConfirmado    ConsultaStatus = "confirmado"
	ConsultaStatusEmPreparo     ConsultaStatus = "em_preparo"
	ConsultaStatusEmAndamento   ConsultaStatus = "em_andamento"
	ConsultaStatusConcluido     ConsultaStatus = "concluido"
	ConsultaStatusLaudoPendente ConsultaStatus = "laudo_pendente"
	ConsultaStatusFinalizado    ConsultaStatus = "finalizado"
	ConsultaStatusCancelado     ConsultaStatus = "cancelado"
	ConsultaStatusFaltou        ConsultaStatus = "faltou"
)

// Terminal reports whether the status accepts no further transitions.
func (s ConsultaStatus) Terminal() bool {
	return s == ConsultaStatusFinalizado || s == ConsultaStatusCancelado || s == ConsultaStatusFaltou
}

// consultaTransitions is the enforced state machine for consultations.
// The source system allowed any status to be set from any other; here
// illegal transitions are rejected and setting the current status again
// is a no-op.
var consultaTransitions = map[ConsultaStatus][]ConsultaStatus{
	ConsultaStatusAgendado:      {ConsultaStatusConfirmado, ConsultaStatusEmPreparo, ConsultaStatusEmAndamento, ConsultaStatusCancelado, ConsultaStatusFaltou},
	ConsultaStatusConfirmado:    {ConsultaStatusEmPreparo, ConsultaStatusEmAndamento, ConsultaStatusCancelado, ConsultaStatusFaltou},
	ConsultaStatusEmPreparo:     {ConsultaStatusEmAndamento, ConsultaStatusCancelado, ConsultaStatusFaltou},
	ConsultaStatusEmAndamento:   {ConsultaStatusConcluido, ConsultaStatusCancelado},
	ConsultaStatusConcluido:     {ConsultaStatusLaudoPendente, ConsultaStatusFinalizado},
	ConsultaStatusLaudoPendente: {ConsultaStatusFinalizado},
}

// CanTransition reports whether the consultation status machine allows
// moving from s to next.
func (s ConsultaStatus) CanTransition(next ConsultaStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range consultaTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Consulta is the clinical encounter: a scheduled exam tied to a patient,
// an optional practitioner and the originating intake booking.
type Consulta struct {
	ID                 int64          `db:"id" json:"id"`
	PacienteID         int64          `db:"paciente_id" json:"paciente_id"`
	MedicoID           *int64         `db:"medico_id" json:"medico_id,omitempty"`
	AgendamentoID      *int64         `db:"agendamento_id" json:"agendamento_id,omitempty"`
	TipoExame          string         `db:"tipo_exame" json:"tipo_exame"`
	DataConsulta       time.Time      `db:"data_consulta" json:"data_consulta"`
	DuracaoEstimada    int            `db:"duracao_estimada" json:"duracao_estimada"`
	Status             ConsultaStatus `db:"status" json:"status"`
	Valor              float64        `db:"valor" json:"valor"`
	Convenio           *string        `db:"convenio" json:"convenio,omitempty"`
	NumeroAutorizacao  *string        `db:"numero_autorizacao" json:"numero_autorizacao,omitempty"`
	Observacoes        *string        `db:"observacoes" json:"observacoes,omitempty"`
	InstrucoesPreparo  *string        `db:"instrucoes_preparo" json:"instrucoes_preparo,omitempty"`
	DataPreparoEnviado *time.Time     `db:"data_preparo_enviado" json:"data_preparo_enviado,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`

	// Joined fields, populated by period listings.
	PacienteNome     *string `db:"paciente_nome" json:"paciente_nome,omitempty"`
	PacienteTelefone *string `db:"paciente_telefone" json:"paciente_telefone,omitempty"`
	PacienteEmail    *string `db:"paciente_email" json:"paciente_email,omitempty"`
	MedicoNome       *string `db:"medico_nome" json:"medico_nome,omitempty"`
	MedicoCRM        *string `db:"medico_crm" json:"medico_crm,omitempty"`
}

type AgendarConsultaRequest struct {
	PacienteID        int64   `json:"paciente_id" binding:"required"`
	MedicoID          *int64  `json:"medico_id"`
	AgendamentoID     *int64  `json:"agendamento_id"`
	TipoExame         string  `json:"tipo_exame" binding:"required"`
	DataConsulta      string  `json:"data_consulta" binding:"required"`
	Valor             float64 `json:"valor"`
	Convenio          string  `json:"convenio"`
	NumeroAutorizacao string  `json:"numero_autorizacao"`
	Observacoes       string  `json:"observacoes"`
}

type AtualizarStatusConsultaRequest struct {
	Status      string `json:"status" binding:"required"`
	Observacoes string `json:"observacoes"`
}

type ConsultaFiltros struct {
	DataInicio string
	DataFim    string
	TipoExame  string
	Status     string
}

type ConsultaEstatisticas struct {
	TotalConsultas int               `json:"total_consultas"`
	PorStatus      map[string]int    `json:"por_status"`
	PorTipoExame   []ContagemPorTipo `json:"por_tipo_exame"`
	ReceitaTotal   float64           `json:"receita_total"`
}

// ResultadoExame stores the technical findings of a completed exam.
type ResultadoExame struct {
	ID                  int64      `db:"id" json:"id"`
	ConsultaID          int64      `db:"consulta_id" json:"consulta_id"`
	TipoResultado       string     `db:"tipo_resultado" json:"tipo_resultado"`
	DadosTecnicos       JSONMap    `db:"dados_tecnicos" json:"dados_tecnicos,omitempty"`
	Interpretacao       *string    `db:"interpretacao" json:"interpretacao,omitempty"`
	Conclusao           *string    `db:"conclusao" json:"conclusao,omitempty"`
	Recomendacoes       *string    `db:"recomendacoes" json:"recomendacoes,omitempty"`
	ArquivoPDF          *string    `db:"arquivo_pdf" json:"arquivo_pdf,omitempty"`
	ArquivoImagem       *string    `db:"arquivo_imagem" json:"arquivo_imagem,omitempty"`
	QualidadeExame      *string    `db:"qualidade_exame" json:"qualidade_exame,omitempty"`
	ArtefatosDetectados *string    `db:"artefatos_detectados" json:"artefatos_detectados,omitempty"`
	TempoExame          *int       `db:"tempo_exame" json:"tempo_exame,omitempty"`
	MedicoResponsavelID *int64     `db:"medico_responsavel_id" json:"medico_responsavel_id,omitempty"`
	Revisado            bool       `db:"revisado" json:"revisado"`
	DataRevisao         *time.Time `db:"data_revisao" json:"data_revisao,omitempty"`
	MedicoRevisorID     *int64     `db:"medico_revisor_id" json:"medico_revisor_id,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

type RegistrarResultadoRequest struct {
	TipoResultado       string                 `json:"tipo_resultado" binding:"required"`
	DadosTecnicos       map[string]interface{} `json:"dados_tecnicos"`
	Interpretacao       string                 `json:"interpretacao"`
	Conclusao           string                 `json:"conclusao"`
	Recomendacoes       string                 `json:"recomendacoes"`
	ArquivoPDF          string                 `json:"arquivo_pdf"`
	ArquivoImagem       string                 `json:"arquivo_imagem"`
	QualidadeExame      string                 `json:"qualidade_exame"`
	ArtefatosDetectados string                 `json:"artefatos_detectados"`
	TempoExame          *int                   `json:"tempo_exame"`
	MedicoResponsavelID *int64                 `json:"medico_responsavel_id"`
}
