package model

import (
	"time"
)

// Medico is a registered practitioner.
type Medico struct {
	ID                 int64     `db:"id" json:"id"`
	Nome               string    `db:"nome" json:"nome"`
	CRM                string    `db:"crm" json:"crm"`
	UFCRM              string    `db:"uf_crm" json:"uf_crm"`
	RQE                *string   `db:"rqe" json:"rqe,omitempty"`
	Especialidade      string    `db:"especialidade" json:"especialidade"`
	Telefone           *string   `db:"telefone" json:"telefone,omitempty"`
	Email              *string   `db:"email" json:"email,omitempty"`
	Endereco           *string   `db:"endereco" json:"endereco,omitempty"`
	HorarioAtendimento JSONMap   `db:"horario_atendimento" json:"horario_atendimento,omitempty"`
	Ativo              bool      `db:"ativo" json:"ativo"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

type RegistrarMedicoRequest struct {
	Nome               string                 `json:"nome" binding:"required"`
	CRM                string                 `json:"crm" binding:"required"`
	UFCRM              string                 `json:"uf_crm" binding:"required"`
	RQE                string                 `json:"rqe"`
	Especialidade      string                 `json:"especialidade" binding:"required"`
	Telefone           string                 `json:"telefone"`
	Email              string                 `json:"email" binding:"omitempty,email"`
	Endereco           string                 `json:"endereco"`
	HorarioAtendimento map[string]interface{} `json:"horario_atendimento"`
}
