package model

import (
	"time"
)

// Paciente holds identity, demographic and medical-history data. Patients
// are never hard-deleted.
type Paciente struct {
	ID                 int64     `db:"id" json:"id"`
	Nome               string    `db:"nome" json:"nome"`
	CPF                *string   `db:"cpf" json:"cpf,omitempty"`
	RG                 *string   `db:"rg" json:"rg,omitempty"`
	DataNascimento     time.Time `db:"data_nascimento" json:"data_nascimento"`
	Sexo               string    `db:"sexo" json:"sexo"`
	Telefone           string    `db:"telefone" json:"telefone"`
	Email              *string   `db:"email" json:"email,omitempty"`
	Endereco           *string   `db:"endereco" json:"endereco,omitempty"`
	CEP                *string   `db:"cep" json:"cep,omitempty"`
	Cidade             *string   `db:"cidade" json:"cidade,omitempty"`
	Estado             *string   `db:"estado" json:"estado,omitempty"`
	Convenio           *string   `db:"convenio" json:"convenio,omitempty"`
	NumeroCarteirinha  *string   `db:"numero_carteirinha" json:"numero_carteirinha,omitempty"`
	ContatoEmergencia  *string   `db:"contato_emergencia" json:"contato_emergencia,omitempty"`
	TelefoneEmergencia *string   `db:"telefone_emergencia" json:"telefone_emergencia,omitempty"`
	ObservacoesMedicas *string   `db:"observacoes_medicas" json:"observacoes_medicas,omitempty"`
	Alergias           *string   `db:"alergias" json:"alergias,omitempty"`
	MedicamentosUso    *string   `db:"medicamentos_uso" json:"medicamentos_uso,omitempty"`
	HistoricoFamiliar  *string   `db:"historico_familiar" json:"historico_familiar,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

type RegistrarPacienteRequest struct {
	Nome               string `json:"nome" binding:"required"`
	CPF                string `json:"cpf" binding:"omitempty,cpf"`
	RG                 string `json:"rg"`
	DataNascimento     string `json:"data_nascimento" binding:"required"`
	Sexo               string `json:"sexo" binding:"required,oneof=M F"`
	Telefone           string `json:"telefone" binding:"required"`
	Email              string `json:"email" binding:"omitempty,email"`
	Endereco           string `json:"endereco"`
	CEP                string `json:"cep"`
	Cidade             string `json:"cidade"`
	Estado             string `json:"estado"`
	Convenio           string `json:"convenio"`
	NumeroCarteirinha  string `json:"numero_carteirinha"`
	ContatoEmergencia  string `json:"contato_emergencia"`
	TelefoneEmergencia string `json:"telefone_emergencia"`
	ObservacoesMedicas string `json:"observacoes_medicas"`
	Alergias           string `json:"alergias"`
	MedicamentosUso    string `json:"medicamentos_uso"`
	HistoricoFamiliar  string `json:"historico_familiar"`
}
