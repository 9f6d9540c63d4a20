package model

import (
	"time"
)

// HorarioDisponivel is a recurring weekly availability template. A nil
// MedicoID makes the template global: it applies alongside any
// practitioner-specific template for the same weekday and exam type.
type HorarioDisponivel struct {
	ID               int64      `db:"id" json:"id"`
	MedicoID         *int64     `db:"medico_id" json:"medico_id,omitempty"`
	TipoExame        string     `db:"tipo_exame" json:"tipo_exame"`
	DiaSemana        int        `db:"dia_semana" json:"dia_semana"` // 0=domingo
	HoraInicio       string     `db:"hora_inicio" json:"hora_inicio"`
	HoraFim          string     `db:"hora_fim" json:"hora_fim"`
	IntervaloMinutos int        `db:"intervalo_minutos" json:"intervalo_minutos"`
	Ativo            bool       `db:"ativo" json:"ativo"`
	DataInicio       *time.Time `db:"data_inicio" json:"data_inicio,omitempty"`
	DataFim          *time.Time `db:"data_fim" json:"data_fim,omitempty"`
	Observacoes      *string    `db:"observacoes" json:"observacoes,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// BloqueioHorario is a one-off blackout window. It overrides templates for
// its time range regardless of exam type; a nil MedicoID blocks everyone.
type BloqueioHorario struct {
	ID           int64     `db:"id" json:"id"`
	MedicoID     *int64    `db:"medico_id" json:"medico_id,omitempty"`
	DataInicio   time.Time `db:"data_inicio" json:"data_inicio"`
	DataFim      time.Time `db:"data_fim" json:"data_fim"`
	Motivo       *string   `db:"motivo" json:"motivo,omitempty"`
	TipoBloqueio string    `db:"tipo_bloqueio" json:"tipo_bloqueio"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
