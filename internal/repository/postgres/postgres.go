package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/neuroexam/clinic-api/internal/repository"
)

type agendamentoRepository struct {
	db *sqlx.DB
}

type consultaRepository struct {
	db *sqlx.DB
}

type pacienteRepository struct {
	db *sqlx.DB
}

type medicoRepository struct {
	db *sqlx.DB
}

type laudoRepository struct {
	db *sqlx.DB
}

type analiseRepository struct {
	db *sqlx.DB
}

type usuarioRepository struct {
	db *sqlx.DB
}

func NewAgendamentoRepository(db *sqlx.DB) repository.AgendamentoRepository {
	return &agendamentoRepository{db: db}
}

func NewConsultaRepository(db *sqlx.DB) repository.ConsultaRepository {
	return &consultaRepository{db: db}
}

func NewPacienteRepository(db *sqlx.DB) repository.PacienteRepository {
	return &pacienteRepository{db: db}
}

func NewMedicoRepository(db *sqlx.DB) repository.MedicoRepository {
	return &medicoRepository{db: db}
}

func NewLaudoRepository(db *sqlx.DB) repository.LaudoRepository {
	return &laudoRepository{db: db}
}

func NewAnaliseRepository(db *sqlx.DB) repository.AnaliseRepository {
	return &analiseRepository{db: db}
}

func NewUsuarioRepository(db *sqlx.DB) repository.UsuarioRepository {
	return &usuarioRepository{db: db}
}

// withTx executes fn within a transaction, rolling back on error or panic.
func withTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
