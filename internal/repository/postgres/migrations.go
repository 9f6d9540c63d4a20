package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrate creates the schema. It runs once at process startup; the
// statements are idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS agendamentos (
			id BIGSERIAL PRIMARY KEY,
			nome_paciente VARCHAR(100) NOT NULL,
			telefone VARCHAR(20) NOT NULL,
			email VARCHAR(100) NOT NULL DEFAULT '',
			data_agendamento TIMESTAMP NOT NULL,
			tipo_exame VARCHAR(100) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'agendado',
			observacoes TEXT NOT NULL DEFAULT '',
			data_nascimento DATE,
			sexo VARCHAR(10),
			rg VARCHAR(20),
			cpf VARCHAR(14),
			endereco TEXT,
			convenio VARCHAR(100),
			indicacao VARCHAR(200),
			medico_solicitante VARCHAR(100),
			laudo_id BIGINT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS laudos (
			id BIGSERIAL PRIMARY KEY,
			codigo_validador VARCHAR(20) NOT NULL UNIQUE,
			nome_paciente VARCHAR(100) NOT NULL,
			numero_controle VARCHAR(20) NOT NULL UNIQUE,
			data_nascimento DATE NOT NULL,
			indicacao VARCHAR(200) NOT NULL,
			sexo VARCHAR(10) NOT NULL,
			data_exame DATE NOT NULL,
			rg VARCHAR(20) NOT NULL DEFAULT '',
			cpf VARCHAR(14) NOT NULL DEFAULT '',
			convenio VARCHAR(100) NOT NULL DEFAULT '',
			tipo_exame VARCHAR(100) NOT NULL,
			medico_nome VARCHAR(100) NOT NULL,
			medico_crm VARCHAR(20) NOT NULL,
			medico_rqe VARCHAR(20) NOT NULL DEFAULT '',
			medico_especialidade VARCHAR(100) NOT NULL DEFAULT 'Neurologista',
			status VARCHAR(20) NOT NULL DEFAULT 'pendente',
			conteudo_laudo TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS analises_eeg (
			id BIGSERIAL PRIMARY KEY,
			laudo_id BIGINT NOT NULL REFERENCES laudos(id),
			arquivo_pdf VARCHAR(255) NOT NULL,
			total_paginas INT,
			paginas_limpas INT,
			paginas_artefato INT,
			percentual_qualidade NUMERIC(5,2),
			recomendacao VARCHAR(20) NOT NULL DEFAULT 'PROCESSANDO',
			dados_paciente JSONB,
			relatorio_qualidade JSONB,
			qeeg_data JSONB,
			status VARCHAR(20) NOT NULL DEFAULT 'processando',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS pacientes (
			id BIGSERIAL PRIMARY KEY,
			nome VARCHAR(255) NOT NULL,
			cpf VARCHAR(14) UNIQUE,
			rg VARCHAR(20),
			data_nascimento DATE NOT NULL,
			sexo VARCHAR(1) NOT NULL CHECK (sexo IN ('M', 'F')),
			telefone VARCHAR(20) NOT NULL,
			email VARCHAR(100),
			endereco TEXT,
			cep VARCHAR(10),
			cidade VARCHAR(100),
			estado VARCHAR(2),
			convenio VARCHAR(100),
			numero_carteirinha VARCHAR(50),
			contato_emergencia VARCHAR(255),
			telefone_emergencia VARCHAR(20),
			observacoes_medicas TEXT,
			alergias TEXT,
			medicamentos_uso TEXT,
			historico_familiar TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS medicos (
			id BIGSERIAL PRIMARY KEY,
			nome VARCHAR(255) NOT NULL,
			crm VARCHAR(20) NOT NULL,
			uf_crm VARCHAR(2) NOT NULL,
			rqe VARCHAR(20),
			especialidade VARCHAR(100) NOT NULL,
			telefone VARCHAR(20),
			email VARCHAR(100),
			endereco TEXT,
			horario_atendimento JSONB,
			ativo BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS consultas (
			id BIGSERIAL PRIMARY KEY,
			paciente_id BIGINT NOT NULL REFERENCES pacientes(id),
			medico_id BIGINT REFERENCES medicos(id),
			agendamento_id BIGINT REFERENCES agendamentos(id),
			tipo_exame VARCHAR(50) NOT NULL,
			data_consulta TIMESTAMP NOT NULL,
			duracao_estimada INT NOT NULL DEFAULT 30,
			status VARCHAR(20) NOT NULL DEFAULT 'agendado',
			valor NUMERIC(10,2) NOT NULL DEFAULT 0,
			convenio VARCHAR(100),
			numero_autorizacao VARCHAR(50),
			observacoes TEXT,
			instrucoes_preparo TEXT,
			data_preparo_enviado TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS resultados_exames (
			id BIGSERIAL PRIMARY KEY,
			consulta_id BIGINT NOT NULL REFERENCES consultas(id),
			tipo_resultado VARCHAR(50) NOT NULL,
			dados_tecnicos JSONB,
			interpretacao TEXT,
			conclusao TEXT,
			recomendacoes TEXT,
			arquivo_pdf VARCHAR(255),
			arquivo_imagem VARCHAR(255),
			qualidade_exame VARCHAR(20),
			artefatos_detectados TEXT,
			tempo_exame INT,
			medico_responsavel_id BIGINT REFERENCES medicos(id),
			revisado BOOLEAN NOT NULL DEFAULT FALSE,
			data_revisao TIMESTAMP,
			medico_revisor_id BIGINT REFERENCES medicos(id),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS horarios_disponiveis (
			id BIGSERIAL PRIMARY KEY,
			medico_id BIGINT REFERENCES medicos(id),
			tipo_exame VARCHAR(50) NOT NULL,
			dia_semana INT NOT NULL,
			hora_inicio TIME NOT NULL,
			hora_fim TIME NOT NULL,
			intervalo_minutos INT NOT NULL DEFAULT 30,
			ativo BOOLEAN NOT NULL DEFAULT TRUE,
			data_inicio DATE,
			data_fim DATE,
			observacoes TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			CHECK (hora_inicio < hora_fim),
			CHECK (intervalo_minutos > 0)
		)`,

		`CREATE TABLE IF NOT EXISTS bloqueios_horarios (
			id BIGSERIAL PRIMARY KEY,
			medico_id BIGINT REFERENCES medicos(id),
			data_inicio TIMESTAMP NOT NULL,
			data_fim TIMESTAMP NOT NULL,
			motivo VARCHAR(255),
			tipo_bloqueio VARCHAR(50) NOT NULL DEFAULT 'manual',
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS usuarios (
			id BIGSERIAL PRIMARY KEY,
			nome VARCHAR(100) NOT NULL,
			email VARCHAR(100) NOT NULL UNIQUE,
			senha_hash VARCHAR(100) NOT NULL,
			ativo BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Backstop for the booking race: two active consultations can
		// never share a practitioner and an instant. COALESCE folds the
		// practitioner-less rows into one key so they conflict too.
		`DROP INDEX IF EXISTS consultas_medico_horario_ativo`,
		`CREATE UNIQUE INDEX IF NOT EXISTS consultas_horario_ativo
			ON consultas (COALESCE(medico_id, 0), data_consulta)
			WHERE status NOT IN ('cancelado', 'faltou')`,

		`CREATE INDEX IF NOT EXISTS agendamentos_data ON agendamentos (data_agendamento)`,
		`CREATE INDEX IF NOT EXISTS consultas_data ON consultas (data_consulta)`,
		`CREATE INDEX IF NOT EXISTS analises_laudo ON analises_eeg (laudo_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
