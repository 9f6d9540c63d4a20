// Package email sends transactional mail to patients. When SMTP is
// disabled the noop implementation is wired in and sends are logged only.
package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/neuroexam/clinic-api/internal/config"
	"github.com/neuroexam/clinic-api/pkg/logger"
)

type Service interface {
	SendInstrucoesPreparo(destinatario, nomePaciente, tipoExame, instrucoes string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func NewService(cfg config.SMTPConfig, log *logger.Logger) Service {
	if !cfg.Enabled {
		return &noopService{logger: log}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		logger: log,
	}
}

func (s *smtpService) SendInstrucoesPreparo(destinatario, nomePaciente, tipoExame, instrucoes string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", destinatario)
	m.SetHeader("Subject", fmt.Sprintf("Instruções de preparo - %s", tipoExame))
	m.SetBody("text/plain", fmt.Sprintf(
		"Olá %s,\n\nSeu exame (%s) foi agendado. Instruções de preparo:\n\n%s\n\nEm caso de dúvidas, entre em contato com a clínica.",
		nomePaciente, tipoExame, instrucoes,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send preparo email: %w", err)
	}
	return nil
}

type noopService struct {
	logger *logger.Logger
}

func (s *noopService) SendInstrucoesPreparo(destinatario, nomePaciente, tipoExame, instrucoes string) error {
	s.logger.Info(fmt.Sprintf("smtp disabled, skipping preparo email to %s", destinatario))
	return nil
}
