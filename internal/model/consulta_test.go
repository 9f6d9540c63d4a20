package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsultaStatusTransitions(t *testing.T) {
	cases := []struct {
		from    ConsultaStatus
		to      ConsultaStatus
		allowed bool
	}{
		{ConsultaStatusAgendado, ConsultaStatusConfirmado, true},
		{ConsultaStatusAgendado, ConsultaStatusEmAndamento, true},
		{ConsultaStatusAgendado, ConsultaStatusConcluido, false},
		{ConsultaStatusConfirmado, ConsultaStatusEmPreparo, true},
		{ConsultaStatusConfirmado, ConsultaStatusAgendado, false},
		{ConsultaStatusEmPreparo, ConsultaStatusEmAndamento, true},
		{ConsultaStatusEmPreparo, ConsultaStatusConcluido, false},
		{ConsultaStatusEmAndamento, ConsultaStatusConcluido, true},
		{ConsultaStatusEmAndamento, ConsultaStatusFaltou, false},
		{ConsultaStatusConcluido, ConsultaStatusLaudoPendente, true},
		{ConsultaStatusConcluido, ConsultaStatusFinalizado, true},
		{ConsultaStatusLaudoPendente, ConsultaStatusFinalizado, true},
		{ConsultaStatusLaudoPendente, ConsultaStatusCancelado, false},
		{ConsultaStatusFinalizado, ConsultaStatusAgendado, false},
		{ConsultaStatusCancelado, ConsultaStatusAgendado, false},
		{ConsultaStatusFaltou, ConsultaStatusAgendado, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestConsultaStatusSelfTransitionIsNoop(t *testing.T) {
	for _, s := range []ConsultaStatus{
		ConsultaStatusAgendado, ConsultaStatusFinalizado, ConsultaStatusCancelado,
	} {
		assert.True(t, s.CanTransition(s))
	}
}

func TestConsultaStatusTerminal(t *testing.T) {
	assert.True(t, ConsultaStatusFinalizado.Terminal())
	assert.True(t, ConsultaStatusCancelado.Terminal())
	assert.True(t, ConsultaStatusFaltou.Terminal())
	assert.False(t, ConsultaStatusAgendado.Terminal())
	assert.False(t, ConsultaStatusLaudoPendente.Terminal())
}
