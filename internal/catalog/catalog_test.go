package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExamTypeLookup(t *testing.T) {
	c := Default()

	et, ok := c.ExamType("video_eeg")
	require.True(t, ok)
	assert.Equal(t, "Video-EEG", et.Name)
	assert.Equal(t, 120, et.Duration)
	assert.Equal(t, 500.00, et.Price)
	assert.NotEmpty(t, et.Preparation)

	_, ok = c.ExamType("tomografia")
	assert.False(t, ok)
}

func TestExamTypesRetornaCopia(t *testing.T) {
	c := Default()

	m := c.ExamTypes()
	delete(m, "eeg_rotina")

	_, ok := c.ExamType("eeg_rotina")
	assert.True(t, ok)
}

func TestValidConsultaStatus(t *testing.T) {
	c := Default()

	for _, s := range []string{"agendado", "confirmado", "em_preparo", "em_andamento", "concluido", "laudo_pendente", "finalizado", "cancelado", "faltou"} {
		assert.True(t, c.ValidConsultaStatus(s), s)
	}
	assert.False(t, c.ValidConsultaStatus("arquivado"))
}

func TestSpecialties(t *testing.T) {
	c := Default()

	s := c.Specialties()
	assert.Equal(t, "Neurofisiologia Clínica", s["neurofisiologia"])
	assert.Len(t, s, 5)
}
