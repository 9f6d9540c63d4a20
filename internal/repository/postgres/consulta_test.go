package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedicoFiltro(t *testing.T) {
	medico := int64(5)

	// without a practitioner filter the whole agenda counts: no predicate
	assert.Equal(t, "", medicoFiltro(3, nil, false))
	assert.Equal(t, "", medicoFiltro(3, nil, true))

	assert.Equal(t, " AND medico_id = $3", medicoFiltro(3, &medico, false))
	assert.Equal(t, " AND (medico_id = $4 OR medico_id IS NULL)", medicoFiltro(4, &medico, true))
}
