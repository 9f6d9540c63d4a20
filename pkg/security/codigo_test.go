package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodigo(t *testing.T) {
	codigo, err := GenerateCodigo(8)
	require.NoError(t, err)
	assert.Len(t, codigo, 8)
	for _, c := range codigo {
		assert.Contains(t, codigoAlphabet, string(c))
	}
}

func TestGenerateCodigoUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		codigo, err := GenerateCodigo(8)
		require.NoError(t, err)
		assert.False(t, seen[codigo], "duplicate codigo %s", codigo)
		seen[codigo] = true
	}
}
