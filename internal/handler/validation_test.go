package handler

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCPF(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation("cpf", validCPF))

	valid := []string{"52998224725", "529.982.247-25"}
	for _, cpf := range valid {
		assert.NoError(t, v.Var(cpf, "cpf"), cpf)
	}

	invalid := []string{"11111111111", "52998224724", "1234567890", "", "abc"}
	for _, cpf := range invalid {
		assert.Error(t, v.Var(cpf, "cpf"), cpf)
	}
}
