package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentualQualidade(t *testing.T) {
	assert.Equal(t, 0.0, PercentualQualidade(5, 0))
	assert.Equal(t, 0.0, PercentualQualidade(0, 10))
	assert.Equal(t, 100.0, PercentualQualidade(10, 10))
	assert.Equal(t, 66.67, PercentualQualidade(2, 3))
	assert.Equal(t, 33.33, PercentualQualidade(1, 3))
}

func TestRecomendacaoPorQualidade(t *testing.T) {
	assert.Equal(t, RecomendacaoRepetir, RecomendacaoPorQualidade(0))
	assert.Equal(t, RecomendacaoRepetir, RecomendacaoPorQualidade(39.99))
	assert.Equal(t, RecomendacaoRevisar, RecomendacaoPorQualidade(40))
	assert.Equal(t, RecomendacaoRevisar, RecomendacaoPorQualidade(69.99))
	assert.Equal(t, RecomendacaoOK, RecomendacaoPorQualidade(70))
	assert.Equal(t, RecomendacaoOK, RecomendacaoPorQualidade(100))
}

func TestQualidadeDescritiva(t *testing.T) {
	assert.Equal(t, "Não avaliada", (&AnaliseEEG{}).QualidadeDescritiva())

	cases := map[float64]string{
		95: "Excelente",
		80: "Excelente",
		79: "Boa",
		60: "Boa",
		59: "Regular",
		40: "Regular",
		39: "Ruim",
		0:  "Ruim",
	}
	for p, want := range cases {
		p := p
		a := &AnaliseEEG{PercentualQualidade: &p}
		assert.Equal(t, want, a.QualidadeDescritiva(), "percentual %v", p)
	}
}

func TestEstatisticasQualidade(t *testing.T) {
	assert.Nil(t, (&AnaliseEEG{}).Estatisticas())

	total, limpas, artefato := 20, 15, 5
	a := &AnaliseEEG{
		TotalPaginas:    &total,
		PaginasLimpas:   &limpas,
		PaginasArtefato: &artefato,
	}
	stats := a.Estatisticas()
	assert.Equal(t, 20, stats.TotalPaginas)
	assert.Equal(t, 75.0, stats.PercentualLimpas)
	assert.Equal(t, 25.0, stats.PercentualArtefatos)
}
