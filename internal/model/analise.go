package model

import (
	"math"
	"time"
)

type AnaliseStatus string

const (
	AnaliseStatusProcessando AnaliseStatus = "processando"
	AnaliseStatusConcluido   AnaliseStatus = "concluido"
	AnaliseStatusErro        AnaliseStatus = "erro"
)

type Recomendacao string

const (
	RecomendacaoOK          Recomendacao = "OK"
	RecomendacaoRevisar     Recomendacao = "REVISAR"
	RecomendacaoRepetir     Recomendacao = "REPETIR"
	RecomendacaoProcessando Recomendacao = "PROCESSANDO"
	RecomendacaoErro        Recomendacao = "ERRO"
)

// RecomendacaoPorQualidade derives the recommendation from the clean-page
// percentage: below 40 the exam must be repeated, below 70 reviewed.
func RecomendacaoPorQualidade(percentual float64) Recomendacao {
	switch {
	case percentual < 40:
		return RecomendacaoRepetir
	case percentual < 70:
		return RecomendacaoRevisar
	default:
		return RecomendacaoOK
	}
}

// PercentualQualidade computes limpas/total*100 rounded to 2 decimals.
func PercentualQualidade(limpas, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(limpas)/float64(total)*100*100) / 100
}

// AnaliseEEG is the automated page-quality assessment of an uploaded exam
// PDF, owned by exactly one laudo.
type AnaliseEEG struct {
	ID                  int64         `db:"id" json:"id"`
	LaudoID             int64         `db:"laudo_id" json:"laudo_id"`
	ArquivoPDF          string        `db:"arquivo_pdf" json:"arquivo_pdf"`
	TotalPaginas        *int          `db:"total_paginas" json:"total_paginas"`
	PaginasLimpas       *int          `db:"paginas_limpas" json:"paginas_limpas"`
	PaginasArtefato     *int          `db:"paginas_artefato" json:"paginas_artefato"`
	PercentualQualidade *float64      `db:"percentual_qualidade" json:"percentual_qualidade"`
	Recomendacao        Recomendacao  `db:"recomendacao" json:"recomendacao"`
	DadosPaciente       JSONMap       `db:"dados_paciente" json:"dados_paciente,omitempty"`
	RelatorioQualidade  JSONMap       `db:"relatorio_qualidade" json:"relatorio_qualidade,omitempty"`
	QEEGData            JSONMap       `db:"qeeg_data" json:"qeeg_data,omitempty"`
	Status              AnaliseStatus `db:"status" json:"status"`
	CreatedAt           time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time     `db:"updated_at" json:"updated_at"`

	// Joined laudo fields.
	NomePaciente   *string `db:"nome_paciente" json:"nome_paciente,omitempty"`
	NumeroControle *string `db:"numero_controle" json:"numero_controle,omitempty"`
}

// QualidadeDescritiva is the human label for the quality percentage.
func (a *AnaliseEEG) QualidadeDescritiva() string {
	if a.PercentualQualidade == nil {
		return "Não avaliada"
	}
	p := *a.PercentualQualidade
	switch {
	case p >= 80:
		return "Excelente"
	case p >= 60:
		return "Boa"
	case p >= 40:
		return "Regular"
	default:
		return "Ruim"
	}
}

// EstatisticasQualidade summarizes the page breakdown of one analysis.
type EstatisticasQualidade struct {
	TotalPaginas        int     `json:"total_paginas"`
	PaginasLimpas       int     `json:"paginas_limpas"`
	PaginasComArtefato  int     `json:"paginas_com_artefato"`
	PercentualLimpas    float64 `json:"percentual_limpas"`
	PercentualArtefatos float64 `json:"percentual_artefatos"`
}

func (a *AnaliseEEG) Estatisticas() *EstatisticasQualidade {
	if a.TotalPaginas == nil || *a.TotalPaginas == 0 {
		return nil
	}
	total := *a.TotalPaginas
	limpas := 0
	if a.PaginasLimpas != nil {
		limpas = *a.PaginasLimpas
	}
	artefato := 0
	if a.PaginasArtefato != nil {
		artefato = *a.PaginasArtefato
	}
	return &EstatisticasQualidade{
		TotalPaginas:        total,
		PaginasLimpas:       limpas,
		PaginasComArtefato:  artefato,
		PercentualLimpas:    PercentualQualidade(limpas, total),
		PercentualArtefatos: PercentualQualidade(artefato, total),
	}
}

// AnaliseResponse decorates an analysis with the derived quality fields.
type AnaliseResponse struct {
	*AnaliseEEG
	QualidadeDescritiva   string                 `json:"qualidade_descritiva"`
	EstatisticasQualidade *EstatisticasQualidade `json:"estatisticas_qualidade"`
}

func (a *AnaliseEEG) Response() *AnaliseResponse {
	return &AnaliseResponse{
		AnaliseEEG:            a,
		QualidadeDescritiva:   a.QualidadeDescritiva(),
		EstatisticasQualidade: a.Estatisticas(),
	}
}

type CriarAnaliseRequest struct {
	LaudoID             int64                  `json:"laudo_id" binding:"required"`
	ArquivoPDF          string                 `json:"arquivo_pdf" binding:"required"`
	TotalPaginas        *int                   `json:"total_paginas"`
	PaginasLimpas       *int                   `json:"paginas_limpas"`
	PaginasArtefato     *int                   `json:"paginas_artefato"`
	PercentualQualidade *float64               `json:"percentual_qualidade"`
	Recomendacao        string                 `json:"recomendacao"`
	DadosPaciente       map[string]interface{} `json:"dados_paciente"`
	RelatorioQualidade  map[string]interface{} `json:"relatorio_qualidade"`
	QEEGData            map[string]interface{} `json:"qeeg_data"`
	Status              string                 `json:"status"`
}

type AtualizarAnaliseRequest struct {
	TotalPaginas        *int                   `json:"total_paginas"`
	PaginasLimpas       *int                   `json:"paginas_limpas"`
	PaginasArtefato     *int                   `json:"paginas_artefato"`
	PercentualQualidade *float64               `json:"percentual_qualidade"`
	Recomendacao        *string                `json:"recomendacao"`
	DadosPaciente       map[string]interface{} `json:"dados_paciente"`
	RelatorioQualidade  map[string]interface{} `json:"relatorio_qualidade"`
	QEEGData            map[string]interface{} `json:"qeeg_data"`
	Status              *string                `json:"status"`
}

type ProcessarPDFRequest struct {
	ArquivoPDF string `json:"arquivo_pdf" binding:"required"`
}

type AnaliseFiltros struct {
	Status       string
	Recomendacao string
	LaudoID      *int64
}

type AnaliseEstatisticas struct {
	TotalAnalises   int            `json:"total_analises"`
	PorStatus       map[string]int `json:"por_status"`
	PorRecomendacao map[string]int `json:"por_recomendacao"`
	QualidadeMedia  float64        `json:"qualidade_media"`
}

// AnaliseJob is the payload published to the analysis channel; the worker
// picks it up and runs the scorer outside the request path.
type AnaliseJob struct {
	AnaliseID  int64  `json:"analise_id"`
	ArquivoPDF string `json:"arquivo_pdf"`
}
