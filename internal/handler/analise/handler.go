package analise

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/neuroexam/clinic-api/internal/handler"
	"github.com/neuroexam/clinic-api/internal/model"
	"github.com/neuroexam/clinic-api/internal/service/analise"
)

const maxUploadSize = 50 << 20 // 50 MiB

type Handler struct {
	service   *analise.Service
	uploadDir string
}

func NewHandler(service *analise.Service, uploadDir string) *Handler {
	return &Handler{service: service, uploadDir: uploadDir}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	analises := r.Group("/analises")
	{
		analises.POST("", h.Criar)
		analises.GET("", h.Listar)
		analises.GET("/estatisticas", h.Estatisticas)
		analises.POST("/upload", h.Upload)
		analises.GET("/:id", h.Get)
		analises.PUT("/:id", h.Atualizar)
	}

	r.GET("/laudos/:id/analises", h.ListarPorLaudo)
	r.POST("/laudos/:id/analises/processar", h.ProcessarPDF)
}

// ProcessarPDF queues an analysis for a PDF already present in the
// uploads dir.
func (h *Handler) ProcessarPDF(c *gin.Context) {
	laudoID, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	var req model.ProcessarPDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "dados inválidos: "+err.Error())
		return
	}

	a, err := h.service.ProcessarPDF(c.Request.Context(), laudoID, req.ArquivoPDF)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusAccepted, a.Response())
}

func (h *Handler) Criar(c *gin.Context) {
	var req model.CriarAnaliseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "dados inválidos: "+err.Error())
		return
	}

	a, err := h.service.Criar(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, a.Response())
}

// Upload receives the exam PDF as multipart form data, stores it under a
// random name and queues the quality analysis.
func (h *Handler) Upload(c *gin.Context) {
	laudoID, err := strconv.ParseInt(c.PostForm("laudo_id"), 10, 64)
	if err != nil || laudoID <= 0 {
		handler.BadRequest(c, "laudo_id inválido")
		return
	}

	file, err := c.FormFile("arquivo")
	if err != nil {
		handler.BadRequest(c, "arquivo é obrigatório")
		return
	}
	if file.Size > maxUploadSize {
		handler.BadRequest(c, "arquivo excede o tamanho máximo de 50MB")
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		handler.BadRequest(c, "apenas arquivos PDF são aceitos")
		return
	}

	filename := fmt.Sprintf("%s.pdf", uuid.New().String())
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
		handler.BadRequest(c, "falha ao salvar o arquivo")
		return
	}

	a, err := h.service.ProcessarPDF(c.Request.Context(), laudoID, filename)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusAccepted, a.Response())
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, a.Response())
}

func (h *Handler) Listar(c *gin.Context) {
	filtros := &model.AnaliseFiltros{
		Status:       c.Query("status"),
		Recomendacao: c.Query("recomendacao"),
	}
	if raw := c.Query("laudo_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			handler.BadRequest(c, "laudo_id inválido")
			return
		}
		filtros.LaudoID = &id
	}

	analises, err := h.service.Listar(c.Request.Context(), filtros)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analises": respostas(analises), "total": len(analises)})
}

func (h *Handler) ListarPorLaudo(c *gin.Context) {
	laudoID, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	analises, err := h.service.ListarPorLaudo(c.Request.Context(), laudoID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analises": respostas(analises), "total": len(analises)})
}

func (h *Handler) Atualizar(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	var req model.AtualizarAnaliseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "dados inválidos: "+err.Error())
		return
	}

	a, err := h.service.Atualizar(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, a.Response())
}

func (h *Handler) Estatisticas(c *gin.Context) {
	stats, err := h.service.Estatisticas(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func respostas(analises []*model.AnaliseEEG) []*model.AnaliseResponse {
	out := make([]*model.AnaliseResponse, 0, len(analises))
	for _, a := range analises {
		out = append(out, a.Response())
	}
	return out
}
