package laudo

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neuroexam/clinic-api/internal/handler"
	"github.com/neuroexam/clinic-api/internal/model"
	"github.com/neuroexam/clinic-api/internal/service/laudo"
)

type Handler struct {
	service *laudo.Service
}

func NewHandler(service *laudo.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	laudos := r.Group("/laudos")
	{
		laudos.POST("", h.Criar)
		laudos.GET("", h.Listar)
		laudos.GET("/estatisticas", h.Estatisticas)
		laudos.GET("/validar/:codigo", h.Validar)
		laudos.GET("/:id", h.Get)
		laudos.PUT("/:id", h.Atualizar)
		laudos.POST("/:id/finalizar", h.Finalizar)
	}
}

func (h *Handler) Criar(c *gin.Context) {
	var req model.CriarLaudoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "dados inválidos: "+err.Error())
		return
	}

	l, err := h.service.Criar(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, l.Response())
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	l, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, l.Response())
}

// Validar is the public lookup used by patients to check a report's
// authenticity by its validation code.
func (h *Handler) Validar(c *gin.Context) {
	l, err := h.service.Validar(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valido": true, "laudo": l.Response()})
}

func (h *Handler) Listar(c *gin.Context) {
	filtros := &model.LaudoFiltros{
		Status:     c.Query("status"),
		TipoExame:  c.Query("tipo_exame"),
		DataInicio: c.Query("data_inicio"),
		DataFim:    c.Query("data_fim"),
		Search:     c.Query("search"),
	}

	laudos, err := h.service.Listar(c.Request.Context(), filtros)
	if err != nil {
		handler.Error(c, err)
		return
	}

	out := make([]*model.LaudoResponse, 0, len(laudos))
	for _, l := range laudos {
		out = append(out, l.Response())
	}
	c.JSON(http.StatusOK, gin.H{"laudos": out, "total": len(out)})
}

func (h *Handler) Atualizar(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	var req model.AtualizarLaudoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "dados inválidos: "+err.Error())
		return
	}

	l, err := h.service.Atualizar(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, l.Response())
}

func (h *Handler) Finalizar(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	var req model.FinalizarLaudoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "dados inválidos: "+err.Error())
		return
	}

	l, err := h.service.Finalizar(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, l.Response())
}

func (h *Handler) Estatisticas(c *gin.Context) {
	stats, err := h.service.Estatisticas(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
