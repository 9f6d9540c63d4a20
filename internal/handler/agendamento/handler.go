package agendamento

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neuroexam/clinic-api/internal/handler"
	"github.com/neuroexam/clinic-api/internal/model"
	"github.com/neuroexam/clinic-api/internal/service/agendamento"
)

type Handler struct {
	service *agendamento.Service
}

func NewHandler(service *agendamento.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	ags := r.Group("/agendamentos")
	{
		ags.POST("", h.Criar)
		ags.GET("", h.Listar)
		ags.GET("/estatisticas", h.Estatisticas)
		ags.GET("/:id", h.Get)
		ags.PUT("/:id", h.Atualizar)
		ags.PUT("/:id/checkin", h.Checkin)
		ags.PUT("/:id/precadastro", h.Precadastro)
		ags.DELETE("/:id", h.Cancelar)

		// aliases kept for older clients
		ags.POST("/:id/checkin", h.Checkin)
		ags.POST("/:id/cancelar", h.Cancelar)
		ags.POST("/:id/precadastro", h.Precadastro)
	}
}

func (h *Handler) Criar(c *gin.Context) {
	var req model.CriarAgendamentoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "dados inválidos: "+err.Error())
		return
	}

	ag, err := h.service.Criar(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, ag)
}

func (h *Handler) Listar(c *gin.Context) {
	filtros := &model.AgendamentoFiltros{
		Status:     c.Query("status"),
		TipoExame:  c.Query("tipo_exame"),
		DataInicio: c.Query("data_inicio"),
		DataFim:    c.Query("data_fim"),
	}

	ags, err := h.service.Listar(c.Request.Context(), filtros)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agendamentos": ags, "total": len(ags)})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	ag, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ag)
}

func (h *Handler) Atualizar(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	var req model.AtualizarAgendamentoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "dados inválidos: "+err.Error())
		return
	}

	ag, err := h.service.Atualizar(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ag)
}

func (h *Handler) Checkin(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	ag, err := h.service.Checkin(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ag)
}

func (h *Handler) Cancelar(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	ag, err := h.service.Cancelar(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ag)
}

func (h *Handler) Precadastro(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	var req model.PrecadastroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "dados inválidos: "+err.Error())
		return
	}

	ag, laudo, err := h.service.Precadastro(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"agendamento": ag,
		"laudo":       laudo.Response(),
	})
}

func (h *Handler) Estatisticas(c *gin.Context) {
	stats, err := h.service.Estatisticas(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
