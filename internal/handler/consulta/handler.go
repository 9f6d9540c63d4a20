package consulta

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/neuroexam/clinic-api/internal/catalog"
	"github.com/neuroexam/clinic-api/internal/handler"
	"github.com/neuroexam/clinic-api/internal/model"
	"github.com/neuroexam/clinic-api/internal/service/consulta"
)

type Handler struct {
	service *consulta.Service
	catalog *catalog.Catalog
}

func NewHandler(service *consulta.Service, cat *catalog.Catalog) *Handler {
	return &Handler{service: service, catalog: cat}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	cs := r.Group("/consultas")
	{
		cs.POST("", h.Agendar)
		cs.GET("", h.ListarPorPeriodo)
		cs.GET("/horarios-disponiveis", h.HorariosDisponiveis)
		cs.GET("/estatisticas", h.Estatisticas)
		cs.GET("/tipos-exame", h.TiposExame)
		cs.GET("/especialidades", h.Especialidades)
		cs.GET("/status", h.StatusLabels)
		cs.GET("/pacientes", h.BuscarPacientes)
		cs.POST("/pacientes", h.RegistrarPaciente)
		cs.POST("/medicos", h.RegistrarMedico)
		cs.GET("/:id", h.Get)
		cs.PUT("/:id/status", h.AtualizarStatus)
		cs.POST("/:id/preparo", h.EnviarPreparo)
		cs.POST("/:id/resultado", h.RegistrarResultado)
		cs.DELETE("/:id", h.Cancelar)
	}
}

func (h *Handler) Agendar(c *gin.Context) {
	var req model.AgendarConsultaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "dados inválidos: "+err.Error())
		return
	}

	consulta, err := h.service.Agendar(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, consulta)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	consulta, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, consulta)
}

func (h *Handler) ListarPorPeriodo(c *gin.Context) {
	filtros := &model.ConsultaFiltros{
		DataInicio: c.Query("data_inicio"),
		DataFim:    c.Query("data_fim"),
		TipoExame:  c.Query("tipo_exame"),
		Status:     c.Query("status"),
	}

	consultas, err := h.service.ListarPorPeriodo(c.Request.Context(), filtros)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultas": consultas, "total": len(consultas)})
}

func (h *Handler) HorariosDisponiveis(c *gin.Context) {
	data := c.Query("data")
	tipoExame := c.Query("tipo_exame")
	if data == "" || tipoExame == "" {
		handler.BadRequest(c, "data e tipo_exame são obrigatórios")
		return
	}

	var medicoID *int64
	if raw := c.Query("medico_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			handler.BadRequest(c, "medico_id inválido")
			return
		}
		medicoID = &id
	}

	slots, err := h.service.HorariosDisponiveis(c.Request.Context(), data, tipoExame, medicoID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":       data,
		"tipo_exame": tipoExame,
		"horarios":   slots,
	})
}

func (h *Handler) AtualizarStatus(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	var req model.AtualizarStatusConsultaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "dados inválidos: "+err.Error())
		return
	}

	consulta, err := h.service.AtualizarStatus(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, consulta)
}

func (h *Handler) RegistrarResultado(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	var req model.RegistrarResultadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "dados inválidos: "+err.Error())
		return
	}

	res, err := h.service.RegistrarResultado(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Estatisticas(c *gin.Context) {
	stats, err := h.service.Estatisticas(c.Request.Context(), c.Query("data_inicio"), c.Query("data_fim"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) TiposExame(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tipos_exame": h.catalog.ExamTypes()})
}

func (h *Handler) Especialidades(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"especialidades": h.catalog.Specialties()})
}

func (h *Handler) StatusLabels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": h.catalog.ConsultaStatusLabels()})
}

func (h *Handler) Cancelar(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	consulta, err := h.service.Cancelar(c.Request.Context(), id, c.Query("motivo"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, consulta)
}

func (h *Handler) EnviarPreparo(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	consulta, err := h.service.EnviarPreparo(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, consulta)
}

func (h *Handler) RegistrarPaciente(c *gin.Context) {
	var req model.RegistrarPacienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "dados inválidos: "+err.Error())
		return
	}

	p, err := h.service.RegistrarPaciente(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) BuscarPacientes(c *gin.Context) {
	limite, _ := strconv.Atoi(c.DefaultQuery("limite", "20"))
	pacientes, err := h.service.BuscarPacientes(c.Request.Context(), c.Query("q"), limite)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pacientes": pacientes, "total": len(pacientes)})
}

func (h *Handler) RegistrarMedico(c *gin.Context) {
	var req model.RegistrarMedicoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "dados inválidos: "+err.Error())
		return
	}

	m, err := h.service.RegistrarMedico(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}
