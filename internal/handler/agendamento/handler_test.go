package agendamento

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuroexam/clinic-api/internal/catalog"
	"github.com/neuroexam/clinic-api/internal/model"
	agendamentoS "github.com/neuroexam/clinic-api/internal/service/agendamento"
)

type mockRepo struct {
	createFn      func(ctx context.Context, ag *model.Agendamento) error
	getFn         func(ctx context.Context, id int64) (*model.Agendamento, error)
	listFn        func(ctx context.Context, f *model.AgendamentoFiltros) ([]*model.Agendamento, error)
	updateFn      func(ctx context.Context, ag *model.Agendamento) error
	precadastroFn func(ctx context.Context, ag *model.Agendamento, laudo *model.Laudo) error
	statsFn       func(ctx context.Context) (*model.AgendamentoEstatisticas, error)
}

func (m *mockRepo) Create(ctx context.Context, ag *model.Agendamento) error {
	return m.createFn(ctx, ag)
}

func (m *mockRepo) Get(ctx context.Context, id int64) (*model.Agendamento, error) {
	return m.getFn(ctx, id)
}

func (m *mockRepo) List(ctx context.Context, f *model.AgendamentoFiltros) ([]*model.Agendamento, error) {
	return m.listFn(ctx, f)
}

func (m *mockRepo) Update(ctx context.Context, ag *model.Agendamento) error {
	return m.updateFn(ctx, ag)
}

func (m *mockRepo) Precadastro(ctx context.Context, ag *model.Agendamento, laudo *model.Laudo) error {
	return m.precadastroFn(ctx, ag, laudo)
}

func (m *mockRepo) Estatisticas(ctx context.Context) (*model.AgendamentoEstatisticas, error) {
	return m.statsFn(ctx)
}

func setupRouter(repo *mockRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(agendamentoS.NewService(repo, catalog.Default()))
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func agendamentoCom(status model.AgendamentoStatus) *model.Agendamento {
	return &model.Agendamento{
		ID:              1,
		NomePaciente:    "Ana Lima",
		Telefone:        "11999990000",
		TipoExame:       "eeg_sono",
		DataAgendamento: time.Date(2026, 10, 1, 9, 0, 0, 0, time.Local),
		Status:          status,
	}
}

func TestCheckinViaPut(t *testing.T) {
	repo := &mockRepo{
		getFn: func(ctx context.Context, id int64) (*model.Agendamento, error) {
			return agendamentoCom(model.AgendamentoStatusAgendado), nil
		},
		updateFn: func(ctx context.Context, ag *model.Agendamento) error { return nil },
	}
	r := setupRouter(repo)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/agendamentos/1/checkin", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "compareceu", resp["status"])
}

func TestCancelarViaDelete(t *testing.T) {
	repo := &mockRepo{
		getFn: func(ctx context.Context, id int64) (*model.Agendamento, error) {
			return agendamentoCom(model.AgendamentoStatusAgendado), nil
		},
		updateFn: func(ctx context.Context, ag *model.Agendamento) error { return nil },
	}
	r := setupRouter(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/agendamentos/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cancelado", resp["status"])
}

func TestPrecadastroViaPut(t *testing.T) {
	repo := &mockRepo{
		getFn: func(ctx context.Context, id int64) (*model.Agendamento, error) {
			return agendamentoCom(model.AgendamentoStatusCompareceu), nil
		},
		precadastroFn: func(ctx context.Context, ag *model.Agendamento, laudo *model.Laudo) error {
			laudo.ID = 7
			laudo.NumeroControle = "2026/0001"
			return nil
		},
	}
	r := setupRouter(repo)

	body, _ := json.Marshal(map[string]interface{}{
		"data_nascimento": "1990-05-20",
		"sexo":            "F",
		"indicacao":       "crises convulsivas",
		"medico_nome":     "Dr. Pereira",
		"medico_crm":      "12345",
	})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/agendamentos/1/precadastro", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Agendamento map[string]interface{} `json:"agendamento"`
		Laudo       map[string]interface{} `json:"laudo"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pronto_exame", resp.Agendamento["status"])
	assert.Equal(t, "2026/0001", resp.Laudo["numero_controle"])
}

func TestCheckinViaPostAlias(t *testing.T) {
	repo := &mockRepo{
		getFn: func(ctx context.Context, id int64) (*model.Agendamento, error) {
			return agendamentoCom(model.AgendamentoStatusAgendado), nil
		},
		updateFn: func(ctx context.Context, ag *model.Agendamento) error { return nil },
	}
	r := setupRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/agendamentos/1/checkin", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
