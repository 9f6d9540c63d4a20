package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("campo obrigatório")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidTransition("não permitido")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(SlotUnavailable("ocupado")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("laudo")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Unauthorized("token inválido")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Internal(fmt.Errorf("db down"))))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("plain")))
}

func TestHTTPStatusWrapped(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", NotFound("consulta"))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))
	assert.True(t, IsKind(wrapped, KindNotFound))
}

func TestMessageHidesInternalDetail(t *testing.T) {
	assert.Equal(t, "laudo não encontrado", Message(NotFound("laudo")))
	assert.Equal(t, "erro interno do servidor", Message(Internal(fmt.Errorf("password=hunter2"))))
	assert.Equal(t, "erro interno do servidor", Message(fmt.Errorf("raw sql error")))
}
