// Package handler holds the pieces shared by all HTTP handlers.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/neuroexam/clinic-api/pkg/errors"
)

// Error writes the uniform error body. Internal failures never leak their
// detail to the client.
func Error(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.Message(err)})
}

// BadRequest writes a 400 with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// PathID parses the numeric :id path parameter (or another named one).
func PathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, "id inválido")
		return 0, false
	}
	return id, true
}
