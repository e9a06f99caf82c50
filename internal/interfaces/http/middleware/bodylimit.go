package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/siniestros/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			abort(c, http.StatusRequestEntityTooLarge, dto.ErrCodeBodyTooLarge, "El cuerpo de la solicitud excede el tamaño permitido")
			return
		}

		// Chunked bodies are cut by the limited reader
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
