package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/siniestros/backend/internal/domain/claims"
	"github.com/siniestros/backend/internal/interfaces/http/dto"
	"github.com/siniestros/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "wrapped domain error keeps its code",
			err:         fmt.Errorf("load claim: %w", claims.ErrClaimNotFound),
			wantStatus:  http.StatusNotFound,
			wantCode:    "SINIESTRO_NO_ENCONTRADO",
			wantMessage: claims.ErrClaimNotFound.Message,
		},
		{
			name:        "business rule",
			err:         claims.ErrLucExceeded,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "LUC_EXCEDIDO",
			wantMessage: claims.ErrLucExceeded.Message,
		},
		{
			name:        "unknown error is hidden",
			err:         errors.New("pq: relation \"reserva\" does not exist"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    dto.ErrCodeInternal,
			wantMessage: dto.InternalErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			router := gin.New()
			router.Use(middleware.RequestID())
			router.GET("/x", func(c *gin.Context) { h.HandleError(c, tt.err) })

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header.Set(middleware.RequestIDHeader, "req-123")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
			assert.Equal(t, "req-123", resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleError_Nil(t *testing.T) {
	h := &BaseHandler{}
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.HandleError(c, nil)

	assert.Empty(t, rec.Body.String())
	assert.Empty(t, c.Errors)
}
