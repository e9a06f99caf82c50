package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeBodyTooLarge, http.StatusRequestEntityTooLarge},
		{"NOT_FOUND", http.StatusNotFound},
		{"SINIESTRO_NO_ENCONTRADO", http.StatusNotFound},
		{"RESERVA_NO_ENCONTRADA", http.StatusNotFound},
		{"MOVIMIENTO_NO_ENCONTRADO", http.StatusNotFound},
		{"SOLICITUD_DUPLICADA", http.StatusConflict},
		{"SINIESTRO_EN_PROCESO", http.StatusConflict},
		{"BD_REGISTRO_BLOQUEADO", http.StatusConflict},
		{"CREDENCIALES_INVALIDAS", http.StatusUnauthorized},
		{"USUARIO_BLOQUEADO", http.StatusUnauthorized},
		{"TOKEN_EXPIRADO", http.StatusUnauthorized},
		{"TOKEN_REVOCADO", http.StatusUnauthorized},
		{"AJUSTE_EXCEDE_SUMA", http.StatusBadRequest},
		{"LUC_EXCEDIDO", http.StatusBadRequest},
		{"RESERVA_DUPLICADA", http.StatusBadRequest},
		{"SINIESTRO_NO_ABIERTO", http.StatusBadRequest},
		{"BD_SIN_CONEXION", http.StatusServiceUnavailable},
		{"CUENTAS_NO_DEFINIDAS", http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestIsServerError(t *testing.T) {
	assert.True(t, IsServerError(ErrCodeInternal))
	assert.True(t, IsServerError("BD_ERROR"))
	assert.False(t, IsServerError("AJUSTE_NEGATIVO"))
	assert.False(t, IsServerError("SINIESTRO_NO_ENCONTRADO"))
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, 45, 2, 20)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	empty := NewSuccessResponseWithMeta(nil, 0, 1, 0)
	assert.Equal(t, 0, empty.Meta.TotalPages)
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID("LUC_EXCEDIDO", "excede", "req-1", map[string]any{"cod_luc": "L1"})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")

	errObj := decoded["error"].(map[string]any)
	assert.Equal(t, "LUC_EXCEDIDO", errObj["code"])
	assert.Equal(t, "req-1", errObj["request_id"])
	assert.Equal(t, "L1", errObj["details"].(map[string]any)["cod_luc"])
	assert.NotContains(t, errObj, "fields")
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Datos inválidos", "", []FieldError{{Field: "nuevo_monto", Message: "Campo obligatorio"}})

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Fields, 1)
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(resp.Error.Code))
}
