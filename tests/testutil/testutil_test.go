package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/siniestros/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockDB(t *testing.T) {
	mockDB := NewMockDB(t)

	assert.NotNil(t, mockDB.DB)
	assert.NotNil(t, mockDB.Mock)
	assert.NotNil(t, mockDB.SqlDB)

	mockDB.ExpectationsWereMet(t)
}

func TestNewTestContext(t *testing.T) {
	tc := NewTestContext(t)

	assert.NotNil(t, tc.Context)
	assert.NotNil(t, tc.Recorder)
	assert.NotNil(t, tc.Engine)
	assert.Equal(t, http.MethodGet, tc.Context.Request.Method)

	tc.Set("jwt_username", "ajustador1")
	tc.SetHeader("Idempotency-Key", "k-1")
	assert.Equal(t, "ajustador1", tc.Context.GetString("jwt_username"))
	assert.Equal(t, "k-1", tc.Context.Request.Header.Get("Idempotency-Key"))

	tc.Recorder.WriteHeader(http.StatusCreated)
	assert.Equal(t, http.StatusCreated, tc.ResponseCode())
}

func TestDec(t *testing.T) {
	assert.True(t, Dec(t, "1500.50").Equal(decimal.RequireFromString("1500.5")))
	RequireDecimal(t, "10", decimal.RequireFromString("10.00"))
}

func TestContextWithTimeout(t *testing.T) {
	ctx := ContextWithTimeout(t, 100*time.Millisecond)

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.True(t, deadline.After(time.Now()))
}

func TestRequireEventually(t *testing.T) {
	done := make(chan struct{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(done)
	}()

	RequireEventually(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestDoAndDecode(t *testing.T) {
	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]string
		_ = c.ShouldBindJSON(&body)
		body["auth"] = c.GetHeader("Authorization")
		c.JSON(http.StatusOK, dto.NewSuccessResponse(body))
	})
	engine.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusConflict, dto.NewErrorResponse("SINIESTRO_EN_PROCESO", "ocupado"))
	})

	w := Do(t, engine, Request{Method: http.MethodPost, Path: "/echo", Body: map[string]string{"a": "b"}, Token: "tok"})
	data := DecodeData[map[string]string](t, w, http.StatusOK)
	assert.Equal(t, "b", data["a"])
	assert.Equal(t, "Bearer tok", data["auth"])

	w = Do(t, engine, Request{Path: "/fail"})
	errInfo := AssertErrorResponse(t, w, http.StatusConflict, "SINIESTRO_EN_PROCESO")
	require.NotNil(t, errInfo)
	assert.Equal(t, "ocupado", errInfo.Message)
}
