package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/siniestros/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors dto.Response with the payload left raw for typed decoding.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *dto.ErrorInfo  `json:"error,omitempty"`
	Meta    *dto.Meta       `json:"meta,omitempty"`
}

// Request describes one call made through Do.
type Request struct {
	Method  string
	Path    string
	Body    any
	Token   string
	Headers map[string]string
}

// Do serves a request through handler and returns the recorder.
func Do(t *testing.T, handler http.Handler, r Request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if r.Body != nil {
		body = ToJSONReader(t, r.Body)
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	req := httptest.NewRequest(method, r.Path, body)
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// DecodeEnvelope parses the standard response envelope.
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to parse response: %s", w.Body.String())
	return env
}

// DecodeData asserts a successful response and decodes its data into T.
func DecodeData[T any](t *testing.T, w *httptest.ResponseRecorder, status int) T {
	t.Helper()

	require.Equal(t, status, w.Code, w.Body.String())
	env := DecodeEnvelope(t, w)
	require.True(t, env.Success, "Expected success to be true")

	var data T
	require.NoError(t, json.Unmarshal(env.Data, &data), "Failed to parse data: %s", string(env.Data))
	return data
}

// AssertErrorResponse asserts an error envelope with the given status and code.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, status int, code string) *dto.ErrorInfo {
	t.Helper()

	assert.Equal(t, status, w.Code, w.Body.String())
	env := DecodeEnvelope(t, w)
	assert.False(t, env.Success, "Expected success to be false")
	require.NotNil(t, env.Error, "Expected error object in response")
	assert.Equal(t, code, env.Error.Code, "Unexpected error code")
	return env.Error
}

// ToJSONReader converts a value to a JSON io.Reader.
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}
