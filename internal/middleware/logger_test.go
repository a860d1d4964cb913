package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)

	var buf bytes.Buffer

	logger := zerolog.New(&buf)

	server := gin.New()
	server.Use(RequestLogger(logger))
	server.GET("/ping", func(ctx *gin.Context) {
		zerolog.Ctx(ctx.Request.Context()).Info().Msg("inside")
		ctx.Status(http.StatusTeapot)
	})

	t.Run("GeneratesRequestID", func(t *testing.T) {
		buf.Reset()

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/ping", nil)

		server.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusTeapot, recorder.Code)

		requestID := recorder.Header().Get(RequestIDHeader)
		require.NotEmpty(t, requestID)

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 2)

		for _, line := range lines {
			var entry map[string]any
			require.NoError(t, json.Unmarshal(line, &entry))
			require.Equal(t, requestID, entry["request_id"])
		}

		var last map[string]any
		require.NoError(t, json.Unmarshal(lines[1], &last))
		require.Equal(t, float64(http.StatusTeapot), last["status_code"])
		require.Equal(t, "/ping", last["path"])
	})

	t.Run("KeepsRequestID", func(t *testing.T) {
		buf.Reset()

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/ping", nil)
		request.Header.Set(RequestIDHeader, "given-id")

		server.ServeHTTP(recorder, request)

		require.Equal(t, "given-id", recorder.Header().Get(RequestIDHeader))
		require.Contains(t, buf.String(), `"request_id":"given-id"`)
	})
}
