package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/NatiqIskandarli/papercut-backend/internal/platform/apierr"
)

func performRequest(t *testing.T, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/test", handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRespondServiceErrorCarriesStatusAndCode(t *testing.T) {
	w := performRequest(t, func(c *gin.Context) {
		RespondServiceError(c, apierr.NotFound("record %s not found", "abc"))
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	var envelope ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, apierr.CodeNotFound, envelope.Error.Code)
	require.Contains(t, envelope.Error.Message, "record abc not found")
}

func TestRespondServiceErrorDefaultsToInternal(t *testing.T) {
	w := performRequest(t, func(c *gin.Context) {
		RespondServiceError(c, errors.New("boom"))
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var envelope ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "boom", envelope.Error.Message)
}

func TestRespondOK(t *testing.T) {
	w := performRequest(t, func(c *gin.Context) {
		RespondOK(c, gin.H{"ok": true})
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"ok": true}`, w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	w := performRequest(t, HealthCheck)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())
}
