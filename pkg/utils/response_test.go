package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, http.StatusBadRequest, "bad")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.JSONEq(t, `{"error":"bad"}`, rr.Body.String())
}

func TestRespondText(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondText(rr, http.StatusOK, "Hi there")
	require.Equal(t, "Hi there", rr.Body.String())
	require.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
}
