package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthGardenAPI/storage"
)

func TestHealthEndpoint(t *testing.T) {
	h := NewSystemHandler(storage.NewMemoryStore())

	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
}

func TestStorageStatusReportsMemoryMode(t *testing.T) {
	h := NewSystemHandler(storage.NewMemoryStore())

	rr := httptest.NewRecorder()
	h.StorageStatus(rr, httptest.NewRequest(http.MethodGet, "/api/storage-status", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var out struct {
		Mode       string `json:"mode"`
		Persistent bool   `json:"persistent"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "memory", out.Mode)
	assert.False(t, out.Persistent)
}
