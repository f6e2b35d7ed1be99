package handlers

import (
	"net/http"
	"time"

	"growthGardenAPI/storage"
)

// SystemHandler serves the unauthenticated operational endpoints.
type SystemHandler struct {
	store storage.Store
}

func NewSystemHandler(store storage.Store) *SystemHandler {
	return &SystemHandler{store: store}
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// StorageStatus tells clients whether their data survives a restart.
func (h *SystemHandler) StorageStatus(w http.ResponseWriter, r *http.Request) {
	mode := "memory"
	message := "Data is stored in memory and will be lost on restart"
	if h.store.Persistent() {
		mode = "database"
		message = "Data is persisted to PostgreSQL"
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"mode":       mode,
		"persistent": h.store.Persistent(),
		"message":    message,
	})
}
