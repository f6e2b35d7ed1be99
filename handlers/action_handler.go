package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"growthGardenAPI/internal/action"
	"growthGardenAPI/middleware"
	"growthGardenAPI/services"
	"growthGardenAPI/storage"
)

type ActionHandler struct {
	gardenService *services.GardenService
}

func NewActionHandler(gardenService *services.GardenService) *ActionHandler {
	return &ActionHandler{
		gardenService: gardenService,
	}
}

func (h *ActionHandler) GetActions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	// Optional ?goalId= filter.
	if raw := r.URL.Query().Get("goalId"); raw != "" {
		goalID, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid goalId")
			return
		}
		actions, err := h.gardenService.ListActionsByGoal(ctx, userID, goalID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch actions")
			return
		}
		respondWithJSON(w, http.StatusOK, actions)
		return
	}

	actions, err := h.gardenService.ListActions(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch actions")
		return
	}

	respondWithJSON(w, http.StatusOK, actions)
}

// GetActionsByGoal lists a single goal's actions via the nested route.
func (h *ActionHandler) GetActionsByGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	goalID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid goal id")
		return
	}

	actions, err := h.gardenService.ListActionsByGoal(ctx, userID, goalID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch actions")
		return
	}

	respondWithJSON(w, http.StatusOK, actions)
}

func (h *ActionHandler) CreateAction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req action.CreateActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondWithValidationError(w, err)
		return
	}

	created, err := h.gardenService.CreateAction(ctx, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Goal not found")
		case errors.Is(err, services.ErrInvalidDueDate):
			respondWithError(w, http.StatusBadRequest, "Invalid due date format")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to create action")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *ActionHandler) CompleteAction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid action id")
		return
	}

	completed, err := h.gardenService.CompleteAction(ctx, userID, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Action not found")
		case errors.Is(err, services.ErrActionCompleted):
			respondWithError(w, http.StatusConflict, "Action already completed")
		default:
			log.Printf("CompleteAction Handler: Service error: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to complete action")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, completed)
}

func (h *ActionHandler) SaveReflection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid action id")
		return
	}

	var req action.ReflectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondWithValidationError(w, err)
		return
	}

	updated, err := h.gardenService.SaveReflection(ctx, userID, id, &req)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Action not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to save reflection")
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *ActionHandler) DeleteAction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid action id")
		return
	}

	if err := h.gardenService.DeleteAction(ctx, userID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Action not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete action")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Action deleted successfully"})
}
