package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"growthGardenAPI/internal/achievement"
	"growthGardenAPI/middleware"
	"growthGardenAPI/services"
)

type AchievementHandler struct {
	achievementService *services.AchievementService
}

func NewAchievementHandler(achievementService *services.AchievementService) *AchievementHandler {
	return &AchievementHandler{
		achievementService: achievementService,
	}
}

func (h *AchievementHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	achievements, err := h.achievementService.List(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch achievements")
		return
	}

	respondWithJSON(w, http.StatusOK, achievements)
}

// CheckAchievements runs the evaluator on demand and returns whatever it
// newly unlocked.
func (h *AchievementHandler) CheckAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	unlocked, err := h.achievementService.Evaluate(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to check achievements")
		return
	}

	respondWithJSON(w, http.StatusOK, unlocked)
}

func (h *AchievementHandler) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req achievement.CreateAchievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondWithValidationError(w, err)
		return
	}

	created, err := h.achievementService.Create(ctx, userID, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create achievement")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}
