package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"growthGardenAPI/middleware"
	"growthGardenAPI/services"
)

// Report endpoints may wait on the AI model, so they get a longer budget
// than the CRUD handlers.
const reportTimeout = 25 * time.Second

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

func (h *ReportHandler) GetWeeklyReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), reportTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	rep, err := h.reportService.BuildCurrent(ctx, userID)
	if err != nil {
		log.Printf("GetWeeklyReport Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to build weekly report")
		return
	}
	// An empty week is not an error. The client renders the null body as
	// its "nothing to reflect on yet" state.
	if rep == nil {
		respondWithJSON(w, http.StatusOK, nil)
		return
	}

	respondWithJSON(w, http.StatusOK, rep)
}

func (h *ReportHandler) RegenerateInsights(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), reportTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	insights, err := h.reportService.RegenerateInsights(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrNoWeeklyData) {
			respondWithJSON(w, http.StatusOK, map[string]string{"message": "No reflection data available for this week"})
			return
		}
		log.Printf("RegenerateInsights Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to regenerate insights")
		return
	}

	respondWithJSON(w, http.StatusOK, insights)
}

func (h *ReportHandler) GetHistoricalReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), reportTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	weeks := 0
	if raw := r.URL.Query().Get("weeks"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 52 {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'weeks' must be between 1 and 52")
			return
		}
		weeks = n
	}

	reports, err := h.reportService.Historical(ctx, userID, weeks)
	if err != nil {
		log.Printf("GetHistoricalReports Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to build historical reports")
		return
	}

	respondWithJSON(w, http.StatusOK, reports)
}

func (h *ReportHandler) GetHistoricalWeek(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), reportTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	weekStart := mux.Vars(r)["weekStart"]

	rep, err := h.reportService.HistoricalWeek(ctx, userID, weekStart)
	if err != nil {
		if errors.Is(err, services.ErrNoWeeklyData) {
			respondWithError(w, http.StatusNotFound, "No reflection data for that week")
			return
		}
		respondWithError(w, http.StatusBadRequest, "Invalid week start, want YYYY-MM-DD")
		return
	}

	respondWithJSON(w, http.StatusOK, rep)
}
