package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthGardenAPI/internal/goal"
	"growthGardenAPI/middleware"
	"growthGardenAPI/services"
	"growthGardenAPI/storage"
)

func newTestRouter(store storage.Store) *mux.Router {
	achievementService := services.NewAchievementService(store)
	gardenService := services.NewGardenService(store, achievementService)

	goalHandler := NewGoalHandler(gardenService)
	actionHandler := NewActionHandler(gardenService)

	r := mux.NewRouter()
	r.HandleFunc("/api/goals/check-health", goalHandler.CheckHealth).Methods("POST")
	r.HandleFunc("/api/goals", goalHandler.GetGoals).Methods("GET")
	r.HandleFunc("/api/goals", goalHandler.CreateGoal).Methods("POST")
	r.HandleFunc("/api/goals/{id:[0-9]+}", goalHandler.GetGoal).Methods("GET")
	r.HandleFunc("/api/goals/{id:[0-9]+}", goalHandler.DeleteGoal).Methods("DELETE")
	r.HandleFunc("/api/actions", actionHandler.CreateAction).Methods("POST")
	r.HandleFunc("/api/actions/{id:[0-9]+}/complete", actionHandler.CompleteAction).Methods("PUT")
	return r
}

// authed stamps the request context the way the auth middleware would.
func authed(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestCreateGoalRoundTrip(t *testing.T) {
	router := newTestRouter(storage.NewMemoryStore())

	body := []byte(`{"name": "Learn to juggle", "plantType": "sprout"}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/api/goals", bytes.NewReader(body)), "user_1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created goal.Goal
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "Learn to juggle", created.Name)
	assert.Equal(t, 1, created.CurrentLevel)
	assert.Equal(t, 100, created.MaxXP)
	assert.Equal(t, 3, created.TimelineMonths, "timeline defaults when omitted")

	req = authed(httptest.NewRequest(http.MethodGet, "/api/goals", nil), "user_1")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var goals []goal.Goal
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &goals))
	assert.Len(t, goals, 1)
}

func TestCreateGoalRejectsBadPlantType(t *testing.T) {
	router := newTestRouter(storage.NewMemoryStore())

	body := []byte(`{"name": "Bad", "plantType": "cactus"}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/api/goals", bytes.NewReader(body)), "user_1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp struct {
		Error   string `json:"error"`
		Details []struct {
			Field string `json:"field"`
			Rule  string `json:"rule"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Error)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "PlantType", resp.Details[0].Field)
	assert.Equal(t, "oneof", resp.Details[0].Rule)
}

func TestGetGoalNotFoundAndUnauthenticated(t *testing.T) {
	router := newTestRouter(storage.NewMemoryStore())

	req := authed(httptest.NewRequest(http.MethodGet, "/api/goals/42", nil), "user_1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// No user in context at all.
	req = httptest.NewRequest(http.MethodGet, "/api/goals", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCheckHealthRouteWinsOverGoalID(t *testing.T) {
	router := newTestRouter(storage.NewMemoryStore())

	req := authed(httptest.NewRequest(http.MethodPost, "/api/goals/check-health", nil), "user_1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, "check-health must not be parsed as a goal id")
	assert.JSONEq(t, `{"updatedGoals": []}`, rr.Body.String())
}

func TestCompleteActionConflictOnSecondCall(t *testing.T) {
	store := storage.NewMemoryStore()
	router := newTestRouter(store)

	body := []byte(`{"name": "Garden", "plantType": "flower"}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/api/goals", bytes.NewReader(body)), "user_1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	body = []byte(`{"goalId": 1, "title": "Plant seeds"}`)
	req = authed(httptest.NewRequest(http.MethodPost, "/api/actions", bytes.NewReader(body)), "user_1")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	req = authed(httptest.NewRequest(http.MethodPut, "/api/actions/1/complete", nil), "user_1")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = authed(httptest.NewRequest(http.MethodPut, "/api/actions/1/complete", nil), "user_1")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "already completed")
}
