package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthGardenAPI/internal/habit"
	"growthGardenAPI/services"
	"growthGardenAPI/storage"
)

func newHabitRouter(store storage.Store) *mux.Router {
	habitHandler := NewHabitHandler(services.NewHabitService(store))

	r := mux.NewRouter()
	r.HandleFunc("/api/daily-habits", habitHandler.GetHabitsRange).Methods("GET")
	r.HandleFunc("/api/daily-habits", habitHandler.UpsertHabit).Methods("POST")
	r.HandleFunc("/api/daily-habits/{date}", habitHandler.GetHabitByDate).Methods("GET")
	r.HandleFunc("/api/daily-habits/{date}", habitHandler.UpdateHabit).Methods("PUT")
	return r
}

func TestHabitRangeRequiresParams(t *testing.T) {
	router := newHabitRouter(storage.NewMemoryStore())

	req := authed(httptest.NewRequest(http.MethodGet, "/api/daily-habits", nil), "user_1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "startDate")
}

func TestHabitRangeEmptyIsEmptyArray(t *testing.T) {
	router := newHabitRouter(storage.NewMemoryStore())

	req := authed(httptest.NewRequest(http.MethodGet, "/api/daily-habits?startDate=2025-01-01&endDate=2025-01-31", nil), "user_1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String(), "empty range serializes as [], never null")
}

func TestHabitUpsertAndFetch(t *testing.T) {
	router := newHabitRouter(storage.NewMemoryStore())

	body := []byte(`{"date": "2025-02-14", "eatHealthy": true, "exercise": true, "sleepBefore11pm": false}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/api/daily-habits", bytes.NewReader(body)), "user_1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	req = authed(httptest.NewRequest(http.MethodGet, "/api/daily-habits/2025-02-14", nil), "user_1")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var fetched habit.DailyHabit
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fetched))
	assert.True(t, fetched.EatHealthy)
	assert.True(t, fetched.Exercise)
	assert.False(t, fetched.SleepBefore11PM)

	// Another user sees nothing on that date.
	req = authed(httptest.NewRequest(http.MethodGet, "/api/daily-habits/2025-02-14", nil), "user_2")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHabitRejectsBadDate(t *testing.T) {
	router := newHabitRouter(storage.NewMemoryStore())

	body := []byte(`{"date": "Feb 14", "exercise": true}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/api/daily-habits", bytes.NewReader(body)), "user_1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
