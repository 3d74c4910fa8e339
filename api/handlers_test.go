/*
handlers_test.go - Tests for the meal endpoints

Covers:
- Single-day lookups: found, missing, malformed and impossible dates
- Default-to-today behaviour
- Week window contents, ordering and the empty case
- Storage failures surfacing as 500
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimigomeal/dimigomeal-api/meal"
	"github.com/dimigomeal/dimigomeal-api/meal/store"
)

// fixedNow is 2024-01-15 in UTC but still 2024-01-14 in US time zones.
var fixedNow = time.Date(2024, time.January, 15, 3, 0, 0, 0, time.UTC)

func setupTestRouter(t *testing.T, repo meal.Repository) http.Handler {
	t.Helper()
	h := NewHandler(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.Now = func() time.Time { return fixedNow }
	return NewRouter(h, RouterOptions{})
}

func doGet(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func assertJSON(t *testing.T, rec *httptest.ResponseRecorder, status int, body string) {
	t.Helper()
	assert.Equal(t, status, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, body, rec.Body.String())
}

func jan15() meal.Record {
	return meal.Record{
		SequenceID: 10,
		MealID:     99,
		Date:       "2024-01-15",
		Breakfast:  "rice porridge",
		Lunch:      "bulgogi",
		Dinner:     "doenjang jjigae",
	}
}

// =============================================================================
// SINGLE DAY
// =============================================================================

func TestGetMeal_Found(t *testing.T) {
	// GIVEN: A store with a row for 2024-01-15
	router := setupTestRouter(t, store.NewMemory(jan15()))

	// WHEN: Requesting that date
	rec := doGet(t, router, "/?date=2024-01-15")

	// THEN: Exactly the four public fields come back
	assertJSON(t, rec, http.StatusOK,
		`{"date":"2024-01-15","breakfast":"rice porridge","lunch":"bulgogi","dinner":"doenjang jjigae"}`)
	assert.NotContains(t, rec.Body.String(), "99", "storage ids must not leak")
}

func TestGetMeal_NotFound(t *testing.T) {
	router := setupTestRouter(t, store.NewMemory())

	rec := doGet(t, router, "/?date=2024-01-15")

	assertJSON(t, rec, http.StatusNotFound, `{"error":"Meal not found"}`)
}

func TestGetMeal_InvalidFormat(t *testing.T) {
	router := setupTestRouter(t, store.NewMemory(jan15()))

	for _, target := range []string{
		"/?date=not-a-date",
		"/?date=",
		"/?date=2024-1-15",
		"/?date=2024-13-01",
		"/?date=2024-01-15T00:00:00Z",
	} {
		t.Run(target, func(t *testing.T) {
			rec := doGet(t, router, target)
			assertJSON(t, rec, http.StatusBadRequest, `{"error":"Invalid date format"}`)
		})
	}
}

func TestGetMeal_ImpossibleCalendarDate(t *testing.T) {
	// 2024-02-30 passes the shape check but does not exist.
	router := setupTestRouter(t, store.NewMemory(meal.Record{Date: "2024-02-30"}))

	rec := doGet(t, router, "/?date=2024-02-30")

	assertJSON(t, rec, http.StatusBadRequest, `{"error":"Invalid date format"}`)
}

func TestGetMeal_DefaultsToToday(t *testing.T) {
	router := setupTestRouter(t, store.NewMemory(jan15()))

	explicit := doGet(t, router, "/?date=2024-01-15")
	for _, target := range []string{"/", "/?other=1", "/?date=%zz"} {
		t.Run(target, func(t *testing.T) {
			rec := doGet(t, router, target)
			assert.Equal(t, explicit.Code, rec.Code)
			assert.JSONEq(t, explicit.Body.String(), rec.Body.String())
		})
	}
}

func TestGetMeal_FirstDateWins(t *testing.T) {
	router := setupTestRouter(t, store.NewMemory(jan15()))

	rec := doGet(t, router, "/?date=2024-01-15&date=bogus")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetMeal_StorageError(t *testing.T) {
	// GIVEN: A store that fails every query
	repo := store.NewMemory(jan15())
	repo.FailWith(errors.New("database is locked"))
	router := setupTestRouter(t, repo)

	// WHEN: Requesting a date that would otherwise exist
	rec := doGet(t, router, "/?date=2024-01-15")

	// THEN: 500, distinct from a missing meal, with no internals leaked
	assertJSON(t, rec, http.StatusInternalServerError, `{"error":"Internal server error"}`)
	assert.NotContains(t, rec.Body.String(), "locked")
}

// =============================================================================
// WEEK
// =============================================================================

func decodeWeek(t *testing.T, rec *httptest.ResponseRecorder) []MealDTO {
	t.Helper()
	var got []MealDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func TestGetWeek_ReturnsWindowAscending(t *testing.T) {
	// GIVEN: Three rows inside 2024-06-09..2024-06-21 and two just outside
	repo := store.NewMemory(
		meal.Record{Date: "2024-06-21", Lunch: "c"},
		meal.Record{Date: "2024-06-08", Lunch: "outside"},
		meal.Record{Date: "2024-06-09", Lunch: "a"},
		meal.Record{Date: "2024-06-22", Lunch: "outside"},
		meal.Record{Date: "2024-06-15", Lunch: "b"},
	)
	router := setupTestRouter(t, repo)

	// WHEN: Requesting the week around 2024-06-15
	rec := doGet(t, router, "/week?date=2024-06-15")

	// THEN: Exactly the in-window rows, ascending
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, []MealDTO{
		{Date: "2024-06-09", Lunch: "a"},
		{Date: "2024-06-15", Lunch: "b"},
		{Date: "2024-06-21", Lunch: "c"},
	}, decodeWeek(t, rec))
}

func TestGetWeek_EmptyIsOK(t *testing.T) {
	router := setupTestRouter(t, store.NewMemory())

	rec := doGet(t, router, "/week?date=2024-06-15")

	assertJSON(t, rec, http.StatusOK, `[]`)
}

func TestGetWeek_InvalidDate(t *testing.T) {
	router := setupTestRouter(t, store.NewMemory())

	for _, target := range []string{"/week?date=not-a-date", "/week?date=2024-02-30", "/week?date="} {
		t.Run(target, func(t *testing.T) {
			rec := doGet(t, router, target)
			assertJSON(t, rec, http.StatusBadRequest, `{"error":"Invalid date format"}`)
		})
	}
}

func TestGetWeek_DefaultsToToday(t *testing.T) {
	// fixedNow is 2024-01-15, so the window is 2024-01-09..2024-01-21
	repo := store.NewMemory(
		meal.Record{Date: "2024-01-08"},
		meal.Record{Date: "2024-01-09"},
		jan15(),
		meal.Record{Date: "2024-01-21"},
		meal.Record{Date: "2024-01-22"},
	)
	router := setupTestRouter(t, repo)

	rec := doGet(t, router, "/week")

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeWeek(t, rec)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-01-09", got[0].Date)
	assert.Equal(t, "2024-01-15", got[1].Date)
	assert.Equal(t, "2024-01-21", got[2].Date)

	explicit := doGet(t, router, "/week?date=2024-01-15")
	assert.JSONEq(t, explicit.Body.String(), rec.Body.String())
}

func TestGetWeek_StorageError(t *testing.T) {
	repo := store.NewMemory()
	repo.FailWith(errors.New("disk I/O error"))
	router := setupTestRouter(t, repo)

	rec := doGet(t, router, "/week?date=2024-06-15")

	assertJSON(t, rec, http.StatusInternalServerError, `{"error":"Internal server error"}`)
}

// =============================================================================
// ROUTING
// =============================================================================

func TestUnknownRoute(t *testing.T) {
	router := setupTestRouter(t, store.NewMemory())

	rec := doGet(t, router, "/month")

	assertJSON(t, rec, http.StatusNotFound, `{"error":"Not found"}`)
}

func TestMethodNotAllowed(t *testing.T) {
	router := setupTestRouter(t, store.NewMemory())

	req := httptest.NewRequest(http.MethodPost, "/?date=2024-01-15", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assertJSON(t, rec, http.StatusMethodNotAllowed, `{"error":"Method not allowed"}`)
}

func TestDateParam(t *testing.T) {
	tests := []struct {
		raw      string
		want     string
		supplied bool
	}{
		{"", "", false},
		{"foo=bar", "", false},
		{"date=2024-01-15", "2024-01-15", true},
		{"date=", "", true},
		{"date=2024-01-15&date=2024-01-16", "2024-01-15", true},
		{"date=%zz", "", false},
		{"date=a;b", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, supplied := dateParam(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.supplied, supplied)
		})
	}
}
