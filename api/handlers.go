/*
handlers.go - HTTP handlers for meal lookups

PURPOSE:
  Translates GET requests into repository lookups and renders the result
  as JSON.

ENDPOINTS:
  GET /?date=YYYY-MM-DD       Single day
  GET /week?date=YYYY-MM-DD   13 days centred on date (date-6 .. date+6)

DATE PARAMETER:
  Missing date, or a query string that does not parse, means today in UTC.
  The default is trusted and not validated. A supplied date must match
  YYYY-MM-DD and must exist on the calendar; 2024-02-30 is rejected with
  400 on both endpoints.

ERROR HANDLING:
  400 Invalid date format   Malformed or impossible date
  404 Meal not found        No row for the single-day lookup
  500 Internal server error Store unreachable or query failed

  An empty week is 200 with [].

SEE ALSO:
  - dto.go: Response shapes
  - server.go: Routes and middleware
  - meal/date.go: Validation and week arithmetic
*/
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dimigomeal/dimigomeal-api/meal"
)

const (
	msgInvalidDate   = "Invalid date format"
	msgMealNotFound  = "Meal not found"
	msgMealsNotFound = "Meals not found"
	msgInternal      = "Internal server error"
)

const contentTypeJSON = "application/json; charset=utf-8"

// Pinger is implemented by repositories that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Meals  meal.Repository
	Logger *slog.Logger

	// Now is the clock used for the default date. Overridable in tests.
	Now func() time.Time
}

// NewHandler creates a new handler reading from repo.
func NewHandler(repo meal.Repository, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Meals:  repo,
		Logger: logger,
		Now:    time.Now,
	}
}

// =============================================================================
// MEAL HANDLERS
// =============================================================================

// GetMeal returns the meal plan for a single date.
func (h *Handler) GetMeal(w http.ResponseWriter, r *http.Request) {
	date, ok := h.resolveDate(w, r)
	if !ok {
		return
	}

	rec, err := h.Meals.FindByDate(r.Context(), date)
	if err != nil {
		if meal.IsNotFound(err) {
			recordLookup("day", outcomeNotFound)
			writeError(w, http.StatusNotFound, msgMealNotFound)
			return
		}
		recordLookup("day", outcomeError)
		h.Logger.Error("meal lookup failed",
			"requestID", RequestIDFrom(r.Context()),
			"date", date,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	recordLookup("day", outcomeFound)
	writeJSON(w, http.StatusOK, toMealDTO(*rec))
}

// GetWeek returns every meal plan in the 13-day window around a date.
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	date, ok := h.resolveDate(w, r)
	if !ok {
		return
	}

	start, end, err := meal.ComputeWeek(date)
	if err != nil {
		recordLookup("week", outcomeNotFound)
		writeError(w, http.StatusNotFound, msgMealsNotFound)
		return
	}

	records, err := h.Meals.FindByDateRange(r.Context(), start, end)
	if err != nil {
		recordLookup("week", outcomeError)
		h.Logger.Error("week lookup failed",
			"requestID", RequestIDFrom(r.Context()),
			"start", start,
			"end", end,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	if len(records) == 0 {
		recordLookup("week", outcomeEmpty)
	} else {
		recordLookup("week", outcomeFound)
	}
	writeJSON(w, http.StatusOK, toMealDTOs(records))
}

// resolveDate extracts the date parameter, falling back to today.
// It writes a 400 and returns false when a supplied date is invalid.
func (h *Handler) resolveDate(w http.ResponseWriter, r *http.Request) (string, bool) {
	date, supplied := dateParam(r.URL.RawQuery)
	if !supplied {
		return meal.Today(h.Now()), true
	}

	if !meal.ValidDate(date) {
		writeError(w, http.StatusBadRequest, msgInvalidDate)
		return "", false
	}
	if _, err := meal.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidDate)
		return "", false
	}
	return date, true
}

// dateParam returns the first date value and whether one was supplied.
// A query string that fails to parse counts as not supplied.
func dateParam(rawQuery string) (string, bool) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", false
	}
	dates, ok := values["date"]
	if !ok || len(dates) == 0 {
		return "", false
	}
	return dates[0], true
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Debug("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
