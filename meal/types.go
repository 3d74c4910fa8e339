/*
Package meal holds the domain model for the meal-plan API.

PURPOSE:
  A Record is one day's meal plan (breakfast/lunch/dinner text) keyed by a
  calendar date in YYYY-MM-DD form. Records are created outside this
  service; everything here is read-only.

KEY TYPES:
  Record:     One row of the meals table
  Window:     Inclusive date range used by the week endpoint
  Repository: Read interface implemented by store/sqlite and meal/store

DATES:
  Dates travel as strings. YYYY-MM-DD sorts lexicographically in calendar
  order, so range queries compare plain strings. See date.go.

SEE ALSO:
  - date.go: Validation and week window arithmetic
  - errors.go: Sentinel errors
  - store/sqlite/sqlite.go: Production Repository
*/
package meal

import "context"

// Record is a single day's meal plan.
type Record struct {
	SequenceID int64 // storage-assigned row id
	MealID     int64
	Date       string // YYYY-MM-DD
	Breakfast  string
	Lunch      string
	Dinner     string
}

// Repository reads meal records from a store.
//
// Implementations must be safe for concurrent use.
type Repository interface {
	// FindByDate returns the record for an exact date.
	// Returns ErrMealNotFound if no row matches.
	FindByDate(ctx context.Context, date string) (*Record, error)

	// FindByDateRange returns every record with start <= date <= end,
	// ascending by date. An empty result is not an error.
	FindByDateRange(ctx context.Context, start, end string) ([]Record, error)
}
