/*
dto.go - JSON shapes returned by the API

PURPOSE:
  Decouples the storage row (meal.Record) from the wire format. Storage
  identifiers (sequenceId, mealId) never leave the server.

TYPES:
  MealDTO:       {"date", "breakfast", "lunch", "dinner"}
  ErrorResponse: {"error": "<message>"}
  HealthDTO:     {"status": "ok"}

SEE ALSO:
  - handlers.go: Uses these types
  - meal/types.go: meal.Record
*/
package api

import "github.com/dimigomeal/dimigomeal-api/meal"

// MealDTO represents one day's meal plan in API responses.
type MealDTO struct {
	Date      string `json:"date"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthDTO is returned by the health endpoints.
type HealthDTO struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func toMealDTO(r meal.Record) MealDTO {
	return MealDTO{
		Date:      r.Date,
		Breakfast: r.Breakfast,
		Lunch:     r.Lunch,
		Dinner:    r.Dinner,
	}
}

// toMealDTOs never returns nil so an empty week encodes as [].
func toMealDTOs(records []meal.Record) []MealDTO {
	dtos := make([]MealDTO, len(records))
	for i, r := range records {
		dtos[i] = toMealDTO(r)
	}
	return dtos
}
