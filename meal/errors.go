package meal

import "errors"

var (
	// ErrInvalidDate is returned when a string is not a real YYYY-MM-DD date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrMealNotFound is returned when no record exists for a date.
	ErrMealNotFound = errors.New("meal not found")

	// ErrStorage wraps connectivity and query failures from a Repository.
	ErrStorage = errors.New("storage error")
)

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMealNotFound)
}

// IsStorageError returns true if the error came from the underlying store.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}
