package toolkit

import "errors"

// Sentinel errors handlers use to signal the two specific store failure
// kinds. Store packages wrap the underlying SDK error with %w so the
// original message survives into the envelope.
var (
	// ErrNotFound marks a failure caused by the target entity not existing.
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists marks a create-if-absent conflict.
	ErrAlreadyExists = errors.New("resource already exists")
)

// StoreError wraps any other classified failure from the backing store, i.e.
// the store answered but with an error that is neither a not-found nor an
// already-exists condition.
type StoreError struct {
	Err error
}

// Error returns the message of the wrapped error.
func (e *StoreError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error for errors.Is / errors.As chains.
func (e *StoreError) Unwrap() error { return e.Err }

// Classify assigns err to a failure category. The checks run in specificity
// order: the two specific kinds first, then the generic store error, then
// the catch-all. An error that would match several categories therefore gets
// the most specific one.
func Classify(err error) Category {
	switch {
	case errors.Is(err, ErrNotFound):
		return CategoryResourceNotFound
	case errors.Is(err, ErrAlreadyExists):
		return CategoryResourceAlreadyExists
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return CategoryStoreError
	}
	return CategoryUnexpectedError
}

// failureMessage formats the envelope message for a classified handler
// error. The prefixes match the messages the service has always returned.
func failureMessage(category Category, err error) string {
	switch category {
	case CategoryResourceNotFound:
		return "Resource not found: " + err.Error()
	case CategoryResourceAlreadyExists:
		return "Resource already exists: " + err.Error()
	case CategoryStoreError:
		return "Store error: " + err.Error()
	default:
		return "Unexpected error: " + err.Error()
	}
}
