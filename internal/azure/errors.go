package azure

import (
	"errors"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"azmcp/internal/toolkit"
)

// classifiedError tags an Azure SDK error with one of the toolkit sentinels
// without altering its message: errors.Is(err, sentinel) holds, while
// err.Error() still returns the original SDK text so the envelope preserves
// it verbatim.
type classifiedError struct {
	sentinel error
	err      error
}

func (e *classifiedError) Error() string { return e.err.Error() }

func (e *classifiedError) Unwrap() error { return e.err }

func (e *classifiedError) Is(target error) bool { return target == e.sentinel }

// NormalizeError maps an Azure service failure onto the toolkit failure
// vocabulary by HTTP status: 404 → [toolkit.ErrNotFound], 409 →
// [toolkit.ErrAlreadyExists], any other service response →
// [toolkit.StoreError]. Errors that are not service responses (transport
// failures, context cancellation, marshalling bugs) pass through unchanged
// and land in the catch-all category.
func NormalizeError(err error) error {
	if err == nil {
		return nil
	}
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return err
	}
	switch respErr.StatusCode {
	case http.StatusNotFound:
		return &classifiedError{sentinel: toolkit.ErrNotFound, err: err}
	case http.StatusConflict:
		return &classifiedError{sentinel: toolkit.ErrAlreadyExists, err: err}
	default:
		return &toolkit.StoreError{Err: err}
	}
}
