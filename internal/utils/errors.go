package utils

import (
	"errors"
	"net/http"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
)

/*
   Sentinel errors for the request-workflow domain logic.
   The controller can do: if errors.Is(err, ErrXYZ) { ... }
*/
var (
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrAlreadyInState    = errors.New("already_in_state")
	ErrNotRequestOwner   = errors.New("not_request_owner")

	ErrPaymentNotPending   = errors.New("payment_not_pending")
	ErrPaymentNotConfirmed = errors.New("payment_not_confirmed")
	ErrActivePaymentExists = errors.New("active_payment_exists")
	ErrNoActivePayment     = errors.New("no_active_payment")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")
	ErrNoRowsUpdated      = errors.New("no_rows_updated")
)

/*
   RowVersionConflictError is returned when there's a concurrency mismatch.
   It includes the "latest" EmployerRequest so the controller can return it
   to the client if desired.
*/
type RowVersionConflictError struct {
	Current *models.EmployerRequest
}

func (e *RowVersionConflictError) Error() string {
	return "row_version_conflict"
}

func NewRowVersionConflictError(current *models.EmployerRequest) error {
	return &RowVersionConflictError{Current: current}
}

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Details    any
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Details, appErr.Err)
	} else {
		// Fallback for unexpected error types
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
