package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a state conflict, e.g. an offer is already active (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Location acquisition and reporting.
var (
	// ErrServicesDisabled means device location services are switched off.
	ErrServicesDisabled = errors.New("location services disabled")
	// ErrPermissionDenied means the foreground location permission is not granted.
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrLocationUnavailable means every live tier failed and no cached position exists.
	ErrLocationUnavailable = errors.New("location unavailable")
	// ErrReportFailed wraps a transport or server error while delivering a sample.
	ErrReportFailed = errors.New("location report failed")
)

// ErrAcceptanceNotConfirmed is returned when the backend did not acknowledge an order acceptance.
var ErrAcceptanceNotConfirmed = errors.New("acceptance not confirmed")
