package scan

import "errors"

var (
	// ErrNoActivePlan is returned when the user is missing, has no plan,
	// or the plan is not marked active.
	ErrNoActivePlan = errors.New("no active plan")

	// ErrQuotaExceeded is returned when the user's daily scan allowance
	// is used up, including the MaxScansPerDay == 0 case.
	ErrQuotaExceeded = errors.New("daily scan quota exceeded")

	// ErrScanNotFound is returned when no scan exists for a scan id.
	ErrScanNotFound = errors.New("scan not found")

	// ErrScanTimeout is returned when a tool invocation exceeded the
	// configured deadline and was killed.
	ErrScanTimeout = errors.New("scan timed out")

	// ErrInvalidInput is returned when target, tool, or task id fail
	// validation before any work is started.
	ErrInvalidInput = errors.New("invalid scan input")
)
