// Package sentinel provides standardized error definitions for the hypertable system.
// This package centralizes the error values used across the hypertable components,
// so callers can match them with errors.Is regardless of the wrapping context.
//
// The table itself never fails: absence is reported with a boolean. The errors
// defined here cover the outer layers:
// - Context cancellation observed by the service layer
// - Registry lookups (stats collectors, serializers)
// - Management HTTP server lifecycle
// - Workload and CLI parameter validation
//
// All errors are created using the ewrap package to provide enhanced error
// wrapping and context capabilities.
package sentinel

import (
	"github.com/hyp3rd/ewrap"
)

var (
	// ErrTimeoutOrCanceled is returned when a timeout or cancellation occurs.
	ErrTimeoutOrCanceled = ewrap.New("the operation timed out or was canceled")

	// ErrParamCannotBeEmpty is returned when a parameter cannot be empty.
	ErrParamCannotBeEmpty = ewrap.New("param cannot be empty")

	// ErrStatsCollectorNotFound is returned when a stats collector is not registered.
	ErrStatsCollectorNotFound = ewrap.New("stats collector not found")

	// ErrSerializerNotFound is returned when a serializer is not registered.
	ErrSerializerNotFound = ewrap.New("serializer not found")

	// ErrInvalidWorkload is returned when a workload name or parameter is not valid.
	ErrInvalidWorkload = ewrap.New("invalid workload")

	// ErrMgmtHTTPShutdownTimeout is returned when the management HTTP server fails to shutdown before context deadline.
	ErrMgmtHTTPShutdownTimeout = ewrap.New("management http shutdown timeout")
)
