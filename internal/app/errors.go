package app

import (
	"errors"
	"net/http"

	"github.com/vk/satcolor/internal/cnf"
	"github.com/vk/satcolor/internal/config"
	"github.com/vk/satcolor/internal/decoder"
	"github.com/vk/satcolor/internal/solver"
)

// ErrUncolorable is returned by Run when at least one graph could not be
// colored within its budget and nothing else failed.
var ErrUncolorable = errors.New("graph is not colorable within budget")

// failureKind names the class of err for metrics and API responses.
func failureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, config.ErrInvalidDocument),
		errors.Is(err, cnf.ErrInvalidBudget),
		errors.Is(err, cnf.ErrInvalidPreassignment),
		errors.Is(err, cnf.ErrEmptyGraph):
		return "invalid_input"
	case errors.Is(err, solver.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, solver.ErrTimeout):
		return "timeout"
	case errors.Is(err, solver.ErrIOFault):
		return "io_fault"
	case errors.Is(err, decoder.ErrIndeterminate):
		return "indeterminate"
	case errors.Is(err, decoder.ErrMalformedAssignment), errors.Is(err, cnf.ErrCountMismatch):
		return "malformed"
	default:
		return "error"
	}
}

// httpStatus maps a failed attempt to a response code.
func httpStatus(err error) int {
	switch failureKind(err) {
	case "invalid_input":
		return http.StatusBadRequest
	case "unavailable":
		return http.StatusServiceUnavailable
	case "io_fault":
		return http.StatusBadGateway
	case "timeout", "indeterminate":
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
