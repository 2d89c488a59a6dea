package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrUnauthorized     = fmt.Errorf("unauthorized")

	// Transport errors
	ErrTransport     = fmt.Errorf("request failed to reach the server")
	ErrRequestFailed = fmt.Errorf("request failed")
	ErrDecode        = fmt.Errorf("unexpected response body")

	// Job errors
	ErrJobNotFound     = fmt.Errorf("job not found")
	ErrJobTerminal     = fmt.Errorf("job already finished")
	ErrJobNotCompleted = fmt.Errorf("job not completed")

	// Input validation errors
	ErrValidation      = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
