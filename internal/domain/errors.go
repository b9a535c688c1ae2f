package domain

import "errors"

var (
	// Snapshot / input errors. These abort a run before or at the start
	// of a month.
	ErrInvalidSnapshot     = errors.New("invalid snapshot")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrNoTaxPolicy         = errors.New("no tax policy available")
	ErrNoSSBracket         = errors.New("no social security bracket available")

	// Persistence errors.
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrRunNotFound      = errors.New("simulation run not found")

	// ErrInvalidInput marks a caller mistake on the service surface.
	ErrInvalidInput = errors.New("invalid input")
)
