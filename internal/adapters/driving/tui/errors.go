package tui

import "errors"

// ErrMissingBrdService is returned when the BRD service is not provided.
var ErrMissingBrdService = errors.New("tui: brd service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
