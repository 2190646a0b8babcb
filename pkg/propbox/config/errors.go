package config

import "errors"

var (
	// ErrUnsupportedFormat indicates a config file extension no loader handles.
	ErrUnsupportedFormat = errors.New("unsupported config file extension")

	// ErrInvalidConfig indicates a config that failed validation.
	ErrInvalidConfig = errors.New("invalid config")
)
