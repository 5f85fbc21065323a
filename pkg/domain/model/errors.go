package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors
var (
	ErrMissingRequired = goerr.New("required field is missing")
	ErrInvalidEnum     = goerr.New("field has a value outside its enumerated set")
	ErrOutOfRange      = goerr.New("numeric field is out of range")
)

// Context keys for error values
const (
	FieldKey = "field"
	ValueKey = "value"
)

func requireField(name, value string) error {
	if value == "" {
		return goerr.Wrap(ErrMissingRequired, "required field not provided", goerr.V(FieldKey, name))
	}
	return nil
}

func requireEnum(name string, value interface{ IsValid() bool }) error {
	if !value.IsValid() {
		return goerr.Wrap(ErrInvalidEnum, "invalid enumerated field", goerr.V(FieldKey, name), goerr.V(ValueKey, value))
	}
	return nil
}

func requireRange(name string, value, minimum, maximum float64) error {
	if value < minimum || value > maximum {
		return goerr.Wrap(ErrOutOfRange, "numeric field out of range",
			goerr.V(FieldKey, name),
			goerr.V(ValueKey, value),
			goerr.V("min", minimum),
			goerr.V("max", maximum))
	}
	return nil
}
