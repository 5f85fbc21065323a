package types

import "github.com/m-mizutani/goerr/v2"

// ErrInvalidValue is returned by the Parse functions for values outside the enumerated set
var ErrInvalidValue = goerr.New("invalid enumerated value")

func parseEnum[T ~string](kind, s string, valid func(T) bool) (T, error) {
	v := T(s)
	if !valid(v) {
		return "", goerr.Wrap(ErrInvalidValue, "invalid "+kind, goerr.V("value", s))
	}
	return v, nil
}
