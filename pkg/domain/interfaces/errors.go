package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotSupported is returned by a Gateway for operations the backend variant does not offer
var ErrNotSupported = goerr.New("endpoint not supported by API variant")
