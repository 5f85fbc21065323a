package grcapi

import (
	"errors"
	"fmt"

	"github.com/secmon-lab/grcboard/pkg/domain/interfaces"
)

// ErrNotSupported is returned for endpoints the selected API variant does not have
var ErrNotSupported = interfaces.ErrNotSupported

// maxErrorBody bounds how much of an error response is kept for diagnostics
const maxErrorBody = 1024

// APIError is a non-2xx response from the GRC backend
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

// StatusCode returns the HTTP status of an APIError anywhere in err's chain
func StatusCode(err error) (int, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, true
	}
	return 0, false
}

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody])
	}
	return string(b)
}
