package plasticity

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedPayload is returned when a response body is not a JSON object.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrConfiguration is returned when a derived view needs a request flag
	// that was not enabled on the originating request.
	ErrConfiguration = errors.New("request flag not enabled")

	ErrTransportTimeout = errors.New("transport timeout")
	ErrTransportFailure = errors.New("transport failure")
)

// ServiceError is the error reported by the API itself inside a response
// body ("error": true).
type ServiceError struct {
	Code    int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("plasticity: service error %d", e.Code)
	}
	return fmt.Sprintf("plasticity: service error %d: %s", e.Code, e.Message)
}
