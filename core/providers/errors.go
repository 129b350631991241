package providers

import (
	"errors"
	"fmt"
)

// ErrNoProvider is returned when no catalogue entry has a usable credential.
var ErrNoProvider = errors.New("no API keys configured")

// ProviderError is a non-success response (or transport failure/timeout) from
// a provider backend.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Provider, e.Body)
	}
	return fmt.Sprintf("%s %d: %s", e.Provider, e.Status, e.Body)
}

// ProtocolError is a response that arrived but could not be read into the
// expected shape.
type ProtocolError struct {
	Provider string
	Reason   string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: unexpected response: %s", e.Provider, e.Reason)
}
