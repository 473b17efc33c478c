package wyre

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ProviderError preserves a non-2xx provider response verbatim so callers can
// pass the payload through to their own clients unmodified.
type ProviderError struct {
	StatusCode int
	Payload    json.RawMessage
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider returned %d: %s", e.StatusCode, string(e.Payload))
}

// AsProviderError unwraps err into a ProviderError if it carries one.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
