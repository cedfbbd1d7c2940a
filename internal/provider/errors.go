package provider

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/coto-cli/coto/pkg/types"
)

// maxErrorBody bounds how much of a failed response body goes into the message.
const maxErrorBody = 1024

// TransportError is a failed exchange with the generation service: either a
// non-2xx status (StatusCode and Body set) or a connection failure (Err set).
type TransportError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		body := strings.TrimSpace(string(e.Body))
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody] + "..."
		}
		return fmt.Sprintf("generation API returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), body)
	}
	return fmt.Sprintf("generation API request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Kind reports transport errors as such.
func (e *TransportError) Kind() types.ErrorKind { return types.KindTransport }
