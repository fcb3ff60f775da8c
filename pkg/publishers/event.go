package publishers

import (
	"time"

	"github.com/google/uuid"
)

// Event represents one completed fetch delivered downstream.
type Event struct {
	ID         string    `json:"id"`
	Poll       string    `json:"poll"`
	Endpoint   string    `json:"endpoint"`
	Method     string    `json:"method"`
	StatusCode int       `json:"status_code"`
	Payload    any       `json:"payload,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// NewEvent constructs an Event for the given poll + fetch result.
func NewEvent(poll, endpoint, method string, statusCode int, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Poll:       poll,
		Endpoint:   endpoint,
		Method:     method,
		StatusCode: statusCode,
		Payload:    payload,
		FetchedAt:  time.Now().UTC(),
	}
}
