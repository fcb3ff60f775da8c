package domain

import "time"

// Domain contains core models and interfaces.

// CallRecord captures one dispatched API call and its outcome. URL is
// filled in only when the call produced a response.
type CallRecord struct {
	ID         string    `json:"id"`
	Poll       string    `json:"poll,omitempty"`
	Endpoint   string    `json:"endpoint"`
	Method     string    `json:"method"`
	URL        string    `json:"url,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	Err        string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
}

// Failed reports whether the call ended in an error instead of a response.
func (r CallRecord) Failed() bool {
	return r.Err != ""
}
