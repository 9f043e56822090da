package domain

import "time"

// Endpoint is a bookmarked URL shown on the dashboard. It plays no part in
// probing or aggregation.
type Endpoint struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ProbeRecord is the stored outcome of one probe. StatusCode 0 means no HTTP
// response was received; ErrorMessage is only set in that case.
type ProbeRecord struct {
	ID             string    `json:"id"`
	TargetURL      string    `json:"target_url"`
	StatusCode     int       `json:"status_code"`
	IsUp           bool      `json:"is_up"`
	ResponseTimeMS float64   `json:"response_time_ms"`
	ErrorMessage   *string   `json:"error_message"`
	CheckedAt      time.Time `json:"checked_at"`
}

// NoResponse is the status code recorded when a probe got no HTTP response.
const NoResponse = 0

// Failed reports whether the probe ended without an HTTP response.
func (r ProbeRecord) Failed() bool { return r.StatusCode == NoResponse }

// UptimeSummary is computed from the full history of one target; it is
// never stored.
type UptimeSummary struct {
	TargetURL     string    `json:"target_url"`
	Total         int       `json:"total"`
	Up            int       `json:"up"`
	UptimePercent float64   `json:"uptime_percent"`
	LastChecked   time.Time `json:"last_checked"`
}
