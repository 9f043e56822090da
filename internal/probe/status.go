package probe

// Category is the coarse health classification of a status code.
type Category string

const (
	CategoryUp       Category = "UP"
	CategoryRedirect Category = "UP (Redirect)"
	CategoryDown     Category = "DOWN"
)

// IsUp reports whether the category counts towards uptime.
func (c Category) IsUp() bool {
	return c == CategoryUp || c == CategoryRedirect
}

var statusLabels = map[int]string{
	200: "OK",
	201: "Created",
	204: "No Content",
	301: "Moved Permanently",
	302: "Found (Redirect)",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	500: "Internal Server Error",
	502: "Bad Gateway",
	503: "Service Unavailable",
	0:   "No HTTP response",
}

// StatusLabel returns a human-readable name for code. Well-known codes get
// their own name, others fall back to the name of their class.
func StatusLabel(code int) string {
	if label, ok := statusLabels[code]; ok {
		return label
	}
	switch {
	case code >= 200 && code < 300:
		return "Success"
	case code >= 300 && code < 400:
		return "Redirection"
	case code >= 400 && code < 500:
		return "Client Error"
	case code >= 500 && code < 600:
		return "Server Error"
	}
	return "Unknown Status"
}

// CategoryFor classifies code: 2xx is up, 3xx is up via redirect, and
// everything else (including the no-response sentinel) is down.
func CategoryFor(code int) Category {
	switch {
	case code >= 200 && code < 300:
		return CategoryUp
	case code >= 300 && code < 400:
		return CategoryRedirect
	}
	return CategoryDown
}
