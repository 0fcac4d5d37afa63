package domain

// EventKind enumerates the action log event types.
type EventKind string

const (
	EventLinkCreated      EventKind = "LINK_CREATED"
	EventLinkDeleted      EventKind = "LINK_DELETED"
	EventLinkClick        EventKind = "LINK_CLICK"
	EventRedirectNotFound EventKind = "REDIRECT_FAIL_NOT_FOUND"
	EventRedirectExpired  EventKind = "REDIRECT_FAIL_EXPIRED"
	EventRedirectSuccess  EventKind = "REDIRECT_SUCCESS"
)

// LogEntry is a single record in the append-only action log.
// Entries are never mutated after being appended; the log as a whole can
// only grow or be cleared.
type LogEntry struct {
	// ID is a unique identifier assigned at append time.
	ID string `json:"id"`

	// TS is the append time as an RFC 3339 timestamp string.
	TS string `json:"ts"`

	// Type is the event kind.
	Type EventKind `json:"type"`

	// Payload carries event-specific fields, e.g. the code involved.
	Payload map[string]any `json:"payload"`
}
