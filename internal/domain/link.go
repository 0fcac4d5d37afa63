package domain

import "time"

// LinkRecord is the core data structure for a shortened link.
type LinkRecord struct {
	// Code is the short code, the unique key for this record.
	// It always matches [A-Za-z0-9-]+.
	Code string `json:"code"`

	// URL is the destination, an absolute URL with scheme and host.
	URL string `json:"url"`

	// CreatedAt is the creation time in milliseconds since epoch. Immutable.
	CreatedAt int64 `json:"createdAt"`

	// ExpiresAt is CreatedAt plus the validity window in milliseconds.
	// Immutable after creation. Always strictly greater than CreatedAt.
	ExpiresAt int64 `json:"expiresAt"`

	// Clicks counts successful redirect resolutions. Starts at 0 and is
	// only ever incremented.
	Clicks int64 `json:"clicks"`
}

// Expired reports whether the record's validity window has passed at now.
// Expiry is checked lazily at resolution time; expired records stay stored.
func (r LinkRecord) Expired(now time.Time) bool {
	return now.UnixMilli() > r.ExpiresAt
}

// Remaining returns how much of the validity window is left at now.
// Zero or negative means the record is expired.
func (r LinkRecord) Remaining(now time.Time) time.Duration {
	return time.Duration(r.ExpiresAt-now.UnixMilli()) * time.Millisecond
}
