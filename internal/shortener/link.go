// Package shortener contains the link model: dedup-by-hash creation,
// collision-checked short-code assignment, resolution, and pruning.
package shortener

// Link represents a stored short link.
type Link struct {
	// InternalID is the storage-assigned identity; never exposed to callers.
	InternalID int64
	// PublicID is the globally unique, time-ordered identifier of the record.
	PublicID string
	// ContentHash is the dedup key: one stored record per distinct raw URL.
	ContentHash string
	// ShortCode is the unique public alias; immutable once assigned.
	ShortCode string
	// RawURL is the original destination URL.
	RawURL string
	// ExpiresAt is an epoch-millisecond timestamp; 0 means never expires.
	ExpiresAt int64
}

// Expired reports whether the link is past its expiry at the given
// epoch-millisecond instant. Expired links are still resolvable until the
// prune pass removes them.
func (l *Link) Expired(nowMillis int64) bool {
	return l.ExpiresAt > 0 && l.ExpiresAt < nowMillis
}
