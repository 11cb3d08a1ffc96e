// Package keyspace builds the storage keys shared by every participant
// client. The layout must stay byte-for-byte identical across
// implementations so a server can treat them interchangeably:
//
//	{prefix}.browser_id
//	{prefix}.created_at
//	{prefix}.updated_at
//	{prefix}.{application}.{field}
package keyspace

import "strings"

// DefaultPrefix is used when no prefix is configured.
const DefaultPrefix = "participant_id"

const (
	separator    = "."
	browserIDKey = "browser_id"
	createdAtKey = "created_at"
	updatedAtKey = "updated_at"
)

// Space is a key namespace rooted at Prefix.
type Space struct {
	Prefix string
}

// New returns a Space; an empty prefix selects DefaultPrefix.
func New(prefix string) Space {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Space{Prefix: prefix}
}

// BrowserID returns the identifier key.
func (s Space) BrowserID() string { return s.join(browserIDKey) }

// CreatedAt returns the first-creation timestamp key.
func (s Space) CreatedAt() string { return s.join(createdAtKey) }

// UpdatedAt returns the regeneration timestamp key.
func (s Space) UpdatedAt() string { return s.join(updatedAtKey) }

// Record returns the three identity record keys.
func (s Space) Record() []string {
	return []string{s.BrowserID(), s.CreatedAt(), s.UpdatedAt()}
}

// Attribute returns the key for field scoped to application.
func (s Space) Attribute(application, field string) string {
	return s.join(application, field)
}

func (s Space) join(parts ...string) string {
	var b strings.Builder
	b.WriteString(s.Prefix)
	for _, part := range parts {
		b.WriteString(separator)
		b.WriteString(part)
	}
	return b.String()
}
