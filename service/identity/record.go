package identity

import "time"

// Record is a snapshot of the persisted identity record.
type Record struct {
	BrowserID string     `json:"browserId,omitempty" yaml:"browserId,omitempty"`
	Version   int        `json:"version,omitempty" yaml:"version,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// Exists reports whether the record holds an identifier.
func (r *Record) Exists() bool {
	return r != nil && r.BrowserID != ""
}
