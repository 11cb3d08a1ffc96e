// Package identity manages the persisted participant identifier.
//
// The record lives under three keys of one prefix (see keyspace):
// browser_id, created_at and updated_at. The first successful generation
// writes browser_id and created_at; any later generation while created_at
// exists writes updated_at instead. Delete removes all three keys.
//
// Deleting or regenerating the identifier breaks continuity with every
// external system that already recorded it. Both operations are available
// but should not be used in production flows.
package identity
