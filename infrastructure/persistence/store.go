// Package persistence defines the storage contract shared by the durable
// document store and the in-process fallback store, and the gateway that
// selects between them.
package persistence

import (
	"context"
	"errors"
)

// ErrNotFound is returned by both store implementations when an id does not
// exist in the collection. The gateway passes it through unchanged; it is a
// legitimate outcome, not a backend failure.
var ErrNotFound = errors.New("record not found")

// Record is a schemaless journal record. Both identifier fields ("id" and
// "_id") are always present and equal; "createdAt" and "updatedAt" are
// stamped by the store, never trusted from input.
type Record map[string]interface{}

// ID returns the record's canonical identifier, or "" if unset.
func (r Record) ID() string {
	if id, ok := r["id"].(string); ok {
		return id
	}
	if id, ok := r["_id"].(string); ok {
		return id
	}
	return ""
}

// Clone returns a shallow copy of the record. Nested values are shared;
// stores replace nested values wholesale on update, never mutate them.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Store is the uniform contract for one entity collection. The durable
// DynamoDB store and the ephemeral record store both implement it, so route
// logic never branches on the backend.
type Store interface {
	// List returns all records. The durable store returns them in storage
	// order, the record store in insertion order; ordering policy is applied
	// by the gateway.
	List(ctx context.Context) ([]Record, error)

	// Create assigns an identifier, stamps timestamps and persists data.
	Create(ctx context.Context, data Record) (Record, error)

	// Update shallow-merges data over the existing record and restamps
	// updatedAt. Arrays and nested objects in data replace the old value.
	// Returns ErrNotFound if the id does not exist.
	Update(ctx context.Context, id string, data Record) (Record, error)

	// Delete removes the record, returning ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Clear empties the collection. Clearing an empty collection is not an
	// error.
	Clear(ctx context.Context) error
}

// reserved fields the storage layer owns. Incoming create/update payloads
// must never override them.
var reservedFields = []string{"id", "_id", "createdAt", "updatedAt"}

// StripReserved removes storage-owned fields from an incoming payload.
func StripReserved(data Record) Record {
	out := data.Clone()
	for _, f := range reservedFields {
		delete(out, f)
	}
	return out
}
