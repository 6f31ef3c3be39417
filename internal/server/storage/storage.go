// Package storage defines the record-store contract the authentication core
// depends on, plus the in-memory reference implementation. Records live in
// named collections; the backend assigns identifiers and answers
// partial-record equality lookups.
package storage

import (
	"context"
	"reflect"
)

// IDField is the record field the backend assigns at save time.
const IDField = "id"

// Record is an open map of field name to value. The schema is open on
// purpose: extra fields submitted at registration are stored verbatim.
type Record map[string]any

// Clone returns a shallow copy of r. Backends hand out clones so callers
// can never mutate the canonical stored records.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Matches reports whether every field of pred is present in r with an equal
// value. An empty predicate matches any record. DeepEqual keeps the check
// safe for non-comparable values such as decoded JSON arrays.
func (r Record) Matches(pred Record) bool {
	for k, want := range pred {
		got, ok := r[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// Backend is the storage contract.
//
// Save assigns a fresh unique id (overwriting any submitted one), persists
// the record under collection, and returns the stored record including the
// id. It fails only on underlying resource faults, surfaced as errors of
// kind common.KindStorage.
//
// Find returns the first record in collection matching every field of pred,
// or (nil, nil) when no record matches; absence is not an error. First-match
// order must be deterministic per implementation.
type Backend interface {
	Save(ctx context.Context, collection string, rec Record) (Record, error)
	Find(ctx context.Context, collection string, pred Record) (Record, error)
}
