// Package kv exposes the composite-key table the booking engine runs on.
//
// Every row is addressed by a partition key plus a sort key and holds a flat
// set of string attributes. The two primitives that matter for correctness
// are conditional single-item writes and Commit, which applies 2-3 writes as
// one unit: every precondition in the group is evaluated before any write
// becomes visible.
package kv

import (
	"context"
)

// Item is the attribute map of a single row. Implementations store the
// partition and sort key as the "PK" and "SK" attributes on every row they
// write, so queries can recover the full key from the item alone.
type Item map[string]string

const (
	AttrPK = "PK"
	AttrSK = "SK"
)

// Cond is a per-operation precondition. Exactly one field is set.
type Cond struct {
	// Absent requires that no item exists under the operation's key.
	Absent bool

	// NotEquals requires that the named attribute does not currently hold
	// the given value. A missing attribute (or missing item) passes.
	NotEquals *AttrNotEquals
}

type AttrNotEquals struct {
	Name  string
	Value string
}

type OpKind uint8

const (
	OpPut OpKind = iota
	OpUpdate
	OpDelete
)

// Op is one write inside a Commit. Put replaces the item with Attrs, Update
// merges Attrs into the existing item, Delete removes the item. Cond, when
// non-nil, gates the whole commit.
type Op struct {
	Kind OpKind
	PK   string
	SK   string

	Attrs Item
	Cond  *Cond
}

// Store is the adapter contract over the table.
type Store interface {
	// Get returns the item under (pk, sk), or ErrItemNotFound.
	Get(ctx context.Context, pk, sk string) (Item, error)

	// Query returns all items in the partition whose sort key begins with
	// skPrefix, ordered by sort key.
	Query(ctx context.Context, pk, skPrefix string) ([]Item, error)

	// PutIfAbsent writes the item only if no item exists under the key.
	// Returns ErrConditionFailed otherwise.
	PutIfAbsent(ctx context.Context, pk, sk string, attrs Item) error

	// UpdateIf merges attrs into the item under the key if cond holds.
	// Returns ErrConditionFailed otherwise.
	UpdateIf(ctx context.Context, pk, sk string, attrs Item, cond Cond) error

	// Delete removes the item under the key. Deleting a missing item is not
	// an error.
	Delete(ctx context.Context, pk, sk string) error

	// Commit applies ops atomically: either every operation takes effect or
	// none does. A failed precondition aborts the whole group and surfaces
	// as a *CommitError wrapping ErrConditionFailed.
	Commit(ctx context.Context, ops []Op) error
}
