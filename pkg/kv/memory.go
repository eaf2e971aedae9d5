package kv

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-process Store with the same commit semantics as the
// Redis implementation. It backs unit tests and local development without a
// Redis instance.
type MemoryStore struct {
	mu    sync.Mutex
	parts map[string]map[string]Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{parts: make(map[string]map[string]Item)}
}

func (s *MemoryStore) Get(ctx context.Context, pk, sk string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.parts[pk][sk]
	if !ok {
		return nil, ErrItemNotFound
	}
	return cloneItem(item), nil
}

func (s *MemoryStore) Query(ctx context.Context, pk, skPrefix string) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	part := s.parts[pk]
	sks := make([]string, 0, len(part))
	for sk := range part {
		if strings.HasPrefix(sk, skPrefix) {
			sks = append(sks, sk)
		}
	}
	sort.Strings(sks)

	items := make([]Item, 0, len(sks))
	for _, sk := range sks {
		items = append(items, cloneItem(part[sk]))
	}
	return items, nil
}

func (s *MemoryStore) PutIfAbsent(ctx context.Context, pk, sk string, attrs Item) error {
	err := s.Commit(ctx, []Op{{
		Kind:  OpPut,
		PK:    pk,
		SK:    sk,
		Attrs: attrs,
		Cond:  &Cond{Absent: true},
	}})
	return flattenSingle(err)
}

func (s *MemoryStore) UpdateIf(ctx context.Context, pk, sk string, attrs Item, cond Cond) error {
	err := s.Commit(ctx, []Op{{
		Kind:  OpUpdate,
		PK:    pk,
		SK:    sk,
		Attrs: attrs,
		Cond:  &cond,
	}})
	return flattenSingle(err)
}

func (s *MemoryStore) Delete(ctx context.Context, pk, sk string) error {
	return s.Commit(ctx, []Op{{Kind: OpDelete, PK: pk, SK: sk}})
}

func (s *MemoryStore) Commit(ctx context.Context, ops []Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Phase 1: every precondition, before any write.
	for i, op := range ops {
		if op.Cond == nil {
			continue
		}
		item, exists := s.parts[op.PK][op.SK]
		if op.Cond.Absent && exists {
			return &CommitError{OpIndex: i}
		}
		if ne := op.Cond.NotEquals; ne != nil && exists && item[ne.Name] == ne.Value {
			return &CommitError{OpIndex: i}
		}
	}

	// Phase 2: apply.
	for _, op := range ops {
		switch op.Kind {
		case OpDelete:
			delete(s.parts[op.PK], op.SK)
		case OpPut, OpUpdate:
			part := s.parts[op.PK]
			if part == nil {
				part = make(map[string]Item)
				s.parts[op.PK] = part
			}
			item := part[op.SK]
			if op.Kind == OpPut || item == nil {
				item = make(Item, len(op.Attrs)+2)
			}
			for k, v := range op.Attrs {
				item[k] = v
			}
			item[AttrPK] = op.PK
			item[AttrSK] = op.SK
			part[op.SK] = item
		}
	}
	return nil
}

func cloneItem(in Item) Item {
	out := make(Item, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
