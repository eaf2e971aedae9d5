package kv

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestPutIfAbsent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.PutIfAbsent(ctx, "P1", "A", Item{"v": "1"}); err != nil {
		t.Fatalf("first PutIfAbsent() error = %v", err)
	}
	if err := store.PutIfAbsent(ctx, "P1", "A", Item{"v": "2"}); !errors.Is(err, ErrConditionFailed) {
		t.Fatalf("second PutIfAbsent() error = %v, want ErrConditionFailed", err)
	}

	item, err := store.Get(ctx, "P1", "A")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if item["v"] != "1" {
		t.Errorf("v = %q, the losing write must not apply", item["v"])
	}
	if item[AttrPK] != "P1" || item[AttrSK] != "A" {
		t.Errorf("key attrs = %q/%q", item[AttrPK], item[AttrSK])
	}
}

func TestGetNotFound(t *testing.T) {
	store := NewMemoryStore()

	if _, err := store.Get(context.Background(), "P1", "missing"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("Get() error = %v, want ErrItemNotFound", err)
	}
}

func TestQueryPrefixOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, sk := range []string{"SLOT#10:00#b", "SLOT#09:00#a", "SLOT#09:15#a", "OTHER#x"} {
		if err := store.PutIfAbsent(ctx, "P1", sk, Item{"sk": sk}); err != nil {
			t.Fatalf("PutIfAbsent(%s) error = %v", sk, err)
		}
	}

	items, err := store.Query(ctx, "P1", "SLOT#")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	want := []string{"SLOT#09:00#a", "SLOT#09:15#a", "SLOT#10:00#b"}
	if len(items) != len(want) {
		t.Fatalf("len = %d, want %d", len(items), len(want))
	}
	for i, item := range items {
		if item[AttrSK] != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, item[AttrSK], want[i])
		}
	}
}

func TestUpdateIfNotEquals(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.PutIfAbsent(ctx, "P1", "A", Item{"status": "confirmed"}); err != nil {
		t.Fatalf("PutIfAbsent() error = %v", err)
	}

	cond := Cond{NotEquals: &AttrNotEquals{Name: "status", Value: "cancelled"}}
	if err := store.UpdateIf(ctx, "P1", "A", Item{"status": "cancelled"}, cond); err != nil {
		t.Fatalf("first UpdateIf() error = %v", err)
	}
	if err := store.UpdateIf(ctx, "P1", "A", Item{"status": "cancelled"}, cond); !errors.Is(err, ErrConditionFailed) {
		t.Fatalf("second UpdateIf() error = %v, want ErrConditionFailed", err)
	}
}

func TestUpdateIfMissingAttributePasses(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.PutIfAbsent(ctx, "P1", "A", Item{"v": "1"}); err != nil {
		t.Fatalf("PutIfAbsent() error = %v", err)
	}

	// The item has no "status" attribute, so status <> cancelled holds.
	cond := Cond{NotEquals: &AttrNotEquals{Name: "status", Value: "cancelled"}}
	if err := store.UpdateIf(ctx, "P1", "A", Item{"status": "confirmed"}, cond); err != nil {
		t.Fatalf("UpdateIf() error = %v", err)
	}
}

func TestUpdateMergesAttrs(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.PutIfAbsent(ctx, "P1", "A", Item{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("PutIfAbsent() error = %v", err)
	}
	if err := store.UpdateIf(ctx, "P1", "A", Item{"b": "3"}, Cond{}); err != nil {
		t.Fatalf("UpdateIf() error = %v", err)
	}

	item, err := store.Get(ctx, "P1", "A")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if item["a"] != "1" || item["b"] != "3" {
		t.Errorf("item = %v, want a=1 b=3", item)
	}
}

func TestCommitAtomicity(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.PutIfAbsent(ctx, "P1", "taken", Item{"v": "1"}); err != nil {
		t.Fatalf("PutIfAbsent() error = %v", err)
	}

	// Op 1 would succeed, op 2 fails its precondition. Neither applies.
	err := store.Commit(ctx, []Op{
		{Kind: OpPut, PK: "P1", SK: "new", Attrs: Item{"v": "x"}, Cond: &Cond{Absent: true}},
		{Kind: OpPut, PK: "P1", SK: "taken", Attrs: Item{"v": "x"}, Cond: &Cond{Absent: true}},
	})

	var commitErr *CommitError
	if !errors.As(err, &commitErr) {
		t.Fatalf("Commit() error = %v, want CommitError", err)
	}
	if commitErr.OpIndex != 1 {
		t.Errorf("OpIndex = %d, want 1", commitErr.OpIndex)
	}
	if !errors.Is(err, ErrConditionFailed) {
		t.Errorf("CommitError must unwrap to ErrConditionFailed")
	}

	if _, err := store.Get(ctx, "P1", "new"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("aborted commit left a row behind")
	}
	item, err := store.Get(ctx, "P1", "taken")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if item["v"] != "1" {
		t.Errorf("v = %q, aborted commit overwrote a row", item["v"])
	}
}

func TestCommitMultiOp(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.PutIfAbsent(ctx, "P1", "old", Item{"v": "1"}); err != nil {
		t.Fatalf("PutIfAbsent() error = %v", err)
	}

	err := store.Commit(ctx, []Op{
		{Kind: OpPut, PK: "P1", SK: "new", Attrs: Item{"v": "2"}, Cond: &Cond{Absent: true}},
		{Kind: OpDelete, PK: "P1", SK: "old"},
		{Kind: OpPut, PK: "P2", SK: "meta", Attrs: Item{"v": "3"}},
	})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if _, err := store.Get(ctx, "P1", "old"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("deleted row still present")
	}
	if _, err := store.Get(ctx, "P1", "new"); err != nil {
		t.Errorf("put row missing: %v", err)
	}
	if _, err := store.Get(ctx, "P2", "meta"); err != nil {
		t.Errorf("cross-partition row missing: %v", err)
	}
}

func TestConcurrentPutIfAbsent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.PutIfAbsent(ctx, "P1", "contested", Item{"v": "x"})
		}(i)
	}
	wg.Wait()

	var won int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrConditionFailed):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("winners = %d, want exactly 1", won)
	}
}
