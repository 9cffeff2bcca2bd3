package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/popcast/internal/domain/types"
)

func record(a float64, years map[int]float64) types.Record {
	return types.Record{
		Coefficients: types.Coefficients{A: a, B: a * 10, C: a * 100},
		Projections:  years,
	}
}

func TestMemoryStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx)

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
	if snap := store.All(ctx); snap.Len() != 0 {
		t.Errorf("expected empty snapshot, got %d entries", snap.Len())
	}

	rec := record(1, map[int]float64{2016: 10, 2018: 20})
	if err := store.Upsert(ctx, "A", rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	got, err := store.Get(ctx, "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Projections[2018] != 20 {
		t.Errorf("expected 20 for 2018, got %f", got.Projections[2018])
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.Upsert(ctx, "", rec); !errors.Is(err, ErrEmptyLocality) {
		t.Errorf("expected ErrEmptyLocality, got %v", err)
	}
}

func TestMemoryStore_OverwriteKeepsPosition(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, WithCapacity(4))

	r1 := record(1, map[int]float64{2016: 1})
	r2 := record(2, map[int]float64{2016: 2})
	_ = store.Upsert(ctx, "A", r1)
	_ = store.Upsert(ctx, "B", r1)
	_ = store.Upsert(ctx, "A", r2)

	if count := store.Count(ctx); count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	got, _ := store.Get(ctx, "A")
	if got.Coefficients != r2.Coefficients || got.Projections[2016] != 2 {
		t.Errorf("expected overwrite with r2, got %+v", got)
	}
	names := store.All(ctx).Localities()
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("expected order [A B], got %v", names)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx)

	years := map[int]float64{2016: 5}
	_ = store.Upsert(ctx, "A", record(1, years))
	years[2016] = 500

	got, _ := store.Get(ctx, "A")
	got.Projections[2016] = 700

	snap := store.All(ctx)
	if v := snap.Entries[0].Record.Projections[2016]; v != 5 {
		t.Errorf("store mutated through caller map: got %f", v)
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx)

	// Clearing an empty store is a no-op.
	store.Clear(ctx)
	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	_ = store.Upsert(ctx, "A", record(1, map[int]float64{2016: 1}))
	_ = store.Upsert(ctx, "B", record(1, map[int]float64{2016: 1}))
	store.Clear(ctx)
	store.Clear(ctx)

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0 after clear, got %d", count)
	}
	if _, ok := store.Table(ctx); ok {
		t.Error("expected no table after clear")
	}

	// Store is usable again after clear.
	_ = store.Upsert(ctx, "C", record(1, map[int]float64{2016: 1}))
	if names := store.All(ctx).Localities(); len(names) != 1 || names[0] != "C" {
		t.Errorf("expected [C], got %v", names)
	}
}

func TestMemoryStore_Table(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx)

	if tbl, ok := store.Table(ctx); ok || tbl.Header != nil || tbl.Rows != nil {
		t.Fatalf("expected absent table for empty store, got %+v", tbl)
	}

	_ = store.Upsert(ctx, "Z", types.Record{
		Coefficients: types.Coefficients{A: 1, B: 2, C: 3},
		Projections:  map[int]float64{2020: 30, 2016: 10, 2018: 20},
	})
	_ = store.Upsert(ctx, "A", types.Record{
		Coefficients: types.Coefficients{A: 4, B: 5, C: 6},
		Projections:  map[int]float64{2016: 1, 2023: 7},
	})

	tbl, ok := store.Table(ctx)
	if !ok {
		t.Fatal("expected a table")
	}

	wantHeader := []any{ColumnLocality, 2016, 2018, 2020, 2023, ColumnCoefficientA, ColumnCoefficientB, ColumnCoefficientC}
	if fmt.Sprint(tbl.Header) != fmt.Sprint(wantHeader) {
		t.Errorf("header mismatch: got %v want %v", tbl.Header, wantHeader)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
	}

	z := tbl.Rows[0]
	if z[0] != "Z" || z[1] != 10.0 || z[3] != 30.0 || z[4] != nil || z[5] != 1.0 || z[7] != 3.0 {
		t.Errorf("unexpected first row: %v", z)
	}
	a := tbl.Rows[1]
	if a[0] != "A" || a[1] != 1.0 || a[2] != nil || a[4] != 7.0 || a[6] != 5.0 {
		t.Errorf("unexpected second row: %v", a)
	}
	for i, row := range tbl.Rows {
		if len(row) != len(tbl.Header) {
			t.Errorf("row %d has %d cells, header has %d", i, len(row), len(tbl.Header))
		}
	}
}

func TestSnapshot_MarshalJSON(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx)

	b, err := json.Marshal(store.All(ctx))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "{}" {
		t.Errorf("expected {}, got %s", b)
	}

	_ = store.Upsert(ctx, "YAOUNDE 2", types.Record{Coefficients: types.Coefficients{C: 1}, Projections: map[int]float64{2016: 1}})
	_ = store.Upsert(ctx, "NGAOUNDÉRÉ I", types.Record{Coefficients: types.Coefficients{C: 2}, Projections: map[int]float64{2016: 2}})

	b, err = json.Marshal(store.All(ctx))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"YAOUNDE 2":{"coefficients":{"a":0,"b":0,"c":1},"projections":{"2016":1}},` +
		`"NGAOUNDÉRÉ I":{"coefficients":{"a":0,"b":0,"c":2},"projections":{"2016":2}}}`
	if string(b) != want {
		t.Errorf("unexpected JSON:\n got %s\nwant %s", b, want)
	}

	var decoded map[string]types.Record
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("snapshot JSON is not a valid object: %v", err)
	}
	if len(decoded) != 2 {
		t.Errorf("expected 2 localities, got %d", len(decoded))
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				name := fmt.Sprintf("loc-%d-%d", id, j%10)
				_ = store.Upsert(ctx, name, record(float64(j), map[int]float64{2016: float64(j)}))
				_ = store.All(ctx)
				_, _ = store.Table(ctx)
				if j%50 == 0 {
					store.Clear(ctx)
				}
			}
		}(i)
	}
	wg.Wait()

	snap := store.All(ctx)
	if snap.Len() != store.Count(ctx) {
		t.Errorf("snapshot length %d differs from count %d", snap.Len(), store.Count(ctx))
	}
}
