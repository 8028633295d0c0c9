package memory

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestMirrorUpsertAndRemove(t *testing.T) {
	ctx := context.Background()
	m := New()
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	if err := m.UpsertTransaction(ctx, core.Transaction{ID: "b", Amount: 1, Date: day}); err != nil {
		t.Fatal(err)
	}
	if err := m.UpsertTransaction(ctx, core.Transaction{ID: "a", Amount: 2, Date: day.AddDate(0, 0, 1)}); err != nil {
		t.Fatal(err)
	}
	if err := m.UpsertTransaction(ctx, core.Transaction{ID: "b", Amount: 3, Date: day}); err != nil {
		t.Fatal(err)
	}

	rows := m.Rows()
	if len(rows) != 2 || rows[0].ID != "b" || rows[0].Amount != 3 || rows[1].ID != "a" {
		t.Fatalf("rows = %+v", rows)
	}

	if err := m.RemoveTransaction(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	if err := m.RemoveTransaction(ctx, "missing"); err != nil {
		t.Fatalf("removing an unknown id must succeed: %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("len = %d, want 1", m.Len())
	}
}
