package store

import (
	"context"
	"testing"

	"go_ledger/internal/ledger/models"
)

func TestMemoryStoreDeliversSnapshotOnSubscribe(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Create(context.Background(), map[string]any{"type": models.TypeExpense, "userId": "u1", "amount": 40.0}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var got []models.Record
	if err := s.Subscribe(context.Background(), func(records []models.Record) { got = records }); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if len(got) != 1 || got[0].Type != models.TypeExpense || got[0].Amount != 40 {
		t.Fatalf("unexpected initial snapshot: %+v", got)
	}
	if got[0].ID == "" {
		t.Fatalf("expected a generated id")
	}
}

func TestMemoryStoreBroadcastsFullSnapshotOnEveryWrite(t *testing.T) {
	s := NewMemoryStore()

	var deliveries [][]models.Record
	if err := s.Subscribe(context.Background(), func(records []models.Record) {
		deliveries = append(deliveries, records)
	}); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	ctx := context.Background()
	if err := s.Create(ctx, map[string]any{"type": models.TypeTransaction, "userId": "u1", "amount": 10.0, "status": models.StatusPending}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	id := deliveries[len(deliveries)-1][0].ID
	if err := s.Update(ctx, id, map[string]any{"status": models.StatusPaid}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	last := deliveries[len(deliveries)-1]
	if last[0].Status != models.StatusPaid {
		t.Fatalf("update not reflected in snapshot: %+v", last[0])
	}
	if last[0].Amount != 10 {
		t.Fatalf("untouched field lost on update: %+v", last[0])
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := len(deliveries[len(deliveries)-1]); got != 0 {
		t.Fatalf("expected empty snapshot after delete, got %d records", got)
	}
}

func TestMemoryStoreUnknownIDErrors(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Update(ctx, "nope", map[string]any{"status": models.StatusPaid}); err == nil {
		t.Fatalf("expected update of unknown id to fail")
	}
	if err := s.Delete(ctx, "nope"); err == nil {
		t.Fatalf("expected delete of unknown id to fail")
	}
}

func TestRecordFromFieldsToleratesWrongTypes(t *testing.T) {
	rec := recordFromFields("id1", map[string]any{
		"type":   models.TypeTransaction,
		"amount": "not-a-number",
		"value":  3,
		"name":   42,
	})

	if rec.Amount != 0 {
		t.Fatalf("expected wrong-typed amount to default to 0, got %v", rec.Amount)
	}
	if rec.Value != 3 {
		t.Fatalf("expected int value to convert, got %v", rec.Value)
	}
	if rec.Name != "" {
		t.Fatalf("expected wrong-typed name to default to empty, got %q", rec.Name)
	}
}
