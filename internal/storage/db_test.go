package storage

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMailUpsertAndStatus(t *testing.T) {
	db := openTestDB(t)

	row, err := db.UpsertMail("imap", "<m1@example.com>", "주문건", "erp@example.com", "2026-08-28T00:00:00Z", "hash1", "/tmp/m1.eml", "fetched")
	if err != nil {
		t.Fatal(err)
	}
	if row.ID == 0 || row.Status != "fetched" {
		t.Fatalf("row=%+v", row)
	}

	// Refetching the same message must not create a second row.
	again, err := db.UpsertMail("imap", "<m1@example.com>", "주문건(수정)", "erp@example.com", "2026-08-28T00:00:00Z", "hash1", "/tmp/m1.eml", "fetched")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != row.ID {
		t.Fatalf("upsert created duplicate: %d vs %d", again.ID, row.ID)
	}
	if again.Subject != "주문건(수정)" {
		t.Fatalf("subject not updated: %q", again.Subject)
	}

	if err := db.UpdateMailStatus(row.ID, "processed"); err != nil {
		t.Fatal(err)
	}
	pending, err := db.ListMailsByStatus("fetched", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending=%d want 0 after status update", len(pending))
	}

	if _, err := db.MustMailByProviderMessageID("imap", "<missing>"); err == nil {
		t.Fatal("want error for missing mail")
	}
}

func TestConversionRuns(t *testing.T) {
	db := openTestDB(t)

	if err := db.InsertConversionRun("web", "orders.xlsx", 3, 7, 1); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertConversionRun("cli", "orders2.xlsx", 0, 10, 0); err != nil {
		t.Fatal(err)
	}

	runs, err := db.ListConversionRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs=%d want 2", len(runs))
	}
	// Newest first.
	if runs[0].Source != "cli" || runs[1].Matched != 3 {
		t.Fatalf("runs=%+v", runs)
	}
}

func TestMappingAuditAndMetadata(t *testing.T) {
	db := openTestDB(t)

	if err := db.InsertMappingAudit("12345678", "신규 시럽", "web"); err != nil {
		t.Fatal(err)
	}

	if err := db.SetMetadata("listener.last_cycle", "2026-08-28T09:00:00Z"); err != nil {
		t.Fatal(err)
	}
	value, err := db.GetMetadata("listener.last_cycle")
	if err != nil {
		t.Fatal(err)
	}
	if value == nil || *value != "2026-08-28T09:00:00Z" {
		t.Fatalf("value=%v", value)
	}

	missing, err := db.GetMetadata("nope")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatalf("want nil for missing key, got %v", *missing)
	}
}
