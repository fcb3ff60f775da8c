package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-api-client/internal/domain"
)

func newTestJournal(t *testing.T, opts Options) Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewStore("bbolt", path, opts)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestBoltJournalAppendAndRecent(t *testing.T) {
	store := newTestJournal(t, Options{})

	first := domain.CallRecord{ID: "rec-1", Poll: "users-sweep", Endpoint: "users", Method: "GET", StatusCode: 200}
	second := domain.CallRecord{ID: "rec-2", Poll: "users-sweep", Endpoint: "users", Method: "GET", StatusCode: 503, Err: "response status 503"}

	if err := store.Append(first); err != nil {
		t.Fatalf("append first: %v", err)
	}
	if err := store.Append(second); err != nil {
		t.Fatalf("append second: %v", err)
	}

	records, err := store.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "rec-2" {
		t.Fatalf("expected newest record first, got %q", records[0].ID)
	}
	if records[1].ID != "rec-1" {
		t.Fatalf("expected oldest record last, got %q", records[1].ID)
	}
	if !records[0].Failed() {
		t.Fatalf("expected rec-2 to report failure")
	}
	if records[1].Failed() {
		t.Fatalf("expected rec-1 to report success")
	}
}

func TestBoltJournalRecentHonorsLimit(t *testing.T) {
	store := newTestJournal(t, Options{})

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Append(domain.CallRecord{ID: id, Endpoint: "users", Method: "GET"}); err != nil {
			t.Fatalf("append %q: %v", id, err)
		}
	}

	records, err := store.Recent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "c" || records[1].ID != "b" {
		t.Fatalf("unexpected order: %q, %q", records[0].ID, records[1].ID)
	}
}

func TestBoltJournalExpiresOldRecords(t *testing.T) {
	store := newTestJournal(t, Options{
		RecordTTL:       time.Second,
		CleanupInterval: time.Second,
	})
	journal, ok := store.(*boltJournal)
	if !ok {
		t.Fatalf("expected *boltJournal, got %T", store)
	}

	if err := store.Append(domain.CallRecord{ID: "stale", Endpoint: "users", Method: "GET"}); err != nil {
		t.Fatalf("append stale: %v", err)
	}

	// Force the next append past the cleanup cadence check.
	journal.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	if err := store.Append(domain.CallRecord{ID: "fresh", Endpoint: "users", Method: "GET"}); err != nil {
		t.Fatalf("append fresh: %v", err)
	}

	records, err := store.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected stale record to be removed, got %d records", len(records))
	}
	if records[0].ID != "fresh" {
		t.Fatalf("expected fresh record to survive, got %q", records[0].ID)
	}
}

func TestNewStoreDisabledVariants(t *testing.T) {
	for _, typ := range []string{"", "none", "disabled", "NONE"} {
		store, err := NewStore(typ, "", Options{})
		if err != nil {
			t.Fatalf("NewStore(%q): %v", typ, err)
		}
		if err := store.Append(domain.CallRecord{ID: "x"}); err != nil {
			t.Fatalf("noop append: %v", err)
		}
		records, err := store.Recent(5)
		if err != nil {
			t.Fatalf("noop recent: %v", err)
		}
		if len(records) != 0 {
			t.Fatalf("expected no records from noop store, got %d", len(records))
		}
		if err := store.Close(); err != nil {
			t.Fatalf("noop close: %v", err)
		}
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported history type")
	}
}

func TestNewStoreBoltRequiresPath(t *testing.T) {
	if _, err := NewStore("bbolt", "", Options{}); err == nil {
		t.Fatalf("expected error when bbolt path is missing")
	}
}
