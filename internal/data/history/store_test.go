package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	store := openTestStore(t)

	snap := Snapshot{
		SessionID:     "4f2c0d2e-0000-0000-0000-000000000001",
		FragmentCount: 3,
		ElementCount:  42,
		RuleCount:     7,
		ActionCount:   5,
		ErrorCount:    1,
		WarningCount:  2,
		InfoCount:     0,
		Score:         0.8,
		Band:          "MEDIUM",
		DurationMS:    120,
	}
	if err := store.SaveSnapshot(snap); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	loaded, err := store.LoadSnapshots("", time.Time{})
	if err != nil {
		t.Fatalf("LoadSnapshots: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("len = %d", len(loaded))
	}
	got := loaded[0]
	if got.ProjectKey != "default" {
		t.Errorf("project key = %q", got.ProjectKey)
	}
	if got.FragmentCount != 3 || got.ErrorCount != 1 || got.Band != "MEDIUM" {
		t.Errorf("snapshot = %+v", got)
	}
	if got.Score != 0.8 {
		t.Errorf("score = %f", got.Score)
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp not defaulted")
	}
}

func TestSaveSnapshotUpsert(t *testing.T) {
	store := openTestStore(t)

	snap := Snapshot{SessionID: "s1", ErrorCount: 1}
	if err := store.SaveSnapshot(snap); err != nil {
		t.Fatal(err)
	}
	snap.ErrorCount = 4
	if err := store.SaveSnapshot(snap); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadSnapshots("default", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].ErrorCount != 4 {
		t.Fatalf("loaded = %+v", loaded)
	}
}

func TestLoadSnapshotsSince(t *testing.T) {
	store := openTestStore(t)

	old := Snapshot{SessionID: "old", Timestamp: time.Now().Add(-48 * time.Hour)}
	recent := Snapshot{SessionID: "recent", Timestamp: time.Now()}
	if err := store.SaveSnapshot(old); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveSnapshot(recent); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadSnapshots("default", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].SessionID != "recent" {
		t.Fatalf("loaded = %+v", loaded)
	}
}

func TestSessionIDRequired(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveSnapshot(Snapshot{}); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestUnsupportedSchemaVersion(t *testing.T) {
	store := openTestStore(t)
	err := store.SaveSnapshot(Snapshot{SessionID: "s1", SchemaVersion: 99})
	if err == nil {
		t.Fatal("expected error for unsupported schema version")
	}
}
