package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file and its directory were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	now := time.Now()

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.SetPreference("k", "v", time.Time{}); err != nil {
		t.Fatalf("SetPreference() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	value, ok, err := store.Preference("k", now)
	if err != nil || !ok || value != "v" {
		t.Errorf("Preference() = (%q, %v, %v), expected (v, true, nil)", value, ok, err)
	}
}

func TestPreferenceMissing(t *testing.T) {
	store := openTestStore(t)

	value, ok, err := store.Preference("missing", time.Now())
	if err != nil {
		t.Fatalf("Preference() failed: %v", err)
	}
	if ok || value != "" {
		t.Errorf("Preference(missing) = (%q, %v), expected (\"\", false)", value, ok)
	}
}

func TestPreferenceUpsert(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	if err := store.SetPreference("consent", "declined", now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := store.SetPreference("consent", "accepted", now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	value, ok, err := store.Preference("consent", now)
	if err != nil || !ok {
		t.Fatalf("Preference() = (%q, %v, %v)", value, ok, err)
	}
	if value != "accepted" {
		t.Errorf("Preference() = %q, expected latest value accepted", value)
	}
}

func TestPreferenceExpiry(t *testing.T) {
	store := openTestStore(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	if err := store.SetPreference("ad_closed", "true", now.Add(24*time.Hour)); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := store.Preference("ad_closed", now.Add(23*time.Hour)); !ok {
		t.Error("preference should be visible before expiry")
	}
	if _, ok, _ := store.Preference("ad_closed", now.Add(24*time.Hour)); ok {
		t.Error("preference should be hidden at expiry")
	}
	if _, ok, _ := store.Preference("ad_closed", now.Add(48*time.Hour)); ok {
		t.Error("preference should be hidden after expiry")
	}
}

func TestPreferenceNeverExpires(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetPreference("forever", "yes", time.Time{}); err != nil {
		t.Fatal(err)
	}

	far := time.Now().AddDate(100, 0, 0)
	if _, ok, _ := store.Preference("forever", far); !ok {
		t.Error("zero expiry should never expire")
	}
}

func TestDeletePreference(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	if err := store.SetPreference("k", "v", time.Time{}); err != nil {
		t.Fatal(err)
	}
	if err := store.DeletePreference("k"); err != nil {
		t.Fatalf("DeletePreference() failed: %v", err)
	}
	if _, ok, _ := store.Preference("k", now); ok {
		t.Error("preference should be gone after delete")
	}

	// Deleting again is fine
	if err := store.DeletePreference("k"); err != nil {
		t.Errorf("DeletePreference(missing) = %v, expected nil", err)
	}
}

func TestPreferencesByPrefix(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	store.SetPreference("local:b", "2", time.Time{})
	store.SetPreference("local:a", "1", now.Add(time.Hour))
	store.SetPreference("local:old", "x", now.Add(-time.Hour))
	store.SetPreference("ssh:alice:a", "3", time.Time{})

	prefs, err := store.Preferences("local:", now)
	if err != nil {
		t.Fatalf("Preferences() failed: %v", err)
	}
	if len(prefs) != 2 {
		t.Fatalf("Preferences() returned %d entries, expected 2", len(prefs))
	}
	if prefs[0].Key != "local:a" || prefs[1].Key != "local:b" {
		t.Errorf("Preferences() keys = %s, %s; expected sorted local:a, local:b", prefs[0].Key, prefs[1].Key)
	}
	if prefs[0].ExpiresAt.IsZero() {
		t.Error("local:a should carry its expiry")
	}
	if !prefs[1].ExpiresAt.IsZero() {
		t.Error("local:b should not expire")
	}
}

func TestPurgeExpired(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	store.SetPreference("old", "x", now.Add(-time.Minute))
	store.SetPreference("new", "y", now.Add(time.Minute))
	store.SetPreference("forever", "z", time.Time{})

	n, err := store.PurgeExpired(now)
	if err != nil {
		t.Fatalf("PurgeExpired() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("PurgeExpired() removed %d rows, expected 1", n)
	}

	prefs, _ := store.Preferences("", now)
	if len(prefs) != 2 {
		t.Errorf("expected 2 remaining preferences, got %d", len(prefs))
	}
}

func TestDeletePrefix(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	store.SetPreference("ssh:bob:consent", "accepted", time.Time{})
	store.SetPreference("ssh:bob:ad", "true", time.Time{})
	store.SetPreference("local:consent", "declined", time.Time{})

	if err := store.DeletePrefix("ssh:bob:"); err != nil {
		t.Fatalf("DeletePrefix() failed: %v", err)
	}

	if prefs, _ := store.Preferences("ssh:bob:", now); len(prefs) != 0 {
		t.Errorf("expected ssh:bob: preferences to be gone, got %d", len(prefs))
	}
	if _, ok, _ := store.Preference("local:consent", now); !ok {
		t.Error("other scopes should be untouched")
	}

	if err := store.DeletePrefix(""); err == nil {
		t.Error("DeletePrefix(\"\") should be refused")
	}
}
