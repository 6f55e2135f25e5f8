package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/consent"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// withConsentFlags points the consent command at a temporary database.
func withConsentFlags(t *testing.T, scope string, all bool) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "prefs.db")

	oldDB, oldScope, oldAll, oldConfig := flagDBPath, flagConsentScope, flagConsentAll, flagConfig
	t.Cleanup(func() {
		flagDBPath, flagConsentScope, flagConsentAll, flagConfig = oldDB, oldScope, oldAll, oldConfig
	})
	flagDBPath, flagConsentScope, flagConsentAll, flagConfig = dbPath, scope, all, ""
	return dbPath
}

func runConsentCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	err := runConsent(cmd, args)
	return out.String(), err
}

func TestConsentUnknownActionReturnsError(t *testing.T) {
	withConsentFlags(t, "local", false)

	_, err := runConsentCmd(t, "bogus")
	if err == nil || !strings.Contains(err.Error(), "unknown action") {
		t.Errorf("runConsent(bogus) error = %v, expected unknown action", err)
	}
}

func TestConsentStatusAndReset(t *testing.T) {
	dbPath := withConsentFlags(t, "ssh:alice", false)

	store, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	cm := consent.NewManager(store, config.Default(), consent.Options{Scope: "ssh:alice"})
	cm.Check()
	if err := cm.Accept(); err != nil {
		t.Fatalf("Accept() failed: %v", err)
	}
	store.Close()

	out, err := runConsentCmd(t, "status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out, "Consent:  accepted") {
		t.Errorf("status output missing accepted consent:\n%s", out)
	}
	if !strings.Contains(out, "ssh:alice:snakeGameCookieConsent") {
		t.Errorf("status output missing stored key:\n%s", out)
	}

	out, err = runConsentCmd(t, "reset")
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if !strings.Contains(out, `Cleared consent for scope "ssh:alice"`) {
		t.Errorf("reset output = %q", out)
	}

	out, err = runConsentCmd(t)
	if err != nil {
		t.Fatalf("status after reset failed: %v", err)
	}
	if !strings.Contains(out, "Consent:  unknown") || !strings.Contains(out, "No stored preferences.") {
		t.Errorf("status after reset should be empty:\n%s", out)
	}
}
