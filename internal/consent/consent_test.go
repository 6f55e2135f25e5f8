package consent

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/config"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(t *testing.T, store PreferenceStore, scope string) (*Manager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	m := NewManager(store, config.Default(), Options{Scope: scope, Now: clock.Now})
	return m, clock
}

func TestCheckWithoutDecision(t *testing.T) {
	m, _ := newTestManager(t, NewMemoryStore(), "local")

	if got := m.Check(); got != StateUnknown {
		t.Errorf("Check() = %v, expected unknown", got)
	}
	if !m.BannerVisible() {
		t.Error("banner should be visible without a decision")
	}
	if m.Granted() {
		t.Error("consent should be denied without a decision")
	}
	if m.SponsorEligible() {
		t.Error("sponsor should not be eligible without consent")
	}
}

func TestAcceptPersists(t *testing.T) {
	store := NewMemoryStore()
	m, clock := newTestManager(t, store, "local")
	m.Check()

	if err := m.Accept(); err != nil {
		t.Fatalf("Accept() failed: %v", err)
	}
	if m.BannerVisible() || !m.Granted() || !m.SponsorEligible() {
		t.Error("accepting should hide the banner, grant consent and allow the sponsor")
	}

	// A fresh manager over the same store sees the decision
	other := NewManager(store, config.Default(), Options{Scope: "local", Now: clock.Now})
	if got := other.Check(); got != StateAccepted {
		t.Errorf("Check() after accept = %v, expected accepted", got)
	}
}

func TestDecline(t *testing.T) {
	store := NewMemoryStore()
	m, _ := newTestManager(t, store, "local")
	m.Check()

	if err := m.Decline(); err != nil {
		t.Fatalf("Decline() failed: %v", err)
	}
	if m.BannerVisible() {
		t.Error("banner should be hidden after decline")
	}
	if m.Granted() || m.SponsorEligible() {
		t.Error("decline should deny consent and never show the sponsor")
	}
	if got := m.Check(); got != StateDeclined {
		t.Errorf("Check() = %v, expected declined", got)
	}
}

func TestConsentExpires(t *testing.T) {
	m, clock := newTestManager(t, NewMemoryStore(), "local")
	m.Accept()

	clock.Advance(364 * 24 * time.Hour)
	if got := m.Check(); got != StateAccepted {
		t.Errorf("Check() before expiry = %v, expected accepted", got)
	}

	clock.Advance(2 * 24 * time.Hour)
	if got := m.Check(); got != StateUnknown {
		t.Errorf("Check() after expiry = %v, expected unknown", got)
	}
}

func TestCloseSponsorLastsOneDay(t *testing.T) {
	m, clock := newTestManager(t, NewMemoryStore(), "local")
	m.Accept()

	if err := m.CloseSponsor(); err != nil {
		t.Fatalf("CloseSponsor() failed: %v", err)
	}
	if m.SponsorEligible() {
		t.Error("closed sponsor should not be eligible")
	}

	clock.Advance(12 * time.Hour)
	m.Check()
	if !m.SponsorClosed() {
		t.Error("sponsor should stay closed within a day")
	}

	clock.Advance(13 * time.Hour)
	m.Check()
	if m.SponsorClosed() || !m.SponsorEligible() {
		t.Error("sponsor should be eligible again after a day")
	}
}

func TestScopesAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	alice, clock := newTestManager(t, store, "ssh:alice")
	bob := NewManager(store, config.Default(), Options{Scope: "ssh:bob", Now: clock.Now})

	alice.Accept()

	if got := bob.Check(); got != StateUnknown {
		t.Errorf("bob Check() = %v, expected unknown", got)
	}
	if got := alice.Key(ConsentKey); got != "ssh:alice:snakeGameCookieConsent" {
		t.Errorf("Key() = %q", got)
	}
	if got := ScopedKey("", ConsentKey); got != ConsentKey {
		t.Errorf("ScopedKey with empty scope = %q, expected %q", got, ConsentKey)
	}
}

func TestReset(t *testing.T) {
	store := NewMemoryStore()
	m, clock := newTestManager(t, store, "local")
	m.Accept()
	m.CloseSponsor()

	if err := m.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if !m.BannerVisible() || m.SponsorClosed() {
		t.Error("reset should forget both preferences")
	}
	if _, ok, _ := store.Preference(m.Key(ConsentKey), clock.Now()); ok {
		t.Error("stored consent should be deleted")
	}
}

func TestSponsorDelayFromConfig(t *testing.T) {
	m, _ := newTestManager(t, nil, "")
	if got := m.SponsorDelay(); got != 3*time.Second {
		t.Errorf("SponsorDelay() = %v, expected 3s", got)
	}
}

type failingStore struct{}

var errBroken = errors.New("broken")

func (failingStore) SetPreference(string, string, time.Time) error { return errBroken }
func (failingStore) Preference(string, time.Time) (string, bool, error) {
	return "", false, errBroken
}
func (failingStore) DeletePreference(string) error { return errBroken }

func TestStoreFailures(t *testing.T) {
	m, _ := newTestManager(t, failingStore{}, "local")

	if got := m.Check(); got != StateUnknown {
		t.Errorf("Check() with failing store = %v, expected unknown", got)
	}

	err := m.Accept()
	if !errors.Is(err, errBroken) {
		t.Errorf("Accept() error = %v, expected wrapped errBroken", err)
	}
	if m.State() != StateAccepted || !m.Granted() {
		t.Error("decision should apply in memory even when saving fails")
	}
}

func TestConsentUpdatesAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	m := NewManager(NewMemoryStore(), config.Default(), Options{Scope: "local", Logger: logger})

	m.Check()
	m.Accept()

	out := buf.String()
	if !strings.Contains(out, "ad_storage=denied") {
		t.Errorf("expected denied update in log, got:\n%s", out)
	}
	if !strings.Contains(out, "analytics_storage=granted") {
		t.Errorf("expected granted update in log, got:\n%s", out)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUnknown, "unknown"},
		{StateAccepted, "accepted"},
		{StateDeclined, "declined"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, expected %q", tt.state, got, tt.want)
		}
	}
}
