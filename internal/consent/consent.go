// Package consent tracks the player's cookie-consent choice and decides when
// the sponsor banner may be shown.
package consent

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/config"
)

// Preference keys, stored under the manager's scope.
const (
	ConsentKey       = "snakeGameCookieConsent"
	SponsorClosedKey = "snakeGameStickyAdClosed"

	valueAccepted = "accepted"
	valueDeclined = "declined"
	valueClosed   = "true"
)

// State is the stored consent decision.
type State int

const (
	StateUnknown State = iota
	StateAccepted
	StateDeclined
)

func (s State) String() string {
	switch s {
	case StateAccepted:
		return "accepted"
	case StateDeclined:
		return "declined"
	default:
		return "unknown"
	}
}

// Options configures a Manager.
type Options struct {
	// Scope namespaces the stored keys, e.g. "local" or "ssh:alice".
	Scope string

	// Logger receives consent updates. Nil discards them.
	Logger *log.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Manager owns the consent state for one player.
// It is not safe for concurrent use.
type Manager struct {
	store        PreferenceStore
	logger       *log.Logger
	scope        string
	now          func() time.Time
	consentTTL   time.Duration
	sponsorTTL   time.Duration
	sponsorDelay time.Duration

	state         State
	granted       bool
	sponsorClosed bool
}

// NewManager creates a manager backed by store. A nil store falls back to
// an in-memory one. Call Check to load the stored decision.
func NewManager(store PreferenceStore, cfg config.Config, opts Options) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Manager{
		store:        store,
		logger:       logger,
		scope:        opts.Scope,
		now:          now,
		consentTTL:   cfg.ConsentTTL(),
		sponsorTTL:   cfg.SponsorClosedTTL(),
		sponsorDelay: cfg.SponsorDelay(),
	}
}

// Key returns the stored key for name within the manager's scope.
func (m *Manager) Key(name string) string {
	return ScopedKey(m.scope, name)
}

// ScopedKey joins scope and name the way Manager stores them.
func ScopedKey(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + ":" + name
}

// Check loads the stored decision and applies it.
// Read failures are logged and treated as no decision.
func (m *Manager) Check() State {
	now := m.now()

	value, ok, err := m.store.Preference(m.Key(ConsentKey), now)
	if err != nil {
		m.logger.Warn("could not read consent", "scope", m.scope, "error", err)
		ok = false
	}

	switch {
	case ok && value == valueAccepted:
		m.state = StateAccepted
	case ok && value == valueDeclined:
		m.state = StateDeclined
	default:
		m.state = StateUnknown
	}

	_, closed, err := m.store.Preference(m.Key(SponsorClosedKey), now)
	if err != nil {
		m.logger.Warn("could not read sponsor preference", "scope", m.scope, "error", err)
	}
	m.sponsorClosed = closed

	m.apply(m.state == StateAccepted)
	return m.state
}

// Accept records consent. The in-memory state changes even when saving fails.
func (m *Manager) Accept() error {
	return m.decide(StateAccepted, valueAccepted)
}

// Decline records refusal. The in-memory state changes even when saving fails.
func (m *Manager) Decline() error {
	return m.decide(StateDeclined, valueDeclined)
}

func (m *Manager) decide(state State, value string) error {
	m.state = state
	m.apply(state == StateAccepted)

	expires := m.now().Add(m.consentTTL)
	if err := m.store.SetPreference(m.Key(ConsentKey), value, expires); err != nil {
		return fmt.Errorf("consent: cannot save decision: %w", err)
	}
	return nil
}

// CloseSponsor hides the sponsor banner and remembers that for the
// configured period.
func (m *Manager) CloseSponsor() error {
	m.sponsorClosed = true

	expires := m.now().Add(m.sponsorTTL)
	if err := m.store.SetPreference(m.Key(SponsorClosedKey), valueClosed, expires); err != nil {
		return fmt.Errorf("consent: cannot save sponsor preference: %w", err)
	}
	m.logger.Debug("sponsor closed", "scope", m.scope, "until", expires.Format(time.RFC3339))
	return nil
}

// Reset forgets both the consent decision and the closed sponsor.
func (m *Manager) Reset() error {
	m.state = StateUnknown
	m.sponsorClosed = false
	m.apply(false)

	for _, name := range []string{ConsentKey, SponsorClosedKey} {
		if err := m.store.DeletePreference(m.Key(name)); err != nil {
			return fmt.Errorf("consent: cannot reset %s: %w", name, err)
		}
	}
	return nil
}

// apply publishes the consent signal for the ad and analytics storage
// categories.
func (m *Manager) apply(granted bool) {
	m.granted = granted
	status := "denied"
	if granted {
		status = "granted"
	}
	m.logger.Info("consent update",
		"scope", m.scope,
		"ad_storage", status,
		"analytics_storage", status,
	)
}

// State returns the current decision.
func (m *Manager) State() State { return m.state }

// Granted reports whether consent is currently applied as granted.
func (m *Manager) Granted() bool { return m.granted }

// BannerVisible reports whether the consent prompt should be shown.
func (m *Manager) BannerVisible() bool { return m.state == StateUnknown }

// SponsorClosed reports whether the sponsor banner was dismissed.
func (m *Manager) SponsorClosed() bool { return m.sponsorClosed }

// SponsorEligible reports whether the sponsor banner may be scheduled.
func (m *Manager) SponsorEligible() bool {
	return m.state == StateAccepted && !m.sponsorClosed
}

// SponsorDelay is how long to wait before showing the sponsor banner.
func (m *Manager) SponsorDelay() time.Duration { return m.sponsorDelay }
