package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/canvas"
	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/consent"
	"github.com/vovakirdan/tui-snake/internal/snake"
)

// Board scaling limits, in pixels per grid cell
const (
	defaultScale = 2
	maxScale     = 4

	// chromeLines is the number of terminal lines used around the board.
	chromeLines = 9
)

// Options configures a Model.
type Options struct {
	// Seed for food placement; 0 uses the clock.
	Seed int64

	// Scale is pixels per grid cell. 0 fits the board to the terminal.
	Scale int

	// Consent manager for this player. Nil uses an in-memory one.
	Consent *consent.Manager

	// Renderer for styles; SSH sessions pass their own.
	Renderer *lipgloss.Renderer

	// Logger for game events. Nil discards them.
	Logger *log.Logger

	// ScreenshotDir is where ctrl+s writes PNG files.
	ScreenshotDir string

	// SessionID tags log lines.
	SessionID string

	// Width and Height are the initial terminal size, if known.
	Width, Height int
}

// DefaultScreenshotDir returns ~/.snake/screenshots, or a directory under
// the system temp dir when the home directory is unknown.
func DefaultScreenshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "snake", "screenshots")
	}
	return filepath.Join(home, ".snake", "screenshots")
}

// sponsorMsg fires when the sponsor delay elapses.
type sponsorMsg struct{}

// hud receives engine notifications for the header and game-over views.
type hud struct {
	score      int
	finalScore int
	status     snake.Status
	logger     *log.Logger
}

func (h *hud) ScoreChanged(score int) {
	h.score = score
}

func (h *hud) StatusChanged(status snake.Status) {
	h.status = status
	h.logger.Debug("status changed", "status", status)
}

func (h *hud) GameOver(score int) {
	h.finalScore = score
	h.logger.Info("game over", "score", score)
}

// Model is the Bubble Tea model for one snake game.
type Model struct {
	cfg     config.Config
	engine  *snake.Engine
	loop    *tickLoop
	hud     *hud
	surface *canvas.ImageSurface
	blocks  *BlockRenderer
	consent *consent.Manager
	logger  *log.Logger

	keys   KeyMap
	help   help.Model
	styles styles

	scale         int
	autoScale     bool
	screenshotDir string
	width, height int

	sponsorVisible bool
	message        string
	quitting       bool
}

// NewModel creates a model with an idle game.
func NewModel(cfg config.Config, opts Options) (Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.SessionID != "" {
		logger = logger.With("session", opts.SessionID)
	}

	r := opts.Renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	cm := opts.Consent
	if cm == nil {
		cm = consent.NewManager(nil, cfg, consent.Options{Scope: "local", Logger: logger})
	}

	scale := opts.Scale
	autoScale := scale <= 0
	if autoScale {
		scale = fitScale(cfg.Board.GridSize, opts.Width, opts.Height)
	}

	screenshotDir := opts.ScreenshotDir
	if screenshotDir == "" {
		screenshotDir = DefaultScreenshotDir()
	}

	surface := canvas.NewImageSurface(float64(cfg.Board.CanvasSize), cfg.Board.GridSize*scale)
	loop := &tickLoop{}
	h := &hud{logger: logger}

	engine, err := snake.New(cfg, snake.Options{
		Seed:      opts.Seed,
		Surface:   surface,
		Presenter: h,
		Scheduler: loop,
	})
	if err != nil {
		return Model{}, fmt.Errorf("tui: %w", err)
	}
	h.status = engine.Status()

	cm.Check()

	hm := help.New()
	hm.Width = opts.Width

	return Model{
		cfg:           cfg,
		engine:        engine,
		loop:          loop,
		hud:           h,
		surface:       surface,
		blocks:        NewBlockRenderer(r),
		consent:       cm,
		logger:        logger,
		keys:          DefaultKeyMap(),
		help:          hm,
		styles:        newStyles(r),
		scale:         scale,
		autoScale:     autoScale,
		screenshotDir: screenshotDir,
		width:         opts.Width,
		height:        opts.Height,
	}, nil
}

// fitScale picks the largest scale whose board fits a w×h terminal.
// Each terminal line shows two pixel rows.
func fitScale(grid, w, h int) int {
	if w <= 0 || h <= 0 {
		return defaultScale
	}
	pixels := min(w, 2*(h-chromeLines))
	return max(1, min(maxScale, pixels/grid))
}

// Init schedules the sponsor banner when consent is already on record.
func (m Model) Init() tea.Cmd {
	return m.sponsorCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if m.loop.Accept(msg) {
			m.engine.Tick()
		}
		return m, m.loop.Cmd()

	case sponsorMsg:
		if m.consent.SponsorEligible() {
			m.sponsorVisible = true
			m.logger.Debug("sponsor shown")
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.loop.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()

	case key.Matches(msg, m.keys.Accept) && m.consent.BannerVisible():
		if err := m.consent.Accept(); err != nil {
			m.logger.Warn("consent not saved", "error", err)
		}
		cmd = m.sponsorCmd()

	case key.Matches(msg, m.keys.Decline) && m.consent.BannerVisible():
		if err := m.consent.Decline(); err != nil {
			m.logger.Warn("consent not saved", "error", err)
		}

	case key.Matches(msg, m.keys.CloseSponsor) && m.sponsorVisible:
		m.sponsorVisible = false
		if err := m.consent.CloseSponsor(); err != nil {
			m.logger.Warn("sponsor preference not saved", "error", err)
		}

	case key.Matches(msg, m.keys.Start):
		m.engine.Start()

	case key.Matches(msg, m.keys.Restart):
		m.engine.Restart()

	case key.Matches(msg, m.keys.Pause):
		m.engine.TogglePause()

	default:
		if d, ok := m.keys.Direction(msg); ok {
			m.engine.RequestDirection(d)
		}
	}

	return m, tea.Batch(m.loop.Cmd(), cmd)
}

// handleResize refits the board to the new terminal size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width

	if m.autoScale {
		scale := fitScale(m.cfg.Board.GridSize, msg.Width, msg.Height)
		if scale != m.scale {
			m.scale = scale
			m.surface = canvas.NewImageSurface(float64(m.cfg.Board.CanvasSize), m.cfg.Board.GridSize*scale)
			m.engine.SetSurface(m.surface)
		}
	}

	return m, nil
}

func (m Model) sponsorCmd() tea.Cmd {
	if !m.consent.SponsorEligible() {
		return nil
	}
	return tea.Tick(m.consent.SponsorDelay(), func(time.Time) tea.Msg {
		return sponsorMsg{}
	})
}

// saveScreenshot writes the current board to a PNG file.
func (m *Model) saveScreenshot() {
	name := fmt.Sprintf("snake_%s.png", time.Now().Format("20060102_150405"))
	path := filepath.Join(m.screenshotDir, name)

	if err := m.surface.SavePNG(path); err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		m.message = "Screenshot failed: " + err.Error()
		return
	}
	m.logger.Info("screenshot saved", "path", path)
	m.message = "Saved " + path
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.styles
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		st.title.Render("SNAKE"),
		"   ",
		st.score.Render(fmt.Sprintf("Score: %d", m.hud.score)),
		"   ",
		st.status.Render(m.hud.status.String()),
	)

	parts := []string{header, m.blocks.Render(m.surface.Image())}

	switch m.hud.status {
	case snake.StatusIdle:
		parts = append(parts, st.hint.Render("Press enter to start"))
	case snake.StatusPaused:
		parts = append(parts, st.hint.Render("Paused, press p to resume"))
	case snake.StatusOver:
		parts = append(parts, st.gameOver.Render(fmt.Sprintf(
			"Game Over\nFinal score: %d\n\nenter: play again",
			m.hud.finalScore,
		)))
	}

	if m.message != "" {
		parts = append(parts, st.message.Render(m.message))
	}

	if m.consent.BannerVisible() {
		parts = append(parts, st.banner.Render(
			"We use cookies to personalise ads and analyse traffic.\n"+
				"y: accept   n: decline",
		))
	}

	if m.sponsorVisible {
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top,
			st.sponsor.Render("Sponsored: more terminal games at your fingertips"),
			st.hint.Render("  x: close"),
		))
	}

	parts = append(parts, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Run starts the Bubble Tea program for a local game.
func Run(cfg config.Config, opts Options) error {
	model, err := NewModel(cfg, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err = p.Run()
	return err
}
