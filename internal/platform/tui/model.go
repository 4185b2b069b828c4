package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/engine"
)

// helpHeight is the number of terminal rows reserved for the help line.
const helpHeight = 1

var tooSmallStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("9")).
	Bold(true)

// Option configures a Model.
type Option func(*Model)

// WithMinSize sets the smallest screen the scenes can be drawn on.
func WithMinSize(w, h int) Option {
	return func(m *Model) {
		m.minW, m.minH = w, h
	}
}

// WithLogger sets the logger for frame errors and screenshots.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithScreenshotDir sets where ctrl+s writes screenshots.
func WithScreenshotDir(dir string) Option {
	return func(m *Model) {
		m.shotDir = dir
	}
}

// Model is the Bubble Tea model driving a scene host.
type Model struct {
	host    *engine.Host
	screen  *core.Screen
	config  core.RuntimeConfig
	keys    KeyMap
	help    help.Model
	logger  *log.Logger
	shotDir string

	inputFrame core.InputFrame
	lastTick   time.Time
	minW, minH int
	err        error
	quitting   bool
}

// NewModel creates a new Bubble Tea model for a started host.
func NewModel(host *engine.Host, cfg core.RuntimeConfig, opts ...Option) Model {
	m := Model{
		host:       host,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		logger:     log.New(os.Stderr),
		inputFrame: core.NewInputFrame(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.shotDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			m.shotDir = filepath.Join(home, ".tetris", "screenshots")
		}
	}
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickInterval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	}

	m.keys.MapKeyToFrame(msg, &m.inputFrame)
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = max(msg.Height-helpHeight, 0)
	m.screen.Resize(m.config.ScreenW, m.config.ScreenH)
	m.help.Width = msg.Width
	return m, nil
}

// handleTick advances the active scene by one frame.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.host.Stopped() {
		m.quitting = true
		return m, tea.Quit
	}

	delta := m.config.TickInterval()
	if !m.lastTick.IsZero() && now.After(m.lastTick) {
		delta = now.Sub(m.lastTick)
	}
	m.lastTick = now

	if !m.tooSmall() {
		if err := m.host.Update(m.frame(delta)); err != nil {
			m.logger.Error("frame failed", "err", err)
			m.err = err
			m.quitting = true
			return m, tea.Quit
		}
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	if m.host.Stopped() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, tickCmd(m.config.TickInterval())
}

func (m Model) frame(delta time.Duration) engine.Frame {
	return engine.Frame{
		Delta:    delta,
		Input:    m.inputFrame.Clone(),
		Viewport: m.screen.Bounds(),
	}
}

func (m Model) tooSmall() bool {
	return m.screen.Width() < m.minW || m.screen.Height() < m.minH
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	if m.shotDir == "" {
		return
	}
	m.host.Draw(m.frame(0), m.screen)

	if err := os.MkdirAll(m.shotDir, 0o755); err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return
	}
	name := fmt.Sprintf("tetris_%s.txt", time.Now().Format("20060102_150405"))
	path := filepath.Join(m.shotDir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// Err returns the error that stopped the frame loop, if any.
func (m Model) Err() error {
	return m.err
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.tooSmall() {
		return tooSmallStyle.Render(fmt.Sprintf(
			"Terminal too small: %dx%d, need at least %dx%d",
			m.screen.Width(), m.screen.Height()+helpHeight, m.minW, m.minH+helpHeight))
	}

	m.host.Draw(m.frame(0), m.screen)
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// Run starts the Bubble Tea program for a started host and blocks until
// the host stops or the user forces an exit.
func Run(host *engine.Host, cfg core.RuntimeConfig, opts ...Option) error {
	model := NewModel(host, cfg, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}
