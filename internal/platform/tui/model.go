package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/handbeat/internal/core"
	"github.com/vovakirdan/handbeat/internal/hand"
	"github.com/vovakirdan/handbeat/internal/session"
	"github.com/vovakirdan/handbeat/internal/storage"
)

var helpKey = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "all keys"))

// Model is the Bubble Tea model for playing one chart.
type Model struct {
	stage    *Stage
	puppet   *puppeteer // nil unless hands are synthetic
	screen   *core.Screen
	config   core.RuntimeConfig
	keys     PlayKeyMap
	help     help.Model
	hud      hud
	frame    core.InputFrame
	tickLoop uint64
	paused   bool
	notice   string
	quitting bool
	back     bool

	// quitOnBack ends the program on back when there is no chart list to return to.
	quitOnBack bool
}

// NewModel creates a play model for a stage.
func NewModel(stage *Stage, cfg core.RuntimeConfig) Model {
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	m := Model{
		stage:  stage,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config: cfg,
		keys:   DefaultPlayKeyMap(),
		help:   help.New(),
		hud:    newHUD(),
		frame:  core.NewInputFrame(),

		tickLoop: newTickLoop(),
	}
	if stage.Rig != nil {
		m.puppet = newPuppeteer(stage.Rig, stage.Field, stage.Chart.Lanes, stage.Chart.Layers)
	}
	m.help.Width = cfg.ScreenW
	return m
}

// Init starts the tick loop. The run itself starts on the first start key.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate, m.tickLoop)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.Loop != m.tickLoop {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input. Hand keys move the puppets at once; session keys
// are collected and applied on the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}
	if key.Matches(msg, helpKey) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	c := m.keys.MapKey(msg)
	switch {
	case c.Action == core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case c.Action == core.ActionBack:
		if m.stage.Session.Phase() == session.PhasePlaying && !m.paused {
			// leaving mid-run needs a pause first
			return m, nil
		}
		m.back = true
		if m.quitOnBack {
			return m, tea.Quit
		}
		return m, nil
	case c.Hand:
		if m.puppet != nil {
			m.puppet.Apply(c.Side, c.Action)
		}
	case c.Action != core.ActionNone:
		m.frame.Set(c.Action)
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width
	return m, nil
}

// handleTick applies collected session actions and advances the run.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.back {
		return m, nil
	}
	sess := m.stage.Session
	phase := sess.Phase()

	switch {
	case m.frame.Has(core.ActionRestart) && (phase == session.PhasePlaying || phase.Terminal()):
		sess.Stop()
		m.start()
	case m.frame.Has(core.ActionStart) && phase != session.PhasePlaying:
		m.start()
	case m.frame.Has(core.ActionPause) && phase == session.PhasePlaying:
		m.togglePause()
	}
	m.frame.Clear()

	if !m.paused {
		sess.Tick(m.stage.Board.Latest())
	}

	return m, tickCmd(m.config.TickRate, m.tickLoop)
}

func (m *Model) start() {
	err := m.stage.Session.Start()
	switch {
	case err == nil:
		m.notice = ""
		m.paused = false
	case errors.Is(err, session.ErrTrackingNotReady):
		m.notice = "waiting for hand tracking"
	case errors.Is(err, session.ErrPlaybackBlocked):
		m.notice = "audio blocked, press enter to retry"
	default:
		m.notice = err.Error()
	}
	if err != nil {
		m.stage.logger.Warn("could not start run", "error", err)
	}
}

func (m *Model) togglePause() {
	if !m.paused {
		m.stage.Session.Pause()
		m.paused = true
		return
	}
	if err := m.stage.Session.Resume(); err != nil {
		m.notice = "audio blocked, press p to retry"
		return
	}
	m.notice = ""
	m.paused = false
}

// saveScreenshot saves the current lane view to a text file.
func (m *Model) saveScreenshot() {
	m.drawLanes(m.snapshot())

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".handbeat", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", storage.Slug(m.stage.Chart.Title), timestamp)

	//nolint:errcheck // Best-effort save, play continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// snapshot returns the session view. Outside a run the hands come straight from the
// board so the player can line up before starting.
func (m Model) snapshot() session.Snapshot {
	snap := m.stage.Session.Snapshot()
	if snap.Phase != session.PhasePlaying {
		snap.Hands = m.stage.Board.Latest()
	}
	return snap
}

// drawLanes renders the highway and the front grid into the screen buffer.
func (m *Model) drawLanes(snap session.Snapshot) {
	lanes, layers := m.stage.Chart.Lanes, m.stage.Chart.Layers
	gw, gh := gridSize(lanes, layers)
	hw := highwayWidth(lanes)
	h := max(gh+2, m.config.ScreenH-4)

	m.screen.Resize(hw+1+gw, h)
	m.screen.Clear()

	highway, rest := m.screen.Bounds().SplitX(hw)
	drawHighway(m.screen, highway, snap)
	drawGrid(m.screen, core.NewRect(rest.X+1, rest.Y, gw, gh), snap)

	if snap.Phase == session.PhaseIdle {
		m.screen.DrawTextCentered(highway, highway.Y+highway.H/3, "ENTER", core.ColorBrightWhite)
		m.screen.DrawTextCentered(highway, highway.Y+highway.H/3+1, "to start", core.ColorGray)
	}
	if m.puppet != nil {
		m.drawHandLegend(core.NewRect(rest.X+1, rest.Y+gh, gw, 2))
	}
}

// drawHandLegend prints where each keyboard hand is aimed.
func (m *Model) drawHandLegend(area core.Rect) {
	for i, side := range hand.Sides {
		lane, layer := m.puppet.Cell(side)
		text := fmt.Sprintf("%s lane %d layer %d", handMarker(side, false), lane+1, layer+1)
		if m.puppet.Hidden(side) {
			text = fmt.Sprintf("%s hidden", handMarker(side, false))
		}
		m.screen.DrawTextColored(area.X, area.Y+i, text, handColors[side])
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.back {
		return ""
	}

	snap := m.snapshot()
	m.drawLanes(snap)

	status, statusErr := m.stage.Loop.Status()
	title := titleStyle.Render(snap.Chart.Title)
	if snap.Chart.Artist != "" {
		title += labelStyle.Render("  " + snap.Chart.Artist)
	}
	title += labelStyle.Render(fmt.Sprintf("  [%s]", m.stage.Backend))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		RenderScreen(m.screen),
		" ",
		m.hud.View(snap, status, statusErr, m.paused, m.notice),
	)

	helpView := labelStyle.Render(m.help.View(m.keys) + "  " + helpKey.Help().Key + " " + helpKey.Help().Desc)
	return lipgloss.JoinVertical(lipgloss.Left, title, body, helpView)
}

// IsQuitting returns true if the user asked to exit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked for the chart list.
func (m Model) BackToMenu() bool {
	return m.back
}

// Run plays one stage in the terminal until the user quits or goes back.
func Run(stage *Stage, cfg core.RuntimeConfig) error {
	model := NewModel(stage, cfg)
	model.quitOnBack = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
