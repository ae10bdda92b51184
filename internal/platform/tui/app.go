package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/handbeat/internal/config"
	"github.com/vovakirdan/handbeat/internal/core"
	"github.com/vovakirdan/handbeat/internal/storage"
)

// Launcher builds the stage for a picked chart.
type Launcher func(sel Selection) (*Stage, error)

// AppModel manages the full flow: chart picker -> play -> picker.
// It is the top-level model for local library play and for SSH sessions.
type AppModel struct {
	store    *storage.Store
	launch   Launcher
	config   core.RuntimeConfig
	preset   config.DifficultyPreset
	logger   *log.Logger
	picker   PickerModel
	play     *Model
	stage    *Stage
	quitting bool
}

// NewAppModel creates the app flow starting at the picker.
func NewAppModel(store *storage.Store, launch Launcher, cfg core.RuntimeConfig, preset config.DifficultyPreset, logger *log.Logger) AppModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return AppModel{
		store:  store,
		launch: launch,
		config: cfg,
		preset: preset,
		logger: logger,
		picker: NewPickerModel(store, preset, cfg.ScreenW, cfg.ScreenH),
	}
}

// Init initializes the picker.
func (m AppModel) Init() tea.Cmd {
	return m.picker.Init()
}

// Update handles messages for the current screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Track window size globally so a new screen starts at the right size
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if m.play != nil {
		return m.updatePlay(msg)
	}
	return m.updatePicker(msg)
}

// updatePicker handles updates while choosing a chart.
func (m AppModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	newPicker, cmd := m.picker.Update(msg)
	if p, ok := newPicker.(PickerModel); ok {
		m.picker = p
	}

	if m.picker.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	sel := m.picker.Selected()
	if sel == nil {
		return m, cmd
	}

	m.preset = sel.Preset
	stage, err := m.launch(*sel)
	if err != nil {
		m.logger.Error("could not open chart", "chart", sel.Slug, "error", err)
		m.picker = NewPickerModel(m.store, m.preset, m.config.ScreenW, m.config.ScreenH).
			WithNotice(fmt.Sprintf("could not open %s: %v", sel.Title, err))
		return m, nil
	}

	play := NewModel(stage, m.config)
	m.stage = stage
	m.play = &play
	return m, m.play.Init()
}

// updatePlay handles updates while a chart is open.
func (m AppModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.play.Update(msg)
	if pm, ok := newModel.(Model); ok {
		m.play = &pm
	}

	if m.play.IsQuitting() {
		m.closeStage()
		m.quitting = true
		return m, tea.Quit
	}

	if m.play.BackToMenu() {
		m.closeStage()
		m.play = nil
		m.picker = NewPickerModel(m.store, m.preset, m.config.ScreenW, m.config.ScreenH)
		return m, m.picker.Init()
	}

	return m, cmd
}

func (m *AppModel) closeStage() {
	if m.stage == nil {
		return
	}
	if err := m.stage.Close(); err != nil {
		m.logger.Warn("closing stage", "error", err)
	}
	m.stage = nil
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	if m.play != nil {
		return m.play.View()
	}
	return m.picker.View()
}

// RunApp runs the picker and play flow in the terminal.
func RunApp(store *storage.Store, launch Launcher, cfg core.RuntimeConfig, preset config.DifficultyPreset, logger *log.Logger) error {
	model := NewAppModel(store, launch, cfg, preset, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if m, ok := final.(AppModel); ok {
		m.closeStage()
	}
	return err
}
