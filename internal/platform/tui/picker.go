package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/handbeat/internal/config"
	"github.com/vovakirdan/handbeat/internal/storage"
)

// Picker layout constants
const (
	minWidthForArtist = 70 // Minimum width to show the artist column
	pickerChrome      = 8  // rows taken by title, help and margins
)

// presets is the order the picker cycles difficulty in.
var presets = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
	config.DifficultyFixed,
}

// PickerKeyMap defines the key bindings for the chart picker.
type PickerKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Difficulty key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Difficulty, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Difficulty, k.Quit},
	}
}

// DefaultPickerKeyMap returns default key bindings.
func DefaultPickerKeyMap() PickerKeyMap {
	return PickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "move down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play"),
		),
		Difficulty: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "difficulty"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Selection is the chart and difficulty the user picked.
type Selection struct {
	Slug   string
	Title  string
	Preset config.DifficultyPreset
}

// PickerModel is the Bubble Tea model for choosing a chart from the library.
type PickerModel struct {
	charts   []storage.ChartEntry
	loadErr  error
	preset   int // index into presets
	table    table.Model
	help     help.Model
	keys     PickerKeyMap
	width    int
	height   int
	selected *Selection
	notice   string // last launch failure
	quitting bool
}

// NewPickerModel creates a picker over the charts in store.
func NewPickerModel(store *storage.Store, preset config.DifficultyPreset, width, height int) PickerModel {
	m := PickerModel{
		keys:   DefaultPickerKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
		preset: 1,
	}
	for i, p := range presets {
		if p == preset {
			m.preset = i
		}
	}

	if store != nil {
		m.charts, m.loadErr = store.ListCharts()
	}
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// createTable creates a new table with columns fitted to the width.
func (m *PickerModel) createTable() table.Model {
	tableWidth := m.width - 6 // border and padding
	columns := []table.Column{
		{Title: "Title", Width: 24},
		{Title: "Notes", Width: 6},
		{Title: "Length", Width: 7},
	}
	if m.width >= minWidthForArtist {
		columns = append(columns, table.Column{Title: "Artist", Width: 18})
	}

	// Give spare width to the title column
	used := 0
	for _, c := range columns {
		used += c.Width + 2
	}
	if spare := tableWidth - used; spare > 0 {
		columns[0].Width += min(spare, 20)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-pickerChrome)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows fills the table from the loaded charts.
func (m *PickerModel) updateTableRows() {
	withArtist := m.width >= minWidthForArtist
	rows := make([]table.Row, len(m.charts))
	for i, c := range m.charts {
		row := table.Row{
			c.Title,
			fmt.Sprintf("%d", c.Notes),
			formatLength(c.Duration),
		}
		if withArtist {
			row = append(row, c.Artist)
		}
		rows[i] = row
	}
	m.table.SetRows(rows)
}

func formatLength(seconds float64) string {
	s := int(seconds + 0.5)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// Init initializes the picker model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Difficulty):
			m.preset = (m.preset + 1) % len(presets)
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if i := m.table.Cursor(); i >= 0 && i < len(m.charts) {
				m.selected = &Selection{
					Slug:   m.charts[i].Slug,
					Title:  m.charts[i].Title,
					Preset: presets[m.preset],
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		cursor := m.table.Cursor()
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	pickerTitle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	b.WriteString(pickerTitle.Render(centerText("HANDBEAT", m.width)))
	b.WriteString("\n")
	b.WriteString(centerText(labelStyle.Render("difficulty: ")+valueStyle.Render(string(presets[m.preset])), m.width))
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(centerText(badStyle.Render(m.notice), m.width))
	}
	b.WriteString("\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m PickerModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.loadErr != nil:
		return emptyStyle.Render("Could not read the chart library:\n" + m.loadErr.Error())
	case len(m.charts) == 0:
		return emptyStyle.Render("No charts in the library yet.\nAdd one with: handbeat charts import <file>")
	}
	return m.table.View()
}

// Selected returns the pick, or nil while the user is still choosing.
func (m PickerModel) Selected() *Selection {
	return m.selected
}

// WithNotice returns the picker showing msg above the chart list.
func (m PickerModel) WithNotice(msg string) PickerModel {
	m.notice = msg
	return m
}

// IsQuitting returns true if user wants to quit entirely.
func (m PickerModel) IsQuitting() bool {
	return m.quitting
}

// centerText pads text so it sits in the middle of width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
