package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/handbeat/internal/score"
	"github.com/vovakirdan/handbeat/internal/session"
	"github.com/vovakirdan/handbeat/internal/sim"
	"github.com/vovakirdan/handbeat/internal/tracking"
)

const hudWidth = 30

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	valueStyle = lipgloss.NewStyle().
			Bold(true)
	goodStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))
	badStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("11"))
	missStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(hudWidth)
)

// hud renders the score panel next to the lanes.
type hud struct {
	health progress.Model
	track  progress.Model
}

func newHUD() hud {
	return hud{
		health: progress.New(
			progress.WithGradient("#ff5f5f", "#5fff87"),
			progress.WithWidth(hudWidth-4),
			progress.WithoutPercentage(),
		),
		track: progress.New(
			progress.WithSolidFill("#5f87ff"),
			progress.WithWidth(hudWidth-4),
		),
	}
}

func line(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-10s", label)) + valueStyle.Render(value)
}

// judgementText describes the most recent resolution.
func judgementText(e sim.Event) string {
	switch e.Kind {
	case sim.KindHit:
		if e.Quality == sim.Good {
			return goodStyle.Render("GOOD")
		}
		return badStyle.Render("BAD") + labelStyle.Render(" "+e.Flaw.String())
	case sim.KindMiss:
		return missStyle.Render("MISS")
	}
	return ""
}

func trackingText(status tracking.Status, err error) string {
	switch status {
	case tracking.StatusReady:
		return goodStyle.Render("ready")
	case tracking.StatusUnavailable:
		msg := "unavailable"
		if err != nil {
			msg = err.Error()
		}
		return missStyle.Render(msg)
	default:
		return badStyle.Render(status.String())
	}
}

// View renders the panel for a snapshot. status and notice describe things the snapshot
// does not carry.
func (h hud) View(snap session.Snapshot, status tracking.Status, statusErr error, paused bool, notice string) string {
	var b strings.Builder
	sc := snap.Score

	phase := snap.Phase.String()
	if paused {
		phase = "paused"
	}
	b.WriteString(titleStyle.Render(strings.ToUpper(phase)))
	b.WriteString("\n\n")

	b.WriteString(line("score", fmt.Sprintf("%d", sc.Score)) + "\n")
	b.WriteString(line("combo", fmt.Sprintf("%d  x%d", sc.Combo, sc.Multiplier)) + "\n")
	b.WriteString(line("accuracy", fmt.Sprintf("%.1f%%", sc.Accuracy()*100)) + "\n")
	b.WriteString(line("health", fmt.Sprintf("%d", sc.Health)) + "\n")
	b.WriteString(h.health.ViewAs(float64(sc.Health)/float64(score.MaxHealth)) + "\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%.1fs / %.1fs", snap.Time, snap.Length)) + "\n")
	b.WriteString(h.track.ViewAs(snap.Progress()) + "\n\n")

	for i := len(snap.Recent) - 1; i >= 0; i-- {
		if snap.Recent[i].Kind != sim.KindSessionEnd {
			b.WriteString(judgementText(snap.Recent[i]))
			break
		}
	}
	b.WriteString("\n")
	b.WriteString(line("tracking", trackingText(status, statusErr)) + "\n")

	if snap.Result != nil {
		b.WriteString("\n" + resultText(*snap.Result))
	}
	if notice != "" {
		b.WriteString("\n" + badStyle.Render(notice))
	}

	return panelStyle.Render(b.String())
}

// resultText summarises a finished run.
func resultText(r session.Result) string {
	var b strings.Builder
	if r.Victory {
		b.WriteString(goodStyle.Render("CLEARED"))
	} else {
		b.WriteString(missStyle.Render("FAILED"))
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf(" at %.1fs", r.Time)) + "\n")
	b.WriteString(line("grade", r.Score.Grade()) + "\n")
	b.WriteString(line("max combo", fmt.Sprintf("%d", r.Score.MaxCombo)) + "\n")
	b.WriteString(line("good", fmt.Sprintf("%d", r.Score.Hits)) + "\n")
	b.WriteString(line("bad", fmt.Sprintf("%d", r.Score.Bads)) + "\n")
	b.WriteString(line("miss", fmt.Sprintf("%d", r.Score.Misses)) + "\n")
	b.WriteString(labelStyle.Render("r to play again, esc for charts"))
	return b.String()
}
