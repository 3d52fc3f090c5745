package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/thurmanmarka/astrowheel"
	"github.com/thurmanmarka/astrowheel/internal/playback"
	"github.com/thurmanmarka/astrowheel/internal/zodiac"
)

// minStep is the smallest step "-" will shrink to.
const minStep = time.Minute

type tickMsg time.Time

// playModel is the bubbletea model for interactive playback. The player owns
// the clock; every tick or key that moves it recomputes the chart.
type playModel struct {
	player  *playback.Player
	compute func(time.Time) (astrowheel.Chart, error)
	chart   astrowheel.Chart
	err     error
}

func newPlayModel(p *playback.Player, compute func(time.Time) (astrowheel.Chart, error)) playModel {
	m := playModel{player: p, compute: compute}
	return m.refresh()
}

func (m playModel) refresh() playModel {
	m.chart, m.err = m.compute(m.player.Now())
	return m
}

func (m playModel) tick() tea.Cmd {
	return tea.Tick(m.player.Settings().Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m playModel) Init() tea.Cmd {
	return m.tick()
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if !m.player.Paused() {
			m.player.Advance()
			m = m.refresh()
		}
		return m, m.tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			m.player.TogglePause()
		case "r":
			m.player.Reverse()
		case "right", "l":
			m.player.Advance()
			m = m.refresh()
		case "left", "h":
			m.player.Reverse()
			m.player.Advance()
			m.player.Reverse()
			m = m.refresh()
		case "+", "=":
			m.player.SetStep(m.player.Settings().Step * 2)
		case "-":
			if step := m.player.Settings().Step / 2; step >= minStep || step <= -minStep {
				m.player.SetStep(step)
			}
		case "0":
			m.player.Seek(0)
			m = m.refresh()
		}
	}
	return m, nil
}

func (m playModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("astrowheel " + m.player.Now().Format("2006-01-02 15:04 MST")))
	b.WriteString("\n")

	state := "▶ playing"
	if m.player.Paused() {
		state = "⏸ paused"
	}
	settings := m.player.Settings()
	b.WriteString(styleDim.Render(fmt.Sprintf("%s  step %s  offset %s", state, settings.Step, m.player.Offset())))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styleWarning.Render(m.err.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(m.summary())
		b.WriteString(m.table().Render())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleDim.Render("space pause  r reverse  ←/→ step  +/- speed  0 reset  q quit"))
	return b.String()
}

func (m playModel) summary() string {
	script := m.chart.Config.LabelScript
	asc := "undefined"
	if m.chart.Ascendant.Defined {
		asc = position(m.chart.Ascendant.Longitude, script)
	}
	return fmt.Sprintf("%s %s   %s %s   %s\n",
		styleHeader.Render("Asc"), asc,
		styleHeader.Render("MC"), position(m.chart.Midheaven, script),
		m.chart.Lunar.Name)
}

func (m playModel) table() *table.Table {
	script := m.chart.Config.LabelScript
	rows := make([][]string, 0, len(m.chart.Placements))
	for _, p := range m.chart.Placements {
		retro := ""
		if p.Retrograde {
			retro = "R"
		}
		rows = append(rows, []string{
			p.Body.String(),
			p.SignName(script),
			zodiac.FormatDM(zodiac.SignOf(p.Longitude)),
			retro,
		})
	}
	placements := m.chart.Placements
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Body", "Sign", "Degree", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if row >= 0 && row < len(placements) && placements[row].Retrograde {
				return styleRetro
			}
			return lipgloss.NewStyle()
		})
}
