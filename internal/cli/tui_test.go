package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/thurmanmarka/astrowheel"
	"github.com/thurmanmarka/astrowheel/internal/playback"
)

func newTestModel(t *testing.T) playModel {
	t.Helper()
	base := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	p, err := playback.New(base, playback.Settings{
		Step:     time.Hour,
		Min:      -24 * time.Hour,
		Max:      24 * time.Hour,
		Interval: time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	loc := astrowheel.Coordinates{Lat: 33.4484, Lon: -112.074}
	return newPlayModel(p, func(tm time.Time) (astrowheel.Chart, error) {
		return astrowheel.Compute(tm, loc, astrowheel.DefaultConfig())
	})
}

func press(t *testing.T, m playModel, msg tea.Msg) (playModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(playModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return pm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPlayModel_Keys(t *testing.T) {
	m := newTestModel(t)
	if m.Init() == nil {
		t.Fatal("Init should schedule a tick")
	}

	steps := []struct {
		name   string
		msg    tea.Msg
		offset time.Duration
		step   time.Duration
		paused bool
	}{
		{"tick", tickMsg{}, time.Hour, time.Hour, false},
		{"pause", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, time.Hour, time.Hour, true},
		{"tick while paused", tickMsg{}, time.Hour, time.Hour, true},
		{"reverse", runes("r"), time.Hour, -time.Hour, true},
		{"step once", tea.KeyMsg{Type: tea.KeyRight}, 0, -time.Hour, true},
		{"step back", tea.KeyMsg{Type: tea.KeyLeft}, time.Hour, -time.Hour, true},
		{"faster", runes("+"), time.Hour, -2 * time.Hour, true},
		{"slower", runes("-"), time.Hour, -time.Hour, true},
		{"reset", runes("0"), 0, -time.Hour, true},
		{"resume", runes("p"), 0, -time.Hour, false},
		{"tick backwards", tickMsg{}, -time.Hour, -time.Hour, false},
	}

	for _, s := range steps {
		var cmd tea.Cmd
		m, cmd = press(t, m, s.msg)
		if got := m.player.Offset(); got != s.offset {
			t.Errorf("%s: offset %v, want %v", s.name, got, s.offset)
		}
		if got := m.player.Settings().Step; got != s.step {
			t.Errorf("%s: step %v, want %v", s.name, got, s.step)
		}
		if got := m.player.Paused(); got != s.paused {
			t.Errorf("%s: paused %v, want %v", s.name, got, s.paused)
		}
		if _, isTick := s.msg.(tickMsg); isTick && cmd == nil {
			t.Errorf("%s: tick did not reschedule", s.name)
		}
	}

	if !m.chart.Time.Equal(m.player.Now()) {
		t.Errorf("chart at %v, player at %v", m.chart.Time, m.player.Now())
	}
}

func TestPlayModel_StepFloor(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 10; i++ {
		m, _ = press(t, m, runes("-"))
	}
	if got := m.player.Settings().Step; got < minStep {
		t.Errorf("step shrank to %v", got)
	}
}

func TestPlayModel_Quit(t *testing.T) {
	m := newTestModel(t)
	for _, key := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := press(t, m, key)
		if cmd == nil {
			t.Fatalf("%s: no command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", key)
		}
	}
}

func TestPlayModel_View(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	for _, want := range []string{"2024-07-01 12:00", "playing", "Sun", "Cancer", "Asc", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}

	m, _ = press(t, m, runes("p"))
	if !strings.Contains(m.View(), "paused") {
		t.Error("paused state not shown")
	}
}

func TestPlayModel_ComputeError(t *testing.T) {
	p, err := playback.New(time.Now(), playback.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	m := newPlayModel(p, func(time.Time) (astrowheel.Chart, error) {
		return astrowheel.Chart{}, errors.New("ephemeris offline")
	})
	if !strings.Contains(m.View(), "ephemeris offline") {
		t.Error("compute error not shown")
	}
}
