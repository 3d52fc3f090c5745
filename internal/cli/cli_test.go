package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var phoenixArgs = []string{"-t", "2024-07-01T12:00:00Z", "--lat", "33.4484", "--lon", "-112.074"}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	if testing.Verbose() && errOut.Len() > 0 {
		t.Logf("stderr:\n%s", errOut.String())
	}
	return out.String(), err
}

func args(cmd string, extra ...string) []string {
	return append(append([]string{cmd}, phoenixArgs...), extra...)
}

type chartJSON struct {
	Config struct {
		Zodiac string `json:"zodiac"`
	} `json:"config"`
	Placements []struct {
		Body string `json:"body"`
	} `json:"placements"`
	Ascendant struct {
		Defined bool `json:"defined"`
	} `json:"ascendant"`
}

func TestSetVersion(t *testing.T) {
	old := [3]string{version, commit, date}
	defer SetVersion(old[0], old[1], old[2])

	SetVersion("1.0.0", "abc123", "2025-01-01")
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "astrowheel 1.0.0") || !strings.Contains(out, "abc123") {
		t.Errorf("version output %q", out)
	}
}

func TestChartCommand(t *testing.T) {
	out, err := execute(t, args("chart")...)
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	for _, want := range []string{"Sun", "Cancer", "Ascendant", "Midheaven", "Pluto", "Ketu"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart output lacks %q:\n%s", want, out)
		}
	}
}

func TestChartCommand_JSON(t *testing.T) {
	out, err := execute(t, args("chart", "--json", "--zodiac", "sidereal", "--outer=false")...)
	if err != nil {
		t.Fatalf("chart --json: %v", err)
	}
	var c chartJSON
	if err := json.Unmarshal([]byte(out), &c); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if c.Config.Zodiac != "sidereal" {
		t.Errorf("zodiac = %q", c.Config.Zodiac)
	}
	if len(c.Placements) != 9 {
		t.Errorf("%d placements, want 9 without outer planets", len(c.Placements))
	}
	if !c.Ascendant.Defined {
		t.Error("ascendant undefined at Phoenix")
	}
}

func TestChartCommand_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheel.toml")
	doc := "[observer]\nlat = 28.6139\nlon = 77.2090\ntime = \"2024-01-22T12:30\"\ntimezone = \"Asia/Kolkata\"\n\n[chart]\nzodiac = \"sidereal\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "chart", "--config", path, "--json")
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	var c chartJSON
	if err := json.Unmarshal([]byte(out), &c); err != nil {
		t.Fatal(err)
	}
	if c.Config.Zodiac != "sidereal" {
		t.Errorf("zodiac from file = %q", c.Config.Zodiac)
	}

	// Flags win over the file.
	out, err = execute(t, "chart", "--config", path, "--json", "--zodiac", "tropical")
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(out), &c); err != nil {
		t.Fatal(err)
	}
	if c.Config.Zodiac != "tropical" {
		t.Errorf("zodiac with flag = %q", c.Config.Zodiac)
	}
}

func TestChartCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zodiac", args("chart", "--zodiac", "galactic")},
		{"latitude", []string{"chart", "--lat", "95"}},
		{"time", []string{"chart", "-t", "yesterday"}},
		{"preset", args("chart", "--zodiac", "sidereal", "--preset", "nope")},
		{"missing config", []string{"chart", "--config", filepath.Join(t.TempDir(), "none.toml")}},
		{"positional", []string{"chart", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		file   string
		extra  []string
		prefix string
	}{
		{"chart.svg", nil, "<svg"},
		{"chart.png", []string{"--size", "200"}, "\x89PNG"},
		{"chart.csv", nil, "body,sign,degree"},
		{"chart.txt", []string{"-f", "tsv"}, "body\tsign\tdegree"},
		{"chart.json", nil, "{"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			out, err := execute(t, args("export", append([]string{"-o", path}, tt.extra...)...)...)
			if err != nil {
				t.Fatalf("export: %v", err)
			}
			if !strings.Contains(out, path) {
				t.Errorf("output does not name the file:\n%s", out)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(string(data), tt.prefix) {
				t.Errorf("%s starts with %q", tt.file, data[:min(len(data), 16)])
			}
		})
	}
}

func TestExportCommand_Stdout(t *testing.T) {
	out, err := execute(t, args("export", "-f", "csv")...)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 13 || !strings.HasPrefix(lines[1], "Sun,") {
		t.Errorf("csv on stdout:\n%s", out)
	}

	if _, err := execute(t, args("export", "-f", "gif")...); err == nil {
		t.Error("unknown format accepted")
	}
	if _, err := execute(t, args("export", "--size", "-1")...); err == nil {
		t.Error("negative size accepted")
	}
}

func TestAscendantCommand(t *testing.T) {
	out, err := execute(t, args("ascendant")...)
	if err != nil {
		t.Fatalf("ascendant: %v", err)
	}
	for _, want := range []string{"root-finding", "closed-form", "Difference"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestPlayPlain(t *testing.T) {
	out, err := execute(t, args("play", "--plain", "--ticks", "3", "--interval", "1ms", "--step", "1h")...)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("%d lines, want 3:\n%s", len(lines), out)
	}
	for i, want := range []string{"2024-07-01T13:00Z", "2024-07-01T14:00Z", "2024-07-01T15:00Z"} {
		if !strings.HasPrefix(lines[i], want) {
			t.Errorf("line %d = %q, want prefix %s", i, lines[i], want)
		}
		if !strings.Contains(lines[i], "Sun Cancer") {
			t.Errorf("line %d lacks the Sun: %q", i, lines[i])
		}
	}

	if _, err := execute(t, args("play", "--plain", "--step", "0s")...); err == nil {
		t.Error("zero step accepted")
	}
}

func TestServeWatchNeedsFile(t *testing.T) {
	if _, err := execute(t, "serve", "--watch", "--addr", "127.0.0.1:0"); err == nil {
		t.Error("serve --watch without a config file accepted")
	}
}

func TestOrdinal(t *testing.T) {
	tests := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 7: "7th", 11: "11th", 12: "12th", 21: "21st"}
	for n, want := range tests {
		if got := ordinal(n); got != want {
			t.Errorf("ordinal(%d) = %q, want %q", n, got, want)
		}
	}
}
