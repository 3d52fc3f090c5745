package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/thurmanmarka/astrowheel"
	"github.com/thurmanmarka/astrowheel/internal/render"
	"github.com/thurmanmarka/astrowheel/internal/zodiac"
)

func newChartCmd(opts *rootOpts) *cobra.Command {
	var (
		cf     chartFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print the chart for an instant and place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts, &cf)
			if err != nil {
				return err
			}
			c, err := s.compute(s.when)
			if err != nil {
				return err
			}
			if asJSON {
				return render.Write(cmd.OutOrStdout(), c, render.FormatJSON, 0)
			}
			printChart(cmd.OutOrStdout(), c)
			return nil
		},
	}

	cf.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the chart as JSON")
	return cmd
}

// printChart writes the summary, the placement table and any links.
func printChart(w io.Writer, c astrowheel.Chart) {
	script := c.Config.LabelScript

	printTitle(w, "astrowheel "+c.Time.Format("2006-01-02 15:04 MST"))
	printKeyValue(w, "Observer", fmt.Sprintf("%.4f, %.4f", c.Observer.Lat, c.Observer.Lon))
	zodiacLine := c.Config.Zodiac.String()
	if c.Config.Zodiac == astrowheel.Sidereal {
		zodiacLine += fmt.Sprintf(" (ayanamsha %.4f°)", c.Ayanamsha)
	}
	printKeyValue(w, "Zodiac", zodiacLine)
	if c.Ascendant.Defined {
		printKeyValue(w, "Ascendant", position(c.Ascendant.Longitude, script))
	} else {
		printWarning(w, "ascendant undefined: the ecliptic does not cross the horizon")
	}
	printKeyValue(w, "Midheaven", position(c.Midheaven, script))
	printKeyValue(w, "Moon", fmt.Sprintf("%s, tithi %d %s (%s paksha)",
		c.Lunar.Name, c.Lunar.Tithi, c.Lunar.TithiName(), c.Lunar.Paksha))
	printKeyValue(w, "Ephemeris", c.Ephemeris)
	if c.ObliquityFallback {
		printWarning(w, "obliquity of date unavailable, used the J2000 mean")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, placementTable(c).Render())

	if len(c.Aspects) > 0 {
		fmt.Fprintln(w)
		printTitle(w, "Aspects")
		for _, a := range c.Aspects {
			fmt.Fprintf(w, "  %-8s %-13s %-8s %s\n", a.A, a.Name(), a.B, styleDim.Render(fmt.Sprintf("orb %.2f°", a.Orb)))
		}
	}
	if len(c.Drishti) > 0 {
		fmt.Fprintln(w)
		printTitle(w, "Drishti")
		for _, d := range c.Drishti {
			fmt.Fprintf(w, "  %-8s %s %-8s %s\n", d.From, iconArrow, d.To, styleDim.Render(ordinal(d.Distance)))
		}
	}
}

func placementTable(c astrowheel.Chart) *table.Table {
	script := c.Config.LabelScript
	rows := make([][]string, 0, len(c.Placements))
	for _, p := range c.Placements {
		house := ""
		if p.House > 0 {
			house = strconv.Itoa(p.House)
		}
		retro := ""
		if p.Retrograde {
			retro = "R"
		}
		rows = append(rows, []string{
			p.Body.String(),
			p.SignName(script),
			zodiac.FormatDM(zodiac.SignOf(p.Longitude)),
			fmt.Sprintf("%s %d", p.NakshatraName(script), p.Pada),
			house,
			fmt.Sprintf("%+.3f", p.Speed),
			retro,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Body", "Sign", "Degree", "Nakshatra", "House", "°/day", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if row >= 0 && row < len(c.Placements) && c.Placements[row].Retrograde {
				return styleRetro
			}
			return lipgloss.NewStyle()
		})
}

// position renders a chart-frame longitude as "Sign 12°34′".
func position(lon float64, script astrowheel.Script) string {
	sp := zodiac.SignOf(lon)
	return zodiac.SignName(sp.Index, script) + " " + zodiac.FormatDM(sp)
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}

// shortLine summarises a chart on one line for plain playback output.
func shortLine(c astrowheel.Chart) string {
	script := c.Config.LabelScript
	parts := []string{c.Time.UTC().Format("2006-01-02T15:04Z")}
	if c.Ascendant.Defined {
		parts = append(parts, "Asc "+position(c.Ascendant.Longitude, script))
	} else {
		parts = append(parts, "Asc undefined")
	}
	for _, b := range []astrowheel.Body{astrowheel.Sun, astrowheel.Moon} {
		if p, ok := c.Placement(b); ok {
			parts = append(parts, b.String()+" "+position(p.Longitude, script))
		}
	}
	return strings.Join(parts, "  ")
}
