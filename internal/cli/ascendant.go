package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/thurmanmarka/astrowheel"
	"github.com/thurmanmarka/astrowheel/internal/timeutil"
	"github.com/thurmanmarka/astrowheel/internal/zodiac"
)

// branchThreshold is the disagreement, in degrees, above which the two
// methods are reported as having picked different horizon crossings.
const branchThreshold = 1.0

func newAscendantCmd(opts *rootOpts) *cobra.Command {
	var cf chartFlags

	cmd := &cobra.Command{
		Use:   "ascendant",
		Short: "Compare the root-finding and closed-form ascendant",
		Long: `Compute the tropical ascendant with both methods.

Root finding scans the ecliptic for horizon crossings and keeps the one nearest
due east. The closed form is a single atan2 expression and can pick the setting
point near the polar circles.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts, &cf)
			if err != nil {
				return err
			}
			var results []astrowheel.Ascendant
			for _, m := range []astrowheel.AscendantMethod{astrowheel.RootFinding, astrowheel.ClosedForm} {
				a, err := s.engine.AscendantAt(s.when, s.coords, m)
				if err != nil {
					return err
				}
				results = append(results, a)
			}
			printAscendants(cmd.OutOrStdout(), s, results)
			return nil
		},
	}

	cf.bind(cmd)
	return cmd
}

func printAscendants(w io.Writer, s *session, results []astrowheel.Ascendant) {
	printTitle(w, "Ascendant "+s.when.Format("2006-01-02 15:04 MST"))
	printKeyValue(w, "Observer", fmt.Sprintf("%.4f, %.4f", s.coords.Lat, s.coords.Lon))
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(results))
	for _, a := range results {
		if !a.Defined {
			rows = append(rows, []string{a.Method.String(), "undefined", "", ""})
			continue
		}
		rows = append(rows, []string{
			a.Method.String(),
			zodiac.FormatDMS(a.Longitude),
			position(a.Longitude, s.cfg.LabelScript),
			fmt.Sprintf("%.2f°", a.Azimuth),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Method", "Longitude", "Sign", "Azimuth").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())

	if len(results) != 2 || !results[0].Defined || !results[1].Defined {
		return
	}
	diff := timeutil.Separation(results[0].Longitude, results[1].Longitude)
	printKeyValue(w, "Difference", fmt.Sprintf("%.6f°", diff))
	if diff > branchThreshold {
		printWarning(w, "closed form picked a different horizon crossing")
	}
}
