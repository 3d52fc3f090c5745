package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/thurmanmarka/astrowheel/internal/playback"
)

type playOpts struct {
	step     time.Duration
	min      time.Duration
	max      time.Duration
	interval time.Duration
	plain    bool
	ticks    int
}

func newPlayCmd(opts *rootOpts) *cobra.Command {
	var (
		cf chartFlags
		po playOpts
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Step the chart through time",
		Long: `Animate the chart from the configured instant.

The interactive view takes these keys: space pauses, r reverses, the arrow
keys step once, + and - change the step, 0 returns to the start and q quits.
With --plain one line per tick is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts, &cf)
			if err != nil {
				return err
			}

			settings := s.file.PlaybackSettings()
			fl := cmd.Flags()
			if fl.Changed("step") {
				settings.Step = po.step
			}
			if fl.Changed("min") {
				settings.Min = po.min
			}
			if fl.Changed("max") {
				settings.Max = po.max
			}
			if fl.Changed("interval") {
				settings.Interval = po.interval
			}
			player, err := playback.New(s.when, settings)
			if err != nil {
				return err
			}
			s.logger.Debug("playback", "step", settings.Step, "min", settings.Min, "max", settings.Max)

			if po.plain {
				return playPlain(cmd, s, player, po.ticks)
			}
			prog := tea.NewProgram(newPlayModel(player, s.compute), tea.WithContext(cmd.Context()))
			_, err = prog.Run()
			return err
		},
	}

	cf.bind(cmd)
	fl := cmd.Flags()
	fl.DurationVar(&po.step, "step", 0, "chart time per tick, negative plays backwards (default from config)")
	fl.DurationVar(&po.min, "min", 0, "earliest offset from the start instant")
	fl.DurationVar(&po.max, "max", 0, "latest offset from the start instant")
	fl.DurationVar(&po.interval, "interval", 0, "wall-clock time between ticks")
	fl.BoolVar(&po.plain, "plain", false, "print one line per tick instead of the interactive view")
	fl.IntVar(&po.ticks, "ticks", 0, "stop after this many ticks (0 runs until interrupted)")
	return cmd
}

// playPlain drives the player's own ticker and prints a summary line per
// tick.
func playPlain(cmd *cobra.Command, s *session, player *playback.Player, ticks int) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	w := cmd.OutOrStdout()
	n := 0
	var computeErr error
	err := player.Run(ctx, func(t time.Time) {
		c, err := s.compute(t)
		if err != nil {
			computeErr = err
			cancel()
			return
		}
		fmt.Fprintln(w, shortLine(c))
		n++
		if ticks > 0 && n >= ticks {
			cancel()
		}
	})
	if computeErr != nil {
		return computeErr
	}
	if ticks > 0 && n >= ticks && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
