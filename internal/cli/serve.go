package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/thurmanmarka/astrowheel/internal/config"
	"github.com/thurmanmarka/astrowheel/internal/server"
)

func newServeCmd(opts *rootOpts) *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve charts over HTTP",
		Long: `Serve /chart.{json,svg,png,csv,tsv}, /healthz and /metrics.

Query parameters override the config for one request, for example
/chart.svg?t=2025-03-20T09:01:00Z&lat=33.45&lon=-112.07&zodiac=sidereal.
With --watch the config file is reloaded when it changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			path := opts.resolvedConfigPath()
			f, err := config.Load(path)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				f.Server.Addr = addr
			}

			metrics, err := server.NewMetrics(nil)
			if err != nil {
				return err
			}
			srv, err := server.New(f, logger, metrics)
			if err != nil {
				return err
			}

			if watch {
				if path == "" {
					return errors.New("serve --watch needs a config file")
				}
				files, err := config.Watch(ctx, path, logger)
				if err != nil {
					return err
				}
				go srv.Follow(ctx, files)
				logger.Info("watching config", "path", path)
			}

			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the config file when it changes")
	return cmd
}
