package cli

import (
	"github.com/spf13/cobra"

	"archcanvas/internal/server"
	"archcanvas/pkg/config"
	"archcanvas/pkg/storage"
)

// newServeCmd creates the serve command running the HTTP server.
func newServeCmd(configPath *string) *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diagram server",
		Long: `Run the HTTP server exposing the interactive diagram surface.

The server accepts diagram descriptions over PUT /api/diagram, serves the
rendered canvas as SVG, forwards node gestures, and runs exports against
the configured documentation-generation service. Surface activity streams
to subscribers on GET /api/events.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if listenAddr != "" {
				cfg.Server.ListenAddr = listenAddr
			}

			if cfg.Docgen.URL == "" {
				printWarning("no generation service configured; only PNG export will work")
			}

			printInfo("serving on %s", StyleHighlight.Render(cfg.Server.ListenAddr))
			printDetail("exports are written to %s", cfg.Export.Dir)

			store, err := storage.Open(cmd.Context(), cfg.Storage)
			if err != nil {
				return err
			}

			srv := server.New(cfg, server.WithLogger(logger), server.WithStore(store))
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "listen address (overrides config)")
	return cmd
}
