package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"archcanvas/pkg/capture"
	"archcanvas/pkg/config"
	"archcanvas/pkg/diagram"
	"archcanvas/pkg/docgen"
	"archcanvas/pkg/export"
	"archcanvas/pkg/httputil"
	"archcanvas/pkg/render"
	"archcanvas/pkg/session"
)

// newExportCmd creates the export command for one-shot exports from a
// description file.
func newExportCmd(configPath *string) *cobra.Command {
	var (
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "export <diagram.json>",
		Short: "Export a diagram to PNG, PDF, or Markdown",
		Long: `Export a diagram description file without running the server.

PNG export renders and rasterizes locally. PDF, Markdown, and "all" send
the capture to the configured documentation-generation service and write
whichever artifacts it returns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if outDir != "" {
				cfg.Export.Dir = outDir
			}

			d, err := diagram.ReadFile(args[0])
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			laid, err := newLayouts(logger).Resolve(ctx, d, render.AutoLayout)
			if err != nil {
				return fmt.Errorf("layout: %w", err)
			}
			prog.done(fmt.Sprintf("Laid out %d nodes", len(laid.Nodes)))

			surface := render.NewSurface(render.Callbacks{}, render.WithLogger(logger))
			if err := surface.SetDescription(ctx, laid); err != nil {
				return err
			}
			printStats(len(laid.Nodes), len(laid.Edges))

			sessions, err := resolveSession(cfg)
			if err != nil {
				return err
			}

			orch := export.New(
				capture.New(surface, capture.WithLogger(logger)),
				docgen.NewClient(cfg.Docgen.URL, sessions),
				export.DirDeliverer{Dir: cfg.Export.Dir},
				export.WithLogger(logger),
			)

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Exporting %s...", format))
			spinner.Start()
			result, err := orch.Export(ctx, export.Request{
				SessionID: sessions.Current().ID,
				Format:    f,
			})
			if err != nil {
				if spinner.Cancelled() {
					spinner.StopWithError("Export cancelled")
				} else {
					spinner.StopWithError(fmt.Sprintf("Export failed: %v", err))
				}
				if httputil.IsRetryable(err) {
					printDetail("the failure looks transient; run the export again to retry")
				}
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Exported %d artifact(s)", len(result.Artifacts)))

			for _, a := range result.Artifacts {
				printFile(filepath.Join(cfg.Export.Dir, a.Filename))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "png", "export format: png, pdf, markdown, all")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (overrides config)")
	return cmd
}

// resolveSession reuses the stored CLI session when one exists, otherwise
// starts a fresh one with the configured credential and persists it.
func resolveSession(cfg config.Config) (*session.Registry, error) {
	registry := session.NewRegistry()

	store, err := session.NewFileStore("")
	if err != nil {
		return nil, err
	}

	stored, err := store.Load()
	if err != nil {
		return nil, err
	}
	if stored != nil && stored.Token == cfg.Docgen.Token {
		registry.Start(stored.Token)
		return registry, nil
	}

	sess := registry.Start(cfg.Docgen.Token)
	if err := store.Save(sess); err != nil {
		return nil, err
	}
	return registry, nil
}
