package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"archcanvas/pkg/cache"
	"archcanvas/pkg/diagram"
	"archcanvas/pkg/render"
)

// newLayouts opens the shared layout memoizer so repeated runs over the
// same description skip the Graphviz engine. A missing cache directory
// degrades to computing every time.
func newLayouts(logger *log.Logger) *cache.Layouts {
	dir, err := os.UserCacheDir()
	if err != nil {
		return cache.NewLayouts(cache.NewNullCache())
	}
	fc, err := cache.NewFileCache(filepath.Join(dir, "archcanvas", "layout"))
	if err != nil {
		logger.Debug("layout cache disabled", "err", err)
		return cache.NewLayouts(cache.NewNullCache())
	}
	return cache.NewLayouts(fc)
}

// newLayoutCmd creates the layout command assigning positions to a
// description.
func newLayoutCmd() *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "layout <diagram.json>",
		Short: "Assign canvas positions to a diagram description",
		Long: `Lay out a diagram description using the Graphviz dot engine.

Descriptions that already carry positions are left unchanged unless
--force is set, which discards the existing positions first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			d, err := diagram.ReadFile(args[0])
			if err != nil {
				return err
			}

			if force {
				for i := range d.Nodes {
					d.Nodes[i].Position = diagram.Position{}
				}
			}

			prog := newProgress(logger)
			laid, err := newLayouts(logger).Resolve(ctx, d, render.AutoLayout)
			if err != nil {
				return fmt.Errorf("layout: %w", err)
			}
			prog.done(fmt.Sprintf("Laid out %d nodes", len(laid.Nodes)))

			dest := output
			if dest == "" {
				dest = args[0]
			}
			if err := diagram.WriteFile(laid, dest); err != nil {
				return err
			}

			printSuccess("Layout written")
			printFile(dest)
			printNextStep("Preview it", "archcanvas view "+dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of overwriting the input")
	cmd.Flags().BoolVar(&force, "force", false, "recompute positions even when the description has them")
	return cmd
}
