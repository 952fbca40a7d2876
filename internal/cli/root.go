package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// Called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the archcanvas CLI and returns an error if any command fails.
//
// The root command wires up the subcommands (serve, export, layout, view,
// completion), configures logging from the --verbose flag, and attaches the
// logger to the command context for loggerFromContext. The context carries
// signal cancellation from main; serve shuts down gracefully when it fires.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "archcanvas",
		Short:        "ArchCanvas turns architecture descriptions into interactive diagrams",
		Long:         `ArchCanvas renders architecture descriptions as interactive diagrams and exports them as images or generated documents.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("archcanvas %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/archcanvas/config.toml)")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newExportCmd(&configPath))
	root.AddCommand(newLayoutCmd())
	root.AddCommand(newViewCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}
