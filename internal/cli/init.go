package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spout-app/spout/internal/app"
	"github.com/spout-app/spout/internal/config"
)

// InitResult holds init command results.
type InitResult struct {
	DataDir string `json:"data_dir"`
	NodeID  string `json:"node_id"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a node data directory",
		Long: `Initialize the data directory: generate the node signing key,
write config.yaml, and create the database with the default profile.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context(), rootOpts, cmd)
		},
	}

	return cmd
}

func runInit(ctx context.Context, opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := config.Init(opts.DataDir)
	if err != nil {
		_ = formatter.Error("COMMAND", err.Error(), nil)
		return WrapExitError(ExitCommandError, "init failed", err)
	}

	formatter.VerboseLog("Wrote %s", cfg.NodeKeyPath())

	// Opening once creates the database and the default profile.
	a, err := app.New(ctx, cfg)
	if err != nil {
		_ = formatter.Error("COMMAND", err.Error(), nil)
		return WrapExitError(ExitCommandError, "init failed", err)
	}
	defer a.Close()

	if formatter.Format == "json" {
		return formatter.Success(InitResult{
			DataDir: cfg.DataDir,
			NodeID:  a.NodeID.String(),
		})
	}

	fmt.Fprintf(formatter.Writer, "Initialized %s\n", cfg.DataDir)
	fmt.Fprintf(formatter.Writer, "Node id: %s\n", a.NodeID)
	return nil
}
