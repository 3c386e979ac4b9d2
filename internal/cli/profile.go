package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spout-app/spout/internal/app"
	"github.com/spout-app/spout/internal/config"
)

// ProfileInfo is the JSON shape of a profile in command output.
type ProfileInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc,omitempty"`
}

// NewProfileCommand creates the profile command group.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage this node's profiles",
	}

	cmd.AddCommand(newProfileCreateCommand(rootOpts))
	cmd.AddCommand(newProfileListCommand(rootOpts))

	return cmd
}

func newProfileCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var desc string

	cmd := &cobra.Command{
		Use:           "create <name>",
		Short:         "Create a profile owned by this node",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileCreate(cmd.Context(), rootOpts, cmd, args[0], desc)
		},
	}

	cmd.Flags().StringVar(&desc, "desc", "", "profile description")

	return cmd
}

func newProfileListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List this node's profiles",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileList(cmd.Context(), rootOpts, cmd)
		},
	}
}

// openApp loads the configured data directory and starts the app context.
func openApp(ctx context.Context, opts *RootOptions, formatter *OutputFormatter) (*app.App, error) {
	cfg, err := config.Load(opts.DataDir)
	if err != nil {
		_ = formatter.Error("COMMAND", err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "data dir not initialized, run 'spout init'", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		_ = formatter.Error("COMMAND", err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "start node", err)
	}
	return a, nil
}

func runProfileCreate(ctx context.Context, opts *RootOptions, cmd *cobra.Command, name, desc string) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	a, err := openApp(ctx, opts, formatter)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.Profiles.CreateProfile(ctx, a.NodeID, name, desc, nil)
	if err != nil {
		return serviceError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ProfileInfo{ID: p.ID.String(), Name: p.Name, Desc: p.Desc})
	}

	fmt.Fprintf(formatter.Writer, "Created profile %s (%s)\n", p.Name, p.ID)
	return nil
}

func runProfileList(ctx context.Context, opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	a, err := openApp(ctx, opts, formatter)
	if err != nil {
		return err
	}
	defer a.Close()

	profiles, err := a.Profiles.ListProfiles(ctx, a.NodeID)
	if err != nil {
		return serviceError(formatter, err)
	}

	if formatter.Format == "json" {
		infos := make([]ProfileInfo, 0, len(profiles))
		for _, p := range profiles {
			infos = append(infos, ProfileInfo{ID: p.ID.String(), Name: p.Name, Desc: p.Desc})
		}
		return formatter.Success(infos)
	}

	for _, p := range profiles {
		fmt.Fprintf(formatter.Writer, "%s  %s\n", p.ID, p.Name)
	}
	return nil
}
