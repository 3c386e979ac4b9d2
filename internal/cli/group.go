package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// GroupInfo is the JSON shape of a group in command output.
type GroupInfo struct {
	ID        string `json:"id"`
	ProfileID string `json:"profile_id"`
}

// NewGroupCommand creates the group command group.
func NewGroupCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage groups",
	}

	cmd.AddCommand(newGroupCreateCommand(rootOpts))
	cmd.AddCommand(newGroupListCommand(rootOpts))

	return cmd
}

func newGroupCreateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "create <profile-name>",
		Short:         "Create a group owned by the named profile",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroupCreate(cmd.Context(), rootOpts, cmd, args[0])
		},
	}
}

func newGroupListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list <profile-name>",
		Short:         "List groups created by the named profile",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroupList(cmd.Context(), rootOpts, cmd, args[0])
		},
	}
}

func runGroupCreate(ctx context.Context, opts *RootOptions, cmd *cobra.Command, profileName string) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	a, err := openApp(ctx, opts, formatter)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.Profiles.GetProfileByName(ctx, profileName)
	if err != nil {
		return serviceError(formatter, err)
	}

	g, err := a.Groups.CreateGroup(ctx, p.ID)
	if err != nil {
		return serviceError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(GroupInfo{ID: g.ID.String(), ProfileID: g.ProfileID.String()})
	}

	fmt.Fprintf(formatter.Writer, "Created group %s (admin: %s)\n", g.ID, p.Name)
	return nil
}

func runGroupList(ctx context.Context, opts *RootOptions, cmd *cobra.Command, profileName string) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	a, err := openApp(ctx, opts, formatter)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.Profiles.GetProfileByName(ctx, profileName)
	if err != nil {
		return serviceError(formatter, err)
	}

	groups, err := a.Groups.ListGroups(ctx, p.ID)
	if err != nil {
		return serviceError(formatter, err)
	}

	if formatter.Format == "json" {
		infos := make([]GroupInfo, 0, len(groups))
		for _, g := range groups {
			infos = append(infos, GroupInfo{ID: g.ID.String(), ProfileID: g.ProfileID.String()})
		}
		return formatter.Success(infos)
	}

	for _, g := range groups {
		fmt.Fprintf(formatter.Writer, "%s\n", g.ID)
	}
	return nil
}
