package cli

import (
	"context"

	"github.com/spf13/cobra"

	"linkie-web/internal/app"
)

func newVersionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "versions [loader|all]",
		Short: "List loader versions, or resolve the dependency table of a loader",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := ""
			if len(args) == 1 {
				loader = args[0]
			}
			return runVersions(cmd.Context(), cmd, loader)
		},
	}
}

func runVersions(ctx context.Context, cmd *cobra.Command, loader string) error {
	service, err := newAppService(ctx)
	if err != nil {
		return err
	}
	defer service.Close()
	switch {
	case loader == "":
		versions, err := service.Versions(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), versions)
	case app.IsAllLoaders(loader):
		all, err := service.AllLoaderVersions(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), all)
	default:
		versions, err := service.LoaderVersions(ctx, loader)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), versions)
	}
}
