package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"linkie-web/internal/app"
)

type importMappingsOptions struct {
	Namespace string
	Version   string
	Input     string
	Database  string
}

func newImportMappingsCommand() *cobra.Command {
	opts := importMappingsOptions{}
	cmd := &cobra.Command{
		Use:   "import-mappings",
		Short: "Import a yaml mapping file into a sqlite mapping store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImportMappings(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Namespace, "namespace", "n", "", "Namespace id")
	cmd.Flags().StringVarP(&opts.Version, "version", "v", "", "Version id")
	cmd.Flags().StringVar(&opts.Input, "input", "", "Yaml mapping file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "Sqlite database path")
	_ = viper.BindPFlag("mappings_db", cmd.Flags().Lookup("db"))
	return cmd
}

func runImportMappings(ctx context.Context, cmd *cobra.Command, opts importMappingsOptions) error {
	service := &app.Service{}
	result, err := service.ImportMappings(ctx, app.ImportMappingsRequest{
		Namespace: opts.Namespace,
		Version:   opts.Version,
		InputPath: opts.Input,
		Database:  resolveString(cmd, opts.Database, "mappings_db", "db"),
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %s %s: %d classes, %d members\n",
		result.Namespace, result.Version, result.Classes, result.Members)
	return err
}
