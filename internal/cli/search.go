package cli

import (
	"context"

	"github.com/spf13/cobra"

	"linkie-web/internal/app"
	"linkie-web/internal/core"
)

type searchOptions struct {
	Namespace    string
	Translate    string
	Version      string
	Limit        int
	AllowClasses bool
	AllowMethods bool
	AllowFields  bool
}

func newSearchCommand() *cobra.Command {
	opts := searchOptions{}
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search a namespace and optionally translate the hits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.Namespace, "namespace", "n", "", "Namespace to search")
	cmd.Flags().StringVarP(&opts.Translate, "translate", "t", "", "Namespace to translate hits into")
	cmd.Flags().StringVarP(&opts.Version, "version", "v", "", "Version (defaults to the namespace default)")
	cmd.Flags().IntVar(&opts.Limit, "limit", core.DefaultSearchLimit, "Maximum number of results")
	cmd.Flags().BoolVar(&opts.AllowClasses, "classes", true, "Include classes")
	cmd.Flags().BoolVar(&opts.AllowMethods, "methods", true, "Include methods")
	cmd.Flags().BoolVar(&opts.AllowFields, "fields", true, "Include fields")
	_ = cmd.MarkFlagRequired("namespace")
	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, opts searchOptions, query string) error {
	service, err := newAppService(ctx)
	if err != nil {
		return err
	}
	defer service.Close()
	result, err := service.Search(ctx, app.SearchRequest{
		Namespace:          opts.Namespace,
		TranslateNamespace: opts.Translate,
		Version:            opts.Version,
		Query:              query,
		AllowClasses:       opts.AllowClasses,
		AllowMethods:       opts.AllowMethods,
		AllowFields:        opts.AllowFields,
		Limit:              opts.Limit,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}
