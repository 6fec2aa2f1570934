package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"linkie-web/internal/app"
)

func newNamespacesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "namespaces",
		Short: "List registered namespaces and their versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNamespaces(cmd.Context(), cmd)
		},
	}
}

func runNamespaces(ctx context.Context, cmd *cobra.Command) error {
	service, err := newAppService(ctx)
	if err != nil {
		return err
	}
	defer service.Close()
	entries, err := service.Namespaces(ctx)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), entries)
}

type sourceOptions struct {
	Namespace string
	Version   string
}

func newSourceCommand() *cobra.Command {
	opts := sourceOptions{}
	cmd := &cobra.Command{
		Use:   "source <class>",
		Short: "Print the decompiled source of a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSource(cmd.Context(), cmd, opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.Namespace, "namespace", "n", "", "Namespace")
	cmd.Flags().StringVarP(&opts.Version, "version", "v", "", "Version")
	_ = cmd.MarkFlagRequired("namespace")
	_ = cmd.MarkFlagRequired("version")
	return cmd
}

func runSource(ctx context.Context, cmd *cobra.Command, opts sourceOptions, class string) error {
	service, err := newAppService(ctx)
	if err != nil {
		return err
	}
	defer service.Close()
	result, err := service.Source(ctx, app.SourceRequest{
		Namespace: opts.Namespace,
		Version:   opts.Version,
		Class:     class,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), result.Text)
	return err
}

func newOSSCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "oss",
		Short: "List bundled open source components and their licenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := newAppService(cmd.Context())
			if err != nil {
				return err
			}
			defer service.Close()
			entries, err := service.OSSLicenses()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entries)
		},
	}
}
