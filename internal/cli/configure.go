package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"msstore-packager/internal/app"
	"msstore-packager/internal/types"
)

type identityOptions struct {
	AppID                string
	DisplayName          string
	IdentityName         string
	Publisher            string
	PublisherDisplayName string
}

func addIdentityFlags(cmd *cobra.Command, opts *identityOptions) {
	cmd.Flags().StringVar(&opts.AppID, "app-id", "", "Store application id")
	cmd.Flags().StringVar(&opts.DisplayName, "display-name", "", "Primary display name")
	cmd.Flags().StringVar(&opts.IdentityName, "identity-name", "", "Package identity name")
	cmd.Flags().StringVar(&opts.Publisher, "publisher", "", "Publisher name")
	cmd.Flags().StringVar(&opts.PublisherDisplayName, "publisher-display-name", "", "Publisher display name")
	_ = viper.BindPFlag("app_id", cmd.Flags().Lookup("app-id"))
	_ = viper.BindPFlag("display_name", cmd.Flags().Lookup("display-name"))
	_ = viper.BindPFlag("identity_name", cmd.Flags().Lookup("identity-name"))
	_ = viper.BindPFlag("publisher", cmd.Flags().Lookup("publisher"))
	_ = viper.BindPFlag("publisher_display_name", cmd.Flags().Lookup("publisher-display-name"))
}

func resolveIdentity(cmd *cobra.Command, opts identityOptions) types.AppIdentity {
	return types.AppIdentity{
		ID:                   resolveString(cmd, opts.AppID, "app_id", "app-id"),
		DisplayName:          resolveString(cmd, opts.DisplayName, "display_name", "display-name"),
		IdentityName:         resolveString(cmd, opts.IdentityName, "identity_name", "identity-name"),
		Publisher:            resolveString(cmd, opts.Publisher, "publisher", "publisher"),
		PublisherDisplayName: resolveString(cmd, opts.PublisherDisplayName, "publisher_display_name", "publisher-display-name"),
	}
}

type configureOptions struct {
	Identity identityOptions
	Output   string
}

func newConfigureCommand() *cobra.Command {
	opts := configureOptions{}
	cmd := &cobra.Command{
		Use:   "configure <path>",
		Short: "Embed store identity metadata into a project manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd.Context(), cmd, opts, args[0])
		},
	}
	addIdentityFlags(cmd, &opts.Identity)
	cmd.Flags().StringVar(&opts.Output, "output", "", "Output directory")
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	return cmd
}

func runConfigure(ctx context.Context, cmd *cobra.Command, opts configureOptions, projectPath string) error {
	service := app.NewService()
	result, err := service.Configure(ctx, app.ConfigureRequest{
		ProjectPath: projectPath,
		Output:      resolveString(cmd, opts.Output, "output", "output"),
		Identity:    resolveIdentity(cmd, opts.Identity),
	})
	if err != nil {
		return err
	}
	fmt.Printf("configured %s project: %s\n", result.Configurator, result.OutputDir)
	return nil
}
