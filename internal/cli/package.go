package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"msstore-packager/internal/app"
)

type packageOptions struct {
	Identity identityOptions
	Output   string
}

func newPackageCommand() *cobra.Command {
	opts := packageOptions{}
	cmd := &cobra.Command{
		Use:   "package <path>",
		Short: "Build a store-uploadable package with the platform toolchain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackage(cmd.Context(), cmd, opts, args[0])
		},
	}
	addIdentityFlags(cmd, &opts.Identity)
	cmd.Flags().StringVar(&opts.Output, "output", "", "Directory for produced packages")
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	return cmd
}

func runPackage(ctx context.Context, cmd *cobra.Command, opts packageOptions, projectPath string) error {
	service := app.NewService()
	result, err := service.Package(ctx, app.PackageRequest{
		ProjectPath: projectPath,
		Output:      resolveString(cmd, opts.Output, "output", "output"),
		Identity:    resolveIdentity(cmd, opts.Identity),
	})
	if err != nil {
		return err
	}
	fmt.Printf("packaged %s project: %s\n", result.Configurator, result.PackagePath)
	return nil
}
