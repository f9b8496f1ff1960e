package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"msstore-packager/internal/app"
)

type publishOptions struct {
	Identity          identityOptions
	InputDir          string
	StoreEndpoint     string
	StoreAPIKey       string
	StoreWorkers      int
	StoreTimeoutSec   int
	StoreRetries      int
	StoreRetryDelayMs int
}

func newPublishCommand() *cobra.Command {
	opts := publishOptions{}
	cmd := &cobra.Command{
		Use:   "publish <path>",
		Short: "Upload produced packages and submission assets to the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd.Context(), cmd, opts, args[0])
		},
	}
	addIdentityFlags(cmd, &opts.Identity)
	cmd.Flags().StringVar(&opts.InputDir, "input", "", "Directory containing built packages")
	cmd.Flags().StringVar(&opts.StoreEndpoint, "store-endpoint", "", "Store API base URL")
	cmd.Flags().StringVar(&opts.StoreAPIKey, "store-api-key", "", "Store API key")
	cmd.Flags().IntVar(&opts.StoreWorkers, "store-workers", 4, "Concurrent package upload workers (0 = default)")
	cmd.Flags().IntVar(&opts.StoreTimeoutSec, "store-timeout", 60, "Store HTTP timeout in seconds (0 = default)")
	cmd.Flags().IntVar(&opts.StoreRetries, "store-retries", 3, "Package upload retries (0 = default)")
	cmd.Flags().IntVar(&opts.StoreRetryDelayMs, "store-retry-delay-ms", 200, "Retry base delay in ms (0 = default)")
	_ = viper.BindPFlag("input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("store_endpoint", cmd.Flags().Lookup("store-endpoint"))
	_ = viper.BindPFlag("store_api_key", cmd.Flags().Lookup("store-api-key"))
	_ = viper.BindPFlag("store_workers", cmd.Flags().Lookup("store-workers"))
	_ = viper.BindPFlag("store_timeout_sec", cmd.Flags().Lookup("store-timeout"))
	_ = viper.BindPFlag("store_retries", cmd.Flags().Lookup("store-retries"))
	_ = viper.BindPFlag("store_retry_delay_ms", cmd.Flags().Lookup("store-retry-delay-ms"))
	return cmd
}

func runPublish(ctx context.Context, cmd *cobra.Command, opts publishOptions, projectPath string) error {
	service := app.NewService()
	result, err := service.Publish(ctx, app.PublishRequest{
		ProjectPath:       projectPath,
		InputDir:          resolveString(cmd, opts.InputDir, "input", "input"),
		Identity:          resolveIdentity(cmd, opts.Identity),
		StoreEndpoint:     resolveString(cmd, opts.StoreEndpoint, "store_endpoint", "store-endpoint"),
		StoreAPIKey:       resolveString(cmd, opts.StoreAPIKey, "store_api_key", "store-api-key"),
		StoreWorkers:      resolveInt(cmd, opts.StoreWorkers, "store_workers", "store-workers"),
		StoreTimeoutSec:   resolveInt(cmd, opts.StoreTimeoutSec, "store_timeout_sec", "store-timeout"),
		StoreRetries:      resolveInt(cmd, opts.StoreRetries, "store_retries", "store-retries"),
		StoreRetryDelayMs: resolveInt(cmd, opts.StoreRetryDelayMs, "store_retry_delay_ms", "store-retry-delay-ms"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("published %s project: code %d\n", result.Configurator, result.Code)
	return nil
}
