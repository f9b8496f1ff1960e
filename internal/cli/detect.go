package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"msstore-packager/internal/app"
)

func newDetectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect <path>",
		Short: "Report which project type matches a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd.Context(), args[0])
		},
	}
	return cmd
}

func runDetect(ctx context.Context, projectPath string) error {
	service := app.NewService()
	result, err := service.Detect(ctx, app.DetectRequest{ProjectPath: projectPath})
	if err != nil {
		return err
	}
	if !result.Found {
		fmt.Println("no match")
		return nil
	}
	fmt.Printf("detected: %s\n", result.Configurator)
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
