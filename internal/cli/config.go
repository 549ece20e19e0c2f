package cli

import (
	"fmt"
	"os"
	"strings"

	"loupe/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the active provider configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := config.NewFileStore(flagConfig)
		cfg, err := store.Active()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitConfigError
			return nil
		}

		fmt.Printf("provider: %s\n", cfg.Name())
		fmt.Printf("model:    %s\n", cfg.Model)
		fmt.Printf("api_base: %s\n", valueOrDash(cfg.APIBase))
		fmt.Printf("api_key:  %s\n", maskKey(cfg.APIKey))
		return nil
	},
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// maskKey shows only enough of a credential to identify it.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", 8) + key[len(key)-4:]
}
