package cli

import (
	"github.com/spf13/cobra"

	"github.com/decentpay/escrowkit/internal/config"
)

// configCmd groups configuration management.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage escrowkit configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if formatter.IsJSON() {
			return formatter.Print(cfg)
		}
		_ = formatter.Printf("Home:      %s\n", cfg.GetHome())
		_ = formatter.Printf("Endpoint:  %s\n", cfg.Network.Endpoint)
		_ = formatter.Printf("Network:   %s\n", cfg.Network.Passphrase)
		_ = formatter.Printf("Contract:  %s\n", cfg.Contract.ID)
		_ = formatter.Printf("Journal:   %s\n", cfg.Journal.Path)
		_ = formatter.Printf("Events:    %s\n", cfg.Events.Driver)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration to disk",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		path := config.Path(cfg.GetHome())
		if err := config.Save(cfg, path); err != nil {
			return err
		}
		return formatter.Printf("Configuration written to %s\n", path)
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
