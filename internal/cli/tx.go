package cli

import (
	"github.com/spf13/cobra"

	"github.com/decentpay/escrowkit/internal/chain/soroban"
)

// txCmd groups transaction-level diagnostics.
var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Inspect submitted transactions",
}

var txStatusCmd = &cobra.Command{
	Use:   "status <hash>",
	Short: "Fetch the current status of a transaction by hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		connector, err := soroban.NewClient(soroban.NetworkProfile{
			Endpoint: cfg.Network.Endpoint,
			Network:  cfg.Network.Passphrase,
			BaseFee:  cfg.Network.BaseFee,
			Timeout:  cfg.NetworkTimeout(),
		}, nil)
		if err != nil {
			return err
		}

		logger.Lookup("transaction", args[0])
		receipt, err := connector.GetStatus(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		logger.Submission(receipt.Hash, string(receipt.Status), receipt.Attempts)

		if formatter.IsJSON() {
			return formatter.Print(receipt)
		}
		_ = formatter.Printf("%s  %s\n", receipt.Hash, receipt.Status)
		if receipt.ErrorMessage != "" {
			_ = formatter.Printf("  %s\n", receipt.ErrorMessage)
		}
		return nil
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	txCmd.AddCommand(txStatusCmd)
	rootCmd.AddCommand(txCmd)
}
