package cli

import (
	"github.com/spf13/cobra"

	"github.com/decentpay/escrowkit/internal/service/escrow"
)

type methodInfo struct {
	Name     string `json:"name"`
	ReadOnly bool   `json:"read_only"`
	Auth     bool   `json:"auth"`
}

// methodsCmd lists the contract method catalog.
var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the escrow contract methods",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		names := escrow.MethodNames()
		infos := make([]methodInfo, 0, len(names))
		for _, name := range names {
			m, err := escrow.LookupMethod(name)
			if err != nil {
				continue
			}
			infos = append(infos, methodInfo{Name: m.Name, ReadOnly: m.ReadOnly, Auth: m.Auth})
		}

		if formatter.IsJSON() {
			return formatter.Print(infos)
		}
		rows := make([][]string, 0, len(infos))
		for _, info := range infos {
			kind := "write"
			if info.ReadOnly {
				kind = "read"
			}
			rows = append(rows, []string{info.Name, kind})
		}
		return formatter.Table(rows)
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(methodsCmd)
}
