// Command escrowctl is the diagnostic CLI for the escrowkit
// orchestration layer.
package main

import (
	"os"

	"github.com/decentpay/escrowkit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
