// Package cli implements the cashcraft command line interface.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cashcraft",
	Short: "Personal finance wallet allocation engine",
	Long: `CashCraft manages virtual wallets with percentage-based sub-wallet
allocations and a transaction ledger. Balances are tracked in e8s
(1e8 base units) with exact big-integer arithmetic.`,
	SilenceUsage: true,
}

// Execute runs the root command and returns its error for main to handle.
func Execute() error {
	return rootCmd.Execute()
}
