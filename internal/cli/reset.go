package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Fuzara/cashcraft/internal/ledger"
	"github.com/Fuzara/cashcraft/pkg/config"
	"github.com/Fuzara/cashcraft/pkg/logger"
)

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().StringP("owner", "o", "", "Owner principal whose ledger to reset (required)")
	_ = resetCmd.MarkFlagRequired("owner")
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset an owner's ledger to the starter layout",
	Long: `Discard an owner's stored ledger and replace it with the starter
wallets. All transactions and custom wallets are lost.`,
	RunE: runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	rawOwner, _ := cmd.Flags().GetString("owner")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log := logger.NewDefault(cfg.Env)

	backend, err := openStorage(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.StorageBackend, err)
	}
	defer backend.Close()

	store := ledger.NewStore(backend, log)
	owner := ledger.ResolveOwner(rawOwner)

	l, err := store.Reset(cmd.Context(), owner)
	if err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Ledger for %s reset: %d wallets, %d transactions\n",
		owner, len(l.Wallets), len(l.Transactions))
	return nil
}
