package cmd

import (
	"fmt"
	"os"

	"github.com/AnnaCarter465/taxpadi/logger"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taxpadi",
		Short: "TaxPadi - tax compliance helper for Nigerian small businesses",
		Long: `TaxPadi classifies a company by size, computes PAYE for employees,
estimates the development levy and tracks input VAT from receipts.

Run "taxpadi serve" to start the HTTP API, or use the calculator
subcommands directly from the terminal.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newClassifyCmd(),
		newPayeCmd(),
		newPitCmd(),
		newLevyCmd(),
		newVatCmd(),
	)

	return root
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := NewRootCmd().Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
