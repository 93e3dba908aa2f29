// Command billingctl tareas operativas de cobros: migraciones, conciliación del
// libro, barrido de intenciones de aprovisionamiento y avisos de fin de prueba.
// Pensado para ejecutarse desde cron o a mano.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version se fija al compilar con -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:           "billingctl",
	Short:         "Tareas operativas de cobros y conciliación",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(sweepLedgerCmd)
	rootCmd.AddCommand(sweepIntentsCmd)
	rootCmd.AddCommand(notifyTrialsCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Muestra la versión",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "billingctl %s\n", Version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
