// Package cmd implements the psxrev command line tools.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "psxrev",
	Short: "PlayStation disc reverse-engineering toolkit",
	Long: `psxrev reads and writes the formats of the "Digimon Digital Card
Battle" PlayStation disc: CD-ROM/XA sectors, the .DRV filesystem and the
MIPS executable.`,
}

var sectorCmd = &cobra.Command{
	Use:   "sector",
	Short: "CD-ROM/XA sector commands",
}

var drvCmd = &cobra.Command{
	Use:   "drv",
	Short: ".DRV filesystem commands",
}

var exeCmd = &cobra.Command{
	Use:   "exe",
	Short: "Executable commands",
}

func init() {
	rootCmd.AddCommand(sectorCmd)
	rootCmd.AddCommand(drvCmd)
	rootCmd.AddCommand(exeCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
