package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"psxrev/drv"
)

var drvSwapCmd = &cobra.Command{
	Use:                   "swap FILE PATH1 PATH2",
	Short:                 "Swap two files inside a .DRV image",
	Long:                  `Swap the directory entries of two files in place. The file data is not moved.`,
	Args:                  cobra.ExactArgs(3),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.OpenFile(args[0], os.O_RDWR, 0)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer f.Close()

		if err := drv.SwapFiles(f, drv.Path(args[1]), drv.Path(args[2])); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	drvCmd.AddCommand(drvSwapCmd)
}
