package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"psxrev/drv"
)

var drvLsCmd = &cobra.Command{
	Use:                   "ls FILE [PATH]",
	Short:                 "List a .DRV directory",
	Args:                  cobra.RangeArgs(1, 2),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer f.Close()

		dir := drv.RootDir()
		if len(args) == 2 {
			_, entry, err := drv.RootDir().Find(f, drv.Path(args[1]))
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			if entry.Kind != drv.KindDir {
				fmt.Printf("%q is not a directory\n", args[1])
				os.Exit(1)
			}
			dir = entry.Dir
		}

		iter, err := dir.Entries(f)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		for iter.Next() {
			entry := iter.Entry()
			switch entry.Kind {
			case drv.KindDir:
				fmt.Printf("%-20s <dir>      sector %d\n", entry.FullName(), entry.Dir.SectorPos)
			case drv.KindFile:
				fmt.Printf("%-20s %9d  sector %d  %s\n",
					entry.FullName(), entry.File.Size, entry.File.SectorPos,
					entry.Date.Format("2006-01-02 15:04:05"))
			}
		}
		if err := iter.Err(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	drvCmd.AddCommand(drvLsCmd)
}
