package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"psxrev/drv"
)

var drvExtractOutput string

var drvExtractCmd = &cobra.Command{
	Use:   "extract FILE PATH",
	Short: "Extract one file from a .DRV image",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer f.Close()

		r, _, err := drv.OpenFile(f, drv.Path(args[1]))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		out := io.Writer(os.Stdout)
		if drvExtractOutput != "" {
			outFile, err := os.Create(drvExtractOutput)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			defer outFile.Close()
			out = outFile
		}

		if _, err := io.Copy(out, r); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	drvExtractCmd.Flags().StringVarP(&drvExtractOutput, "output", "o", "", "Output file, default: stdout")
	drvCmd.AddCommand(drvExtractCmd)
}
