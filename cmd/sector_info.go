package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"psxrev/cdrom"
)

var sectorInfoCmd = &cobra.Command{
	Use:                   "info FILE",
	Short:                 "Print the sector headers of a disc image",
	Long:                  `Walk every 2352-byte sector of a disc image and print its address and submode.`,
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer f.Close()

		iter := cdrom.NewReader(f).Sectors()
		for i := 0; iter.Next(); i++ {
			sector := iter.Sector()
			sub := sector.Header.SubHeader
			fmt.Printf("#%06d %s file=%d channel=%d submode=%#02x form=%d\n",
				i, sector.Header.Address, sub.File, sub.Channel, uint8(sub.SubMode), sub.SubMode.Form()+1)
		}
		if err := iter.Err(); err != nil {
			fmt.Println("Sector read error!")
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	sectorCmd.AddCommand(sectorInfoCmd)
}
