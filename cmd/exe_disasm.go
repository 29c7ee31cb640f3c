package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"psxrev/exe"
)

var (
	exeDisasmDataPath  string
	exeDisasmFuncsPath string
)

var exeDisasmCmd = &cobra.Command{
	Use:   "disasm FILE",
	Short: "Disassemble a PS-X EXE executable",
	Long: `Disassemble a PS-X EXE executable, annotated by the data and function
catalogues when given.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer logger.Sync()

		f, err := os.Open(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer f.Close()

		program, err := exe.ReadExe(f)
		if err != nil {
			fmt.Println("Executable read error!")
			fmt.Println(err)
			os.Exit(1)
		}

		dataTable, err := loadDataCatalogue(exeDisasmDataPath)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		funcTable, err := loadFuncCatalogue(exeDisasmFuncsPath)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Printf("; %s\n", program.Header.Marker)
		fmt.Printf("; pc0=%#x gp0=%#x dest=%#x size=%#x\n",
			program.Header.PC0, program.Header.GP0, program.Header.DestPos, program.Header.Size)

		iter := exe.NewDecodeIter(program.Bytes, program.StartPos(), dataTable, funcTable, logger.Sugar())
		for {
			item, ok := iter.Next()
			if !ok {
				break
			}

			if item.Func != nil {
				fmt.Printf("\n%s: ; %s\n", item.Func.Name, item.Func.Signature)
			}
			if item.Directive != nil && item.Directive.Data != nil {
				fmt.Printf("%s: ; %s\n", item.Directive.Data.Name, item.Directive.Data.Desc)
			}
			fmt.Printf("  %s  %s\n", item.Pos, item)
		}
	},
}

func init() {
	exeDisasmCmd.Flags().StringVar(&exeDisasmDataPath, "data", "", "Data region catalogue (YAML)")
	exeDisasmCmd.Flags().StringVar(&exeDisasmFuncsPath, "funcs", "", "Function catalogue (YAML)")
	exeCmd.AddCommand(exeDisasmCmd)
}

func loadDataCatalogue(path string) (*exe.DataTable, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return exe.LoadDataTable(f)
}

func loadFuncCatalogue(path string) (*exe.FuncTable, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return exe.LoadFuncTable(f)
}
