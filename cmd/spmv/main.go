// spmv is a harness around the sparse engine: it replays recorded witness
// assignments against the A, B, C constraint matrices of a circuit and checks
// the three products against the results recorded by the upstream pipeline.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "spmv",
	Short:         "sparse matrix-vector product harness for R1CS folding artifacts",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err.Error())
		os.Exit(1)
	}
}
