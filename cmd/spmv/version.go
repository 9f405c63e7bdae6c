package main

import (
	"fmt"

	"github.com/consensys/spmv"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the artifact format version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(spmv.Version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
