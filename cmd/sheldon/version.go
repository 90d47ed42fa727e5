package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the sheldon version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("sheldon", version)
		},
	})
}
