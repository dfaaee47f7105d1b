package cmd

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cardmarket",
	Short: "Card marketplace CLI",
	Long:  "Management commands for the card marketplace backend: orders, inventory, prices, cron.",
	Run: func(cmd *cobra.Command, args []string) {
		figure.NewFigure("cardmarket", "", true).Print()
		fmt.Println()
		cmd.Help()
	},
}

// Execute runs the root command. Called from the cli build entrypoint.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
