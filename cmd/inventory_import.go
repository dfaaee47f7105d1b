package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cardmarket.GO/config"
	inventoryService "cardmarket.GO/service/inventory"
)

var correctionsFile string

var inventoryImportCmd = &cobra.Command{
	Use:   "inventory:import",
	Short: "Apply inventory corrections from a CSV file",
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(correctionsFile)
		if err != nil {
			fmt.Printf("Failed to open CSV: %v\n", err)
			return
		}
		defer f.Close()

		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}

		proc, err := inventoryService.NewProcessor(db)
		if err != nil {
			fmt.Printf("Processor init failed: %v\n", err)
			return
		}

		res, err := inventoryService.ImportCSV(proc, f)
		if err != nil {
			fmt.Printf("Import failed: %v\n", err)
			return
		}

		for _, w := range res.Warnings {
			fmt.Printf("  [warn] %s\n", w)
		}
		for _, e := range res.Errors {
			fmt.Printf("  [error] %s\n", e)
		}

		fmt.Printf(`
=== Reconciliation Report ===
CSV rows:       %d
Applied:        %d
Warnings:       %d
Errors:         %d
Total time:     %s
=============================
`, res.TotalRows, res.Succeeded, len(res.Warnings), len(res.Errors),
			res.TotalTime.Round(time.Millisecond))
	},
}

func init() {
	inventoryImportCmd.Flags().StringVarP(&correctionsFile, "file", "f", "", "CSV file path (required)")
	inventoryImportCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(inventoryImportCmd)
}
