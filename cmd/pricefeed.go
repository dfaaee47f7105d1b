package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cardmarket.GO/config"
	inventoryService "cardmarket.GO/service/inventory"
	"cardmarket.GO/service/pricefeed"
)

var (
	feedGame string
	feedSet  string
)

var pricefeedSyncCmd = &cobra.Command{
	Use:   "pricefeed:sync",
	Short: "Pull current market prices for a set from JustTCG and apply them",
	Run: func(cmd *cobra.Command, args []string) {
		client := pricefeed.NewClient()
		if client == nil {
			fmt.Println("JUSTTCG_API_KEY not set, nothing to sync.")
			return
		}

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

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		res, err := client.SyncSet(ctx, proc, feedGame, feedSet)
		if err != nil {
			fmt.Printf("Sync failed: %v\n", err)
			return
		}

		for _, w := range res.Warnings {
			fmt.Printf("  [warn] %s\n", w)
		}
		for _, e := range res.Errors {
			fmt.Printf("  [error] %s\n", e)
		}
		fmt.Printf("Synced %s/%s: %d variants seen, %d prices applied in %s\n",
			feedGame, feedSet, res.TotalRows, res.Succeeded, res.TotalTime.Round(time.Millisecond))
	},
}

func init() {
	pricefeedSyncCmd.Flags().StringVar(&feedGame, "game", "pokemon", "Game slug (e.g. pokemon, mtg)")
	pricefeedSyncCmd.Flags().StringVar(&feedSet, "set", "", "Set name (required)")
	pricefeedSyncCmd.MarkFlagRequired("set")
	rootCmd.AddCommand(pricefeedSyncCmd)
}
