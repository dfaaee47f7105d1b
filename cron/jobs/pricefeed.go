// Package jobs wires scheduled maintenance onto the cron registry. Importing
// it (usually blank) registers the jobs.
package jobs

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"cardmarket.GO/config"
	"cardmarket.GO/cron"
	inventoryService "cardmarket.GO/service/inventory"
	"cardmarket.GO/service/pricefeed"
)

func init() {
	cron.Register("pricefeedsync", envSchedule("PRICEFEED_SCHEDULE", "0 4 * * *"), PriceFeedSync)
}

func envSchedule(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// PriceFeedSync refreshes inventory prices from the JustTCG feed for the
// sets listed in PRICEFEED_SETS (comma-separated game:set pairs).
func PriceFeedSync(args ...string) {
	client := pricefeed.NewClient()
	if client == nil {
		log.Println("pricefeed: JUSTTCG_API_KEY not set, sync skipped")
		return
	}

	sets := os.Getenv("PRICEFEED_SETS")
	if len(args) > 0 && args[0] != "" {
		sets = args[0]
	}
	if sets == "" {
		log.Println("pricefeed: PRICEFEED_SETS not set, nothing to sync")
		return
	}

	db, err := config.NewDB()
	if err != nil {
		log.Printf("pricefeed: db connect: %v", err)
		return
	}
	proc, err := inventoryService.NewProcessor(db)
	if err != nil {
		log.Printf("pricefeed: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	for _, pair := range strings.Split(sets, ",") {
		game, set, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			log.Printf("pricefeed: bad set spec %q, want game:set", pair)
			continue
		}
		res, err := client.SyncSet(ctx, proc, game, set)
		if err != nil {
			log.Printf("pricefeed: sync %s: %v", pair, err)
			continue
		}
		log.Printf("pricefeed: %s updated=%d warnings=%d errors=%d", pair, res.Succeeded, len(res.Warnings), len(res.Errors))
	}
}
