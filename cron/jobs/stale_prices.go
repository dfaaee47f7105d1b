package jobs

import (
	"log"
	"time"

	"cardmarket.GO/config"
	"cardmarket.GO/cron"
)

func init() {
	cron.Register("stalepricesweep", envSchedule("STALE_SWEEP_SCHEDULE", "30 4 * * *"), StalePriceSweep)
}

// StalePriceSweep reports sellable units whose price has not been refreshed
// within the configured staleness window. Report-only: repricing stays a
// human (or feed) decision.
func StalePriceSweep(args ...string) {
	db, err := config.NewDB()
	if err != nil {
		log.Printf("stale sweep: db connect: %v", err)
		return
	}

	days := 7
	if config.AppConfig != nil && config.AppConfig.PriceStaleDays > 0 {
		days = config.AppConfig.PriceStaleDays
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	var count int64
	err = db.Table("inventory_record").
		Where("stock_quantity > 0 AND last_price_update < ?", cutoff).
		Count(&count).Error
	if err != nil {
		log.Printf("stale sweep: %v", err)
		return
	}
	if count > 0 {
		log.Printf("stale sweep: %d in-stock record(s) priced before %s", count, cutoff.Format("2006-01-02"))
	}
}
