//go:build cli
// +build cli

package main

import (
	_ "cardmarket.GO/cron/jobs"
	_ "cardmarket.GO/custom"

	"cardmarket.GO/cmd"
	"cardmarket.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
