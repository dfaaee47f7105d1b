package config

// CronJob pairs a cron schedule with a job function.
type CronJob struct {
	Schedule string
	Job      func(...string)
}

// CronJobs holds statically configured jobs. Packages normally register jobs
// through cron.Register from init(); this map exists for deployments that
// want to pin schedules in code.
var CronJobs = map[string]CronJob{}
