package jobs

// Job names and schedules.
const (
	// JobContentConsistencySweep walks the catalog and reports datasets
	// whose content file is missing.
	JobContentConsistencySweep  = "content.consistency_sweep"
	CronContentConsistencySweep = "0 * * * *" // hourly
)
