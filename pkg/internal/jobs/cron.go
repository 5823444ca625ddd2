// Package jobs registers the scheduled maintenance tasks.
package jobs

import (
	"context"
	"fmt"

	ctxPkg "github.com/yeisme/geovault/pkg/context"
	"github.com/yeisme/geovault/pkg/internal/model"
	"github.com/yeisme/geovault/pkg/internal/storage"
	"github.com/yeisme/geovault/pkg/internal/storage/content"
	"github.com/yeisme/geovault/pkg/log"
	"github.com/yeisme/geovault/pkg/metrics"
	"github.com/yeisme/geovault/pkg/scheduler"
)

// RegisterCronJobs wires the maintenance tasks into the scheduler. The
// consistency sweep exists because the catalog-then-file write ordering can
// leave a committed row without its content file after a crash; the sweep
// surfaces those rows for repair by re-upload, it never mutates anything.
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	return sched.AddCron(JobContentConsistencySweep, CronContentConsistencySweep, func(ctx context.Context) {
		runConsistencySweep(ctx, mgr)
	}, baseCtx)
}

// runConsistencySweep counts catalog rows whose content file is missing and
// publishes the count as a gauge.
func runConsistencySweep(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", JobContentConsistencySweep).Logger()

	var datasets []model.Dataset
	if err := mgr.GetDBClient().GetDB().WithContext(ctx).Find(&datasets).Error; err != nil {
		l.Error().Err(err).Msg("failed to list datasets")

		return
	}

	store := mgr.GetContentStore()
	missing := 0

	for i := range datasets {
		d := &datasets[i]

		exists, err := store.Exists(ctx, content.ContentPath(d.ContentID))
		if err != nil {
			l.Error().Err(err).Uint("dataset_id", d.ID).Msg("failed to check content file")

			continue
		}

		if !exists {
			missing++

			l.Warn().
				Uint("dataset_id", d.ID).
				Str("name", d.Name).
				Str("content_id", d.ContentID).
				Int("version", d.Version).
				Msg("content file missing, dataset needs re-upload")
		}
	}

	metrics.ContentInconsistencies.Set(float64(missing))

	if missing == 0 {
		l.Info().Int("datasets", len(datasets)).Msg("consistency sweep clean")
	}
}
