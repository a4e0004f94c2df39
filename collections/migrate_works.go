package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"panchayatworks/services"
)

// MigrateWorkStatuses repairs works whose status is blank or out of step with
// their payments: a blank status becomes ongoing and any work with a recorded
// payment becomes paid. Safe to call on every startup.
func MigrateWorkStatuses(app core.App, logger *zap.Logger) error {
	worksCol, err := app.FindCollectionByNameOrId("works")
	if err != nil {
		return fmt.Errorf("migrate_works: could not find works collection: %w", err)
	}

	works, err := app.FindAllRecords(worksCol)
	if err != nil {
		return fmt.Errorf("migrate_works: could not query works: %w", err)
	}

	updated := 0
	for _, work := range works {
		want := work.GetString("status")
		if want == "" {
			want = services.WorkStatusOngoing
		}
		if want != services.WorkStatusPaid {
			payments, _ := app.FindRecordsByFilter("payments", "work = {:workId}", "", 1, 0,
				map[string]any{"workId": work.Id})
			if len(payments) > 0 {
				want = services.WorkStatusPaid
			}
		}
		if want == work.GetString("status") {
			continue
		}

		work.Set("status", want)
		if err := app.Save(work); err != nil {
			logger.Warn("migrate_works: failed to update work",
				zap.String("work_id", work.Id), zap.Error(err))
			continue
		}
		updated++
	}

	if updated > 0 {
		logger.Info("migrate_works: statuses repaired", zap.Int("count", updated))
	}
	return nil
}
