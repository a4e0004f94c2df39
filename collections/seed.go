package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"panchayatworks/services"
)

// demoEstimate is a small road-and-drain estimate covering every item shape:
// measured items, a sub-itemised item and a directly entered quantity.
func demoEstimate() services.EstimateDocument {
	return services.EstimateDocument{
		WorkName:   "Construction of CC road with side drain at Ward 4",
		Code:       "GP/2026/017",
		Location:   "Ward 4, Gram Panchayat",
		PreparedBy: "Nirman Sahayak",
		FundSource: "15th Finance Commission",
		Items: []services.LineItem{
			{
				ScheduleCode: "1.1",
				Description:  "Earthwork in excavation for foundation",
				Unit:         services.UnitCubicMetre,
				Rate:         185.50,
				Measurements: []services.Measurement{
					{Description: "Road bed", Nos: 1, Length: 120, Breadth: 3.5, Depth: 0.15},
					{Description: "Drain trench", Nos: 2, Length: 120, Breadth: 0.6, Depth: 0.45},
				},
			},
			{
				ScheduleCode: "4.2",
				Description:  "Cement concrete 1:2:4 with stone chips",
				Unit:         services.UnitCubicMetre,
				SubItems: []services.SubItem{
					{
						Description:  "Road surface",
						Unit:         services.UnitCubicMetre,
						Rate:         6450,
						Measurements: []services.Measurement{{Nos: 1, Length: 120, Breadth: 3.5, Depth: 0.1}},
					},
					{
						Description:  "Drain bed",
						Unit:         services.UnitCubicMetre,
						Rate:         6450,
						Measurements: []services.Measurement{{Nos: 2, Length: 120, Breadth: 0.6, Depth: 0.075}},
					},
				},
			},
			{
				ScheduleCode: "9.8",
				Description:  "Display board as per scheme design",
				Unit:         services.UnitNumber,
				Rate:         3500,
				Quantity:     1,
			},
		},
	}
}

// Seed stores the demo estimate and its work when no work exists yet.
func Seed(app core.App, logger *zap.Logger) error {
	worksCol, err := app.FindCollectionByNameOrId("works")
	if err != nil {
		return fmt.Errorf("seed: could not find works collection: %w", err)
	}
	existing, err := app.FindRecordsByFilter(worksCol, "id != ''", "", 1, 0)
	if err == nil && len(existing) > 0 {
		logger.Debug("seed: works already present, skipping")
		return nil
	}

	doc, err := services.SaveEstimate(app, demoEstimate(), services.DefaultTaxRates)
	if err != nil {
		return fmt.Errorf("seed: save estimate: %w", err)
	}

	work := core.NewRecord(worksCol)
	work.Set("name", doc.WorkName)
	work.Set("code", doc.Code)
	work.Set("estimate", doc.ID)
	work.Set("status", services.WorkStatusOngoing)
	if err := app.Save(work); err != nil {
		return fmt.Errorf("seed: save work: %w", err)
	}

	logger.Info("seed: demo estimate created",
		zap.String("estimate_id", doc.ID),
		zap.String("work_id", work.Id),
		zap.String("grand_total", services.FormatINR(doc.Totals.GrandTotal)),
	)
	return nil
}
