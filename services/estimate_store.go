package services

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// SaveEstimate recomputes doc and writes it with its whole item tree inside
// one transaction. An existing estimate keeps its record but its items are
// deleted and re-inserted, so a tree is never partially persisted.
func SaveEstimate(app core.App, doc EstimateDocument, rates TaxRates) (EstimateDocument, error) {
	computed, err := ComputeEstimate(doc, rates)
	if err != nil {
		return EstimateDocument{}, err
	}
	if err := validateStorable(computed); err != nil {
		return EstimateDocument{}, err
	}

	err = app.RunInTransaction(func(txApp core.App) error {
		rec, err := estimateRecord(txApp, computed.ID)
		if err != nil {
			return err
		}
		setEstimateFields(rec, computed)
		if err := txApp.Save(rec); err != nil {
			return fmt.Errorf("save estimate: %w", err)
		}
		computed.ID = rec.Id

		old, err := txApp.FindRecordsByFilter("estimate_items", "estimate = {:id}", "", 0, 0, map[string]any{"id": rec.Id})
		if err != nil {
			return fmt.Errorf("query old items: %w", err)
		}
		for _, o := range old {
			if err := txApp.Delete(o); err != nil {
				return fmt.Errorf("delete item %s: %w", o.Id, err)
			}
		}
		return insertItems(txApp, rec.Id, computed.Items)
	})
	if err != nil {
		return EstimateDocument{}, err
	}
	return computed, nil
}

// validateStorable checks the text fields the collections require.
func validateStorable(doc EstimateDocument) error {
	if doc.WorkName == "" {
		return invalid("work_name", "is required")
	}
	for i, it := range doc.Items {
		if strings.TrimSpace(it.Description) == "" {
			return invalid(fmt.Sprintf("items[%d].description", i), "is required")
		}
		for j, s := range it.SubItems {
			if strings.TrimSpace(s.Description) == "" {
				return invalid(fmt.Sprintf("items[%d].sub_items[%d].description", i, j), "is required")
			}
		}
	}
	return nil
}

func estimateRecord(app core.App, id string) (*core.Record, error) {
	if id != "" {
		rec, err := app.FindRecordById("estimates", id)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrEstimateNotFound, id)
		}
		return rec, nil
	}
	col, err := app.FindCollectionByNameOrId("estimates")
	if err != nil {
		return nil, fmt.Errorf("collection not found: %w", err)
	}
	return core.NewRecord(col), nil
}

func setEstimateFields(rec *core.Record, doc EstimateDocument) {
	rec.Set("work_name", doc.WorkName)
	rec.Set("code", doc.Code)
	rec.Set("location", doc.Location)
	rec.Set("prepared_by", doc.PreparedBy)
	rec.Set("fund_source", doc.FundSource)
	rec.Set("contingency", doc.Contingency)
	rec.Set("itemwise_total", doc.Totals.ItemwiseTotal)
	rec.Set("gst_amount", doc.Totals.GSTAmount)
	rec.Set("cost_excl_lwc", doc.Totals.CostExclLWC)
	rec.Set("lwc_amount", doc.Totals.LWCAmount)
	rec.Set("cost_incl_lwc", doc.Totals.CostInclLWC)
	rec.Set("grand_total", doc.Totals.GrandTotal)
}

func insertItems(app core.App, estimateID string, items []LineItem) error {
	itemsCol, err := app.FindCollectionByNameOrId("estimate_items")
	if err != nil {
		return fmt.Errorf("collection not found: %w", err)
	}
	subCol, err := app.FindCollectionByNameOrId("estimate_sub_items")
	if err != nil {
		return fmt.Errorf("collection not found: %w", err)
	}
	mCol, err := app.FindCollectionByNameOrId("measurements")
	if err != nil {
		return fmt.Errorf("collection not found: %w", err)
	}

	for _, it := range items {
		rec := core.NewRecord(itemsCol)
		rec.Set("estimate", estimateID)
		rec.Set("sort_order", it.Serial)
		rec.Set("schedule_code", it.ScheduleCode)
		rec.Set("description", it.Description)
		rec.Set("unit", string(it.Unit))
		rec.Set("rate", it.Rate)
		rec.Set("quantity", it.Quantity)
		rec.Set("amount", it.Amount)
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("save item %d: %w", it.Serial, err)
		}
		if err := insertMeasurements(app, mCol, "item", rec.Id, it.Measurements); err != nil {
			return err
		}

		for j, s := range it.SubItems {
			srec := core.NewRecord(subCol)
			srec.Set("item", rec.Id)
			srec.Set("sort_order", j+1)
			srec.Set("letter", s.Letter)
			srec.Set("description", s.Description)
			srec.Set("unit", string(s.Unit))
			srec.Set("rate", s.Rate)
			srec.Set("quantity", s.Quantity)
			srec.Set("amount", s.Amount)
			if err := app.Save(srec); err != nil {
				return fmt.Errorf("save sub-item %d(%s): %w", it.Serial, s.Letter, err)
			}
			if err := insertMeasurements(app, mCol, "sub_item", srec.Id, s.Measurements); err != nil {
				return err
			}
		}
	}
	return nil
}

func insertMeasurements(app core.App, col *core.Collection, owner, ownerID string, ms []Measurement) error {
	for k, m := range ms {
		rec := core.NewRecord(col)
		rec.Set(owner, ownerID)
		rec.Set("sort_order", k+1)
		rec.Set("description", m.Description)
		rec.Set("nos", m.Nos)
		rec.Set("length", m.Length)
		rec.Set("breadth", m.Breadth)
		rec.Set("depth", m.Depth)
		rec.Set("quantity", m.Quantity)
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("save measurement: %w", err)
		}
	}
	return nil
}

// LoadEstimate rebuilds an estimate from storage and recomputes it, so stored
// quantity and amount columns are never trusted over the raw inputs.
func LoadEstimate(app core.App, id string, rates TaxRates) (EstimateDocument, error) {
	rec, err := app.FindRecordById("estimates", id)
	if err != nil {
		return EstimateDocument{}, fmt.Errorf("%w: %s", ErrEstimateNotFound, id)
	}

	doc := EstimateDocument{
		ID:          rec.Id,
		WorkName:    rec.GetString("work_name"),
		Code:        rec.GetString("code"),
		Location:    rec.GetString("location"),
		PreparedBy:  rec.GetString("prepared_by"),
		FundSource:  rec.GetString("fund_source"),
		Contingency: rec.GetFloat("contingency"),
	}

	itemRecs, err := app.FindRecordsByFilter("estimate_items", "estimate = {:id}", "sort_order", 0, 0, map[string]any{"id": rec.Id})
	if err != nil {
		return EstimateDocument{}, fmt.Errorf("query items: %w", err)
	}
	for _, ir := range itemRecs {
		item := LineItem{
			ScheduleCode: ir.GetString("schedule_code"),
			Description:  ir.GetString("description"),
			Unit:         Unit(ir.GetString("unit")),
			Rate:         ir.GetFloat("rate"),
			Quantity:     ir.GetFloat("quantity"),
		}
		if item.Measurements, err = loadMeasurements(app, "item", ir.Id); err != nil {
			return EstimateDocument{}, err
		}

		subRecs, err := app.FindRecordsByFilter("estimate_sub_items", "item = {:id}", "sort_order", 0, 0, map[string]any{"id": ir.Id})
		if err != nil {
			return EstimateDocument{}, fmt.Errorf("query sub-items: %w", err)
		}
		for _, sr := range subRecs {
			sub := SubItem{
				Description: sr.GetString("description"),
				Unit:        Unit(sr.GetString("unit")),
				Rate:        sr.GetFloat("rate"),
				Quantity:    sr.GetFloat("quantity"),
			}
			if sub.Measurements, err = loadMeasurements(app, "sub_item", sr.Id); err != nil {
				return EstimateDocument{}, err
			}
			item.SubItems = append(item.SubItems, sub)
		}
		doc.Items = append(doc.Items, item)
	}

	return ComputeEstimate(doc, rates)
}

func loadMeasurements(app core.App, owner, ownerID string) ([]Measurement, error) {
	recs, err := app.FindRecordsByFilter("measurements", owner+" = {:id}", "sort_order", 0, 0, map[string]any{"id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("query measurements: %w", err)
	}
	var out []Measurement
	for _, r := range recs {
		out = append(out, Measurement{
			Description: r.GetString("description"),
			Nos:         r.GetFloat("nos"),
			Length:      r.GetFloat("length"),
			Breadth:     r.GetFloat("breadth"),
			Depth:       r.GetFloat("depth"),
		})
	}
	return out, nil
}
