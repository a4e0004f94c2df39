package services

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// Village is a demographic record keyed by district, block, panchayat and name.
type Village struct {
	ID         string `json:"id,omitempty"`
	District   string `json:"district"`
	Block      string `json:"block"`
	Panchayat  string `json:"panchayat"`
	Name       string `json:"name"`
	Population int    `json:"population"`
	Households int    `json:"households"`
}

func (v Village) validate() error {
	for _, f := range []struct{ name, value string }{
		{"district", v.District},
		{"block", v.Block},
		{"panchayat", v.Panchayat},
		{"name", v.Name},
	} {
		if strings.TrimSpace(f.value) == "" {
			return invalid(f.name, "is required")
		}
	}
	if v.Population < 0 {
		return invalid("population", "must not be negative")
	}
	if v.Households < 0 {
		return invalid("households", "must not be negative")
	}
	if v.Households > v.Population {
		return invalid("households", "cannot exceed population")
	}
	return nil
}

// Tender is a notice-inviting-tender entry keyed by NIT number and work serial.
type Tender struct {
	ID            string  `json:"id,omitempty"`
	NITNumber     string  `json:"nit_number"`
	WorkSerial    int     `json:"work_serial"`
	WorkName      string  `json:"work_name"`
	EstimatedCost float64 `json:"estimated_cost"`
	Status        string  `json:"status"`
}

// Tender statuses.
const (
	TenderPublished = "published"
	TenderAwarded   = "awarded"
	TenderCancelled = "cancelled"
)

func (t Tender) validate() error {
	if strings.TrimSpace(t.NITNumber) == "" {
		return invalid("nit_number", "is required")
	}
	if t.WorkSerial < 1 {
		return invalid("work_serial", "must be at least 1")
	}
	if strings.TrimSpace(t.WorkName) == "" {
		return invalid("work_name", "is required")
	}
	if err := checkNonNegative("estimated_cost", t.EstimatedCost); err != nil {
		return err
	}
	switch t.Status {
	case TenderPublished, TenderAwarded, TenderCancelled:
	default:
		return invalid("status", "unknown status %q", t.Status)
	}
	return nil
}

// UpsertVillage inserts the village or replaces the one with the same
// district, block, panchayat and name.
func UpsertVillage(app core.App, v Village) (Village, error) {
	if err := v.validate(); err != nil {
		return Village{}, err
	}
	rec, err := findOrNew(app, "villages",
		"district = {:district} && block = {:block} && panchayat = {:panchayat} && name = {:name}",
		map[string]any{"district": v.District, "block": v.Block, "panchayat": v.Panchayat, "name": v.Name})
	if err != nil {
		return Village{}, err
	}
	rec.Set("district", v.District)
	rec.Set("block", v.Block)
	rec.Set("panchayat", v.Panchayat)
	rec.Set("name", v.Name)
	rec.Set("population", v.Population)
	rec.Set("households", v.Households)
	if err := app.Save(rec); err != nil {
		return Village{}, fmt.Errorf("save village: %w", err)
	}
	v.ID = rec.Id
	return v, nil
}

// UpsertTender inserts the tender or replaces the one with the same NIT
// number and work serial.
func UpsertTender(app core.App, t Tender) (Tender, error) {
	if t.Status == "" {
		t.Status = TenderPublished
	}
	if err := t.validate(); err != nil {
		return Tender{}, err
	}
	rec, err := findOrNew(app, "tenders",
		"nit_number = {:nit} && work_serial = {:serial}",
		map[string]any{"nit": t.NITNumber, "serial": t.WorkSerial})
	if err != nil {
		return Tender{}, err
	}
	rec.Set("nit_number", t.NITNumber)
	rec.Set("work_serial", t.WorkSerial)
	rec.Set("work_name", t.WorkName)
	rec.Set("estimated_cost", RoundCurrency(t.EstimatedCost))
	rec.Set("status", t.Status)
	if err := app.Save(rec); err != nil {
		return Tender{}, fmt.Errorf("save tender: %w", err)
	}
	t.ID = rec.Id
	return t, nil
}

func findOrNew(app core.App, collection, filter string, params map[string]any) (*core.Record, error) {
	existing, err := app.FindRecordsByFilter(collection, filter, "", 1, 0, params)
	if err == nil && len(existing) > 0 {
		return existing[0], nil
	}
	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		return nil, fmt.Errorf("collection not found: %w", err)
	}
	return core.NewRecord(col), nil
}
