// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"panchayatworks/collections"
	"panchayatworks/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	if err := collections.Setup(app, zap.NewNop()); err != nil {
		t.Fatalf("failed to set up collections: %v", err)
	}

	return app
}

// SampleEstimate returns an unsaved estimate with one measured item, one
// sub-itemised item and one directly entered item.
func SampleEstimate(workName string) services.EstimateDocument {
	return services.EstimateDocument{
		WorkName:   workName,
		Code:       "T/01",
		Location:   "Test village",
		PreparedBy: "Tester",
		Items: []services.LineItem{
			{
				Description: "Earthwork",
				Unit:        services.UnitCubicMetre,
				Rate:        100,
				Measurements: []services.Measurement{
					{Description: "Trench", Nos: 2, Length: 10, Breadth: 0.5, Depth: 1},
				},
			},
			{
				Description: "Brickwork",
				Unit:        services.UnitCubicMetre,
				SubItems: []services.SubItem{
					{Description: "Foundation", Unit: services.UnitCubicMetre, Rate: 10, Quantity: 2},
					{Description: "Superstructure", Unit: services.UnitCubicMetre, Rate: 5, Quantity: 3},
				},
			},
			{
				Description: "Signboard",
				Unit:        services.UnitNumber,
				Rate:        2500,
				Quantity:    1,
			},
		},
	}
}

// CreateTestEstimate saves SampleEstimate and returns the stored document.
func CreateTestEstimate(t *testing.T, app *pocketbase.PocketBase, workName string) services.EstimateDocument {
	t.Helper()

	doc, err := services.SaveEstimate(app, SampleEstimate(workName), services.DefaultTaxRates)
	if err != nil {
		t.Fatalf("failed to save test estimate: %v", err)
	}
	return doc
}

// CreateTestWork creates an ongoing work record and returns it.
func CreateTestWork(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("works")
	if err != nil {
		t.Fatalf("failed to find works collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("code", "W-"+truncate(name, 8))
	record.Set("status", services.WorkStatusOngoing)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test work: %v", err)
	}

	return record
}

// StandardRates is 1% income tax, 2% GST-TDS, 1% cess and 10% security deposit.
var StandardRates = services.DeductionRates{
	IncomeTaxPercent:       1,
	GSTTDSPercent:          2,
	LabourCessPercent:      1,
	SecurityDepositPercent: 10,
}

// CreateTestDeduction stores an unverified deduction of gross against workID
// at StandardRates.
func CreateTestDeduction(t *testing.T, app *pocketbase.PocketBase, workID string, gross float64) services.BillDeduction {
	t.Helper()

	d, err := services.NewBillDeduction(workID, gross, StandardRates)
	if err != nil {
		t.Fatalf("failed to compute test deduction: %v", err)
	}
	d, err = services.SaveDeduction(app, d, "BILL-1")
	if err != nil {
		t.Fatalf("failed to save test deduction: %v", err)
	}
	return d
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
