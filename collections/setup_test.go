package collections_test

import (
	"testing"

	"go.uber.org/zap"

	"panchayatworks/collections"
	"panchayatworks/testhelpers"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"estimates",
	"estimate_items",
	"estimate_sub_items",
	"measurements",
	"works",
	"bill_deductions",
	"payments",
	"villages",
	"tenders",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	if err := collections.Setup(app, zap.NewNop()); err != nil {
		t.Fatalf("second Setup() error: %v", err)
	}

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q ID changed from %q to %q", name, ids[name], col.Id)
		}
	}
}

func TestSetup_Fields(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		collection string
		fields     []string
	}{
		{"estimates", []string{"work_name", "code", "location", "prepared_by", "fund_source", "contingency", "grand_total"}},
		{"estimate_items", []string{"estimate", "sort_order", "schedule_code", "description", "unit", "rate", "quantity", "amount"}},
		{"estimate_sub_items", []string{"item", "sort_order", "letter", "description", "unit", "rate", "quantity", "amount"}},
		{"measurements", []string{"item", "sub_item", "nos", "length", "breadth", "depth", "quantity"}},
		{"works", []string{"name", "code", "estimate", "status"}},
		{"bill_deductions", []string{"work", "gross", "gst_tds_amount", "cgst_amount", "sgst_amount", "net_payable", "verified", "voucher_numbers"}},
		{"payments", []string{"deduction", "work", "reference", "amount", "paid_on"}},
		{"villages", []string{"district", "block", "panchayat", "name", "population", "households"}},
		{"tenders", []string{"nit_number", "work_serial", "work_name", "estimated_cost", "status"}},
	}
	for _, tt := range tests {
		t.Run(tt.collection, func(t *testing.T) {
			col, err := app.FindCollectionByNameOrId(tt.collection)
			if err != nil {
				t.Fatalf("collection %q not found: %v", tt.collection, err)
			}
			for _, f := range tt.fields {
				if col.Fields.GetByName(f) == nil {
					t.Errorf("collection %q missing field %q", tt.collection, f)
				}
			}
		})
	}
}

func TestSetup_CascadeDeletesItemTree(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	doc := testhelpers.CreateTestEstimate(t, app, "Cascade")

	rec, err := app.FindRecordById("estimates", doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := app.Delete(rec); err != nil {
		t.Fatalf("delete estimate: %v", err)
	}

	for _, name := range []string{"estimate_items", "estimate_sub_items", "measurements"} {
		recs, err := app.FindAllRecords(name)
		if err != nil {
			t.Fatal(err)
		}
		if len(recs) != 0 {
			t.Errorf("%s: %d records survive estimate deletion", name, len(recs))
		}
	}
}
