package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"panchayatworks/services"
)

// Setup creates the estimate, works, deduction and register collections if
// they do not already exist.
func Setup(app core.App, logger *zap.Logger) error {
	s := &setup{app: app, logger: logger}

	estimates := s.ensure("estimates", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "work_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "code"})
		c.Fields.Add(&core.TextField{Name: "location"})
		c.Fields.Add(&core.TextField{Name: "prepared_by"})
		c.Fields.Add(&core.TextField{Name: "fund_source"})
		c.Fields.Add(&core.NumberField{Name: "contingency"})
		c.Fields.Add(&core.NumberField{Name: "itemwise_total"})
		c.Fields.Add(&core.NumberField{Name: "gst_amount"})
		c.Fields.Add(&core.NumberField{Name: "cost_excl_lwc"})
		c.Fields.Add(&core.NumberField{Name: "lwc_amount"})
		c.Fields.Add(&core.NumberField{Name: "cost_incl_lwc"})
		c.Fields.Add(&core.NumberField{Name: "grand_total"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	items := s.ensure("estimate_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "estimate",
			Required:      true,
			CollectionId:  estimates.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "schedule_code"})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.TextField{Name: "unit"})
		c.Fields.Add(&core.NumberField{Name: "rate"})
		c.Fields.Add(&core.NumberField{Name: "quantity"})
		c.Fields.Add(&core.NumberField{Name: "amount"})
	})

	subItems := s.ensure("estimate_sub_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "item",
			Required:      true,
			CollectionId:  items.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "letter"})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.TextField{Name: "unit", Required: true})
		c.Fields.Add(&core.NumberField{Name: "rate"})
		c.Fields.Add(&core.NumberField{Name: "quantity"})
		c.Fields.Add(&core.NumberField{Name: "amount"})
	})

	// A measurement belongs to an item or to a sub-item, not both.
	s.ensure("measurements", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "item",
			CollectionId:  items.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:          "sub_item",
			CollectionId:  subItems.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "description"})
		c.Fields.Add(&core.NumberField{Name: "nos"})
		c.Fields.Add(&core.NumberField{Name: "length"})
		c.Fields.Add(&core.NumberField{Name: "breadth"})
		c.Fields.Add(&core.NumberField{Name: "depth"})
		c.Fields.Add(&core.NumberField{Name: "quantity"})
	})

	works := s.ensure("works", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "code"})
		c.Fields.Add(&core.RelationField{
			Name:         "estimate",
			CollectionId: estimates.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{services.WorkStatusOngoing, services.WorkStatusCompleted, services.WorkStatusPaid},
			MaxSelect: 1,
		})
	})

	deductions := s.ensure("bill_deductions", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "work",
			Required:      true,
			CollectionId:  works.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "bill_ref"})
		c.Fields.Add(&core.NumberField{Name: "gross"})
		c.Fields.Add(&core.NumberField{Name: "income_tax_percent"})
		c.Fields.Add(&core.NumberField{Name: "income_tax_amount"})
		c.Fields.Add(&core.NumberField{Name: "gst_tds_percent"})
		c.Fields.Add(&core.NumberField{Name: "gst_tds_amount"})
		c.Fields.Add(&core.NumberField{Name: "cgst_amount"})
		c.Fields.Add(&core.NumberField{Name: "sgst_amount"})
		c.Fields.Add(&core.NumberField{Name: "labour_cess_percent"})
		c.Fields.Add(&core.NumberField{Name: "labour_cess_amount"})
		c.Fields.Add(&core.NumberField{Name: "security_deposit_percent"})
		c.Fields.Add(&core.NumberField{Name: "security_deposit_amount"})
		c.Fields.Add(&core.NumberField{Name: "total_deduction"})
		c.Fields.Add(&core.NumberField{Name: "net_payable"})
		c.Fields.Add(&core.BoolField{Name: "verified"})
		c.Fields.Add(&core.DateField{Name: "verified_at"})
		c.Fields.Add(&core.DateField{Name: "payment_date"})
		c.Fields.Add(&core.JSONField{Name: "voucher_numbers"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	s.ensure("payments", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "deduction",
			Required:      true,
			CollectionId:  deductions.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "work",
			Required:     true,
			CollectionId: works.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "reference", Required: true})
		c.Fields.Add(&core.NumberField{Name: "amount"})
		c.Fields.Add(&core.DateField{Name: "paid_on"})
	})

	s.ensure("villages", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "district", Required: true})
		c.Fields.Add(&core.TextField{Name: "block", Required: true})
		c.Fields.Add(&core.TextField{Name: "panchayat", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "population"})
		c.Fields.Add(&core.NumberField{Name: "households"})
	})

	s.ensure("tenders", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "nit_number", Required: true})
		c.Fields.Add(&core.NumberField{Name: "work_serial"})
		c.Fields.Add(&core.TextField{Name: "work_name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "estimated_cost"})
		c.Fields.Add(&core.TextField{Name: "status"})
	})

	return s.err
}

// setup remembers the first failure so Setup can declare every collection in
// one pass and report a single error.
type setup struct {
	app    core.App
	logger *zap.Logger
	err    error
}

// ensure returns the named collection, creating it with the fields added by
// addFields when it does not exist yet.
func (s *setup) ensure(name string, addFields func(*core.Collection)) *core.Collection {
	if s.err != nil {
		return &core.Collection{}
	}
	existing, err := s.app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		s.logger.Debug("collection already exists", zap.String("collection", name))
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := s.app.Save(collection); err != nil {
		s.err = fmt.Errorf("create collection %q: %w", name, err)
		return collection
	}

	s.logger.Info("created collection", zap.String("collection", name), zap.String("id", collection.Id))
	return collection
}
