package services

import (
	"fmt"
	"strings"
)

// RowLevel tells renderers how to indent and style an export row.
type RowLevel int

const (
	LevelItem        RowLevel = iota // a line item
	LevelSubItem                     // a lettered sub-item
	LevelMeasurement                 // one nos x L x B x D entry
)

// ExportRow is one printed row of an estimate or measurement book.
// Dimensional fields are zero (printed blank) where they do not apply.
type ExportRow struct {
	Level        RowLevel
	Serial       string // "3", "3(a)", "" for measurements
	ScheduleCode string
	Description  string
	Unit         string
	Nos          float64
	Length       float64
	Breadth      float64
	Depth        float64
	Quantity     float64
	Rate         float64
	Amount       float64
	// ShowPrice is false for measurement rows and for parents whose own
	// fields are suppressed by sub-items.
	ShowPrice bool
}

// ItemRows flattens a computed line item into printable rows. A parent with
// sub-items prints its description only; the lettered rows carry the figures.
func ItemRows(item LineItem) []ExportRow {
	serial := fmt.Sprintf("%d", item.Serial)
	parent := ExportRow{
		Level:        LevelItem,
		Serial:       serial,
		ScheduleCode: item.ScheduleCode,
		Description:  item.Description,
		Unit:         string(item.Unit),
		Quantity:     item.Quantity,
		Rate:         item.Rate,
		Amount:       item.Amount,
		ShowPrice:    !item.HasSubItems(),
	}
	rows := []ExportRow{parent}
	rows = append(rows, measurementRows(item.Measurements)...)

	for _, s := range item.SubItems {
		rows = append(rows, ExportRow{
			Level:       LevelSubItem,
			Serial:      fmt.Sprintf("%s(%s)", serial, s.Letter),
			Description: s.Description,
			Unit:        string(s.Unit),
			Quantity:    s.Quantity,
			Rate:        s.Rate,
			Amount:      s.Amount,
			ShowPrice:   true,
		})
		rows = append(rows, measurementRows(s.Measurements)...)
	}
	return rows
}

func measurementRows(ms []Measurement) []ExportRow {
	rows := make([]ExportRow, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, ExportRow{
			Level:       LevelMeasurement,
			Description: m.Description,
			Nos:         m.Nos,
			Length:      m.Length,
			Breadth:     m.Breadth,
			Depth:       m.Depth,
			Quantity:    m.Quantity,
		})
	}
	return rows
}

// AbstractRow is one line of the abstract of cost: the item figures only.
func AbstractRow(item LineItem) ExportRow {
	return ExportRow{
		Level:        LevelItem,
		Serial:       fmt.Sprintf("%d", item.Serial),
		ScheduleCode: item.ScheduleCode,
		Description:  item.Description,
		Unit:         string(item.Unit),
		Quantity:     item.Quantity,
		Rate:         item.Rate,
		Amount:       item.Amount,
		ShowPrice:    true,
	}
}

// DocumentTitle names a printed estimate document.
func DocumentTitle(kind, workName string) string {
	workName = strings.TrimSpace(workName)
	if workName == "" {
		return kind
	}
	return kind + " - " + workName
}

// TotalsLines lists the total chain as label/value pairs in print order.
func TotalsLines(t DocumentTotals, rates TaxRates) [][2]string {
	return [][2]string{
		{"Itemwise total", FormatAmount(t.ItemwiseTotal)},
		{fmt.Sprintf("Add GST @ %s", FormatPercent(rates.GSTPercent)), FormatAmount(t.GSTAmount)},
		{"Cost excluding LWC", FormatAmount(t.CostExclLWC)},
		{fmt.Sprintf("Add LWC @ %s", FormatPercent(rates.LWCPercent)), FormatAmount(t.LWCAmount)},
		{"Cost including LWC", FormatAmount(t.CostInclLWC)},
		{"Contingency", FormatAmount(t.Contingency)},
		{"Grand total", FormatAmount(t.GrandTotal)},
	}
}
