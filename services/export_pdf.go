package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// DocumentOptions are the caller-supplied layout settings of a paginated
// document. Capacity is the number of line items per page.
type DocumentOptions struct {
	Capacity    int
	Rates       TaxRates
	GeneratedOn string
}

// column is one table column: grid width, heading and alignment.
type column struct {
	size  int
	title string
	align align.Type
}

var estimateColumns = []column{
	{1, "Sl.", align.Center},
	{3, "Description of item", align.Left},
	{1, "Nos", align.Right},
	{1, "L", align.Right},
	{1, "B", align.Right},
	{1, "D", align.Right},
	{1, "Qty", align.Right},
	{1, "Unit", align.Center},
	{1, "Rate", align.Right},
	{1, "Amount", align.Right},
}

var abstractColumns = []column{
	{1, "Sl.", align.Center},
	{1, "Sch. code", align.Center},
	{4, "Description of item", align.Left},
	{1, "Qty", align.Right},
	{1, "Unit", align.Center},
	{2, "Rate", align.Right},
	{2, "Amount", align.Right},
}

var measurementColumns = []column{
	{1, "Sl.", align.Center},
	{5, "Particulars", align.Left},
	{1, "Nos", align.Right},
	{1, "L", align.Right},
	{1, "B", align.Right},
	{1, "D", align.Right},
	{1, "Qty", align.Right},
	{1, "Unit", align.Center},
}

var (
	headerBg   = &props.Color{Red: 33, Green: 37, Blue: 41}
	subItemBg  = &props.Color{Red: 245, Green: 245, Blue: 245}
	markerBg   = &props.Color{Red: 235, Green: 235, Blue: 235}
	mutedColor = &props.Color{Red: 80, Green: 80, Blue: 80}
)

func newDocument(o orientation.Type) core.Maroto {
	cfg := config.NewBuilder().
		WithOrientation(o).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()
	return maroto.New(cfg)
}

// GenerateEstimatePDF prints the detailed estimate: every item with its
// sub-items and measurements, opts.Capacity items per page, running amounts
// carried between pages and the total chain on the last page.
func GenerateEstimatePDF(doc EstimateDocument, opts DocumentOptions) ([]byte, error) {
	return generatePaged(doc, opts, pagedLayout{
		kind:        "Detailed Estimate",
		orientation: orientation.Horizontal,
		columns:     estimateColumns,
		withAmounts: true,
		rowsOf: func(item LineItem) []ExportRow {
			return ItemRows(item)
		},
		cellsOf: estimateCells,
	})
}

// GenerateAbstractPDF prints the abstract of cost, one row per item.
func GenerateAbstractPDF(doc EstimateDocument, opts DocumentOptions) ([]byte, error) {
	return generatePaged(doc, opts, pagedLayout{
		kind:        "Abstract of Cost",
		orientation: orientation.Vertical,
		columns:     abstractColumns,
		withAmounts: true,
		rowsOf: func(item LineItem) []ExportRow {
			return []ExportRow{AbstractRow(item)}
		},
		cellsOf: abstractCells,
	})
}

// GenerateMeasurementBookPDF prints the measurement book. It carries no
// amounts, only the continuity markers between pages.
func GenerateMeasurementBookPDF(doc EstimateDocument, opts DocumentOptions) ([]byte, error) {
	return generatePaged(doc, opts, pagedLayout{
		kind:        "Measurement Book",
		orientation: orientation.Vertical,
		columns:     measurementColumns,
		rowsOf: func(item LineItem) []ExportRow {
			return ItemRows(item)
		},
		cellsOf: measurementCells,
	})
}

type pagedLayout struct {
	kind        string
	orientation orientation.Type
	columns     []column
	withAmounts bool
	rowsOf      func(LineItem) []ExportRow
	cellsOf     func(ExportRow) []string
}

func generatePaged(doc EstimateDocument, opts DocumentOptions, layout pagedLayout) ([]byte, error) {
	blocks, err := Paginate(doc.Items, opts.Capacity)
	if err != nil {
		return nil, err
	}
	running := RunningTotals(blocks, func(it LineItem) float64 { return it.Amount })

	m := newDocument(layout.orientation)
	title := DocumentTitle(layout.kind, doc.WorkName)

	if len(blocks) == 0 {
		rows := documentHeader(title, doc)
		rows = append(rows, tableHeader(layout.columns))
		rows = append(rows, noteRow("No items."))
		if layout.withAmounts {
			rows = append(rows, totalsRows(doc.Totals, opts.Rates)...)
		}
		m.AddPages(page.New().Add(rows...))
	}

	for i, b := range blocks {
		rows := documentHeader(title, doc)
		rows = append(rows, tableHeader(layout.columns))
		if b.BroughtForward {
			rows = append(rows, markerRow(fmt.Sprintf("Brought forward from page %d", b.Index), running[i].BroughtForward, layout.withAmounts))
		}
		for _, item := range b.Items {
			for _, r := range layout.rowsOf(item) {
				rows = append(rows, tableRow(layout.columns, r, layout.cellsOf(r)))
			}
		}
		if b.CarryForward {
			rows = append(rows, markerRow(fmt.Sprintf("Carried forward to page %d", b.Index+2), running[i].CarryForward, layout.withAmounts))
		} else if layout.withAmounts {
			rows = append(rows, totalsRows(doc.Totals, opts.Rates)...)
		}
		if opts.GeneratedOn != "" {
			rows = append(rows, noteRow("Generated on "+opts.GeneratedOn))
		}
		m.AddPages(page.New().Add(rows...))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s PDF: %w", layout.kind, err)
	}
	return out.GetBytes(), nil
}

func documentHeader(title string, doc EstimateDocument) []core.Row {
	meta := props.Text{Size: 8, Align: align.Left, Color: mutedColor}
	metaRight := meta
	metaRight.Align = align.Right
	return []core.Row{
		row.New(10).Add(
			col.New(12).Add(text.New(title, props.Text{Size: 13, Style: fontstyle.Bold, Align: align.Center})),
		),
		row.New(6).Add(
			col.New(6).Add(text.New("Estimate code: "+doc.Code, meta)),
			col.New(6).Add(text.New("Location: "+doc.Location, metaRight)),
		),
		row.New(6).Add(
			col.New(6).Add(text.New("Prepared by: "+doc.PreparedBy, meta)),
			col.New(6).Add(text.New("Fund: "+doc.FundSource, metaRight)),
		),
		row.New(3),
	}
}

func tableHeader(cols []column) core.Row {
	style := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center, Color: &props.Color{Red: 255, Green: 255, Blue: 255}}
	cell := &props.Cell{BackgroundColor: headerBg}
	out := make([]core.Col, len(cols))
	for i, c := range cols {
		out[i] = col.New(c.size).Add(text.New(c.title, style)).WithStyle(cell)
	}
	return row.New(8).Add(out...)
}

func tableRow(cols []column, r ExportRow, values []string) core.Row {
	size := 7.0
	style := fontstyle.Normal
	var cell *props.Cell
	switch r.Level {
	case LevelItem:
		style = fontstyle.Bold
	case LevelSubItem:
		cell = &props.Cell{BackgroundColor: subItemBg}
	case LevelMeasurement:
		size = 6.5
	}

	out := make([]core.Col, len(cols))
	for i, c := range cols {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		cc := col.New(c.size).Add(text.New(v, props.Text{Size: size, Style: style, Align: c.align}))
		if cell != nil {
			cc = cc.WithStyle(cell)
		}
		out[i] = cc
	}
	return row.New(7).Add(out...)
}

func markerRow(label string, amount float64, withAmount bool) core.Row {
	cell := &props.Cell{BackgroundColor: markerBg}
	style := props.Text{Size: 8, Style: fontstyle.BoldItalic, Align: align.Right}
	if !withAmount {
		return row.New(7).Add(col.New(12).Add(text.New(label, style)).WithStyle(cell))
	}
	return row.New(7).Add(
		col.New(9).Add(text.New(label, style)).WithStyle(cell),
		col.New(3).Add(text.New(FormatAmount(amount), style)).WithStyle(cell),
	)
}

func totalsRows(t DocumentTotals, rates TaxRates) []core.Row {
	label := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	rows := []core.Row{row.New(4)}
	for _, l := range TotalsLines(t, rates) {
		rows = append(rows, row.New(7).Add(
			col.New(9).Add(text.New(l[0], label)),
			col.New(3).Add(text.New(l[1], label)),
		))
	}
	return rows
}

func noteRow(s string) core.Row {
	return row.New(6).Add(col.New(12).Add(text.New(s, props.Text{
		Size:  7,
		Align: align.Left,
		Color: &props.Color{Red: 140, Green: 140, Blue: 140},
	})))
}

func priceCells(r ExportRow) (qty, rate, amount string) {
	if !r.ShowPrice {
		return "", "", ""
	}
	return FormatQuantity(r.Quantity), FormatAmount(r.Rate), FormatAmount(r.Amount)
}

func estimateCells(r ExportRow) []string {
	qty, rate, amount := priceCells(r)
	unit := r.Unit
	if r.Level == LevelMeasurement {
		qty = FormatQuantity(r.Quantity)
	}
	if r.Level == LevelItem && !r.ShowPrice {
		unit = ""
	}
	return []string{
		r.Serial,
		r.Description,
		formatDimension(r.Nos),
		formatDimension(r.Length),
		formatDimension(r.Breadth),
		formatDimension(r.Depth),
		qty,
		unit,
		rate,
		amount,
	}
}

func abstractCells(r ExportRow) []string {
	qty, rate, amount := priceCells(r)
	return []string{r.Serial, r.ScheduleCode, r.Description, qty, r.Unit, rate, amount}
}

func measurementCells(r ExportRow) []string {
	qty := FormatQuantity(r.Quantity)
	unit := r.Unit
	if r.Level == LevelItem && !r.ShowPrice {
		qty, unit = "", ""
	}
	return []string{
		r.Serial,
		r.Description,
		formatDimension(r.Nos),
		formatDimension(r.Length),
		formatDimension(r.Breadth),
		formatDimension(r.Depth),
		qty,
		unit,
	}
}
