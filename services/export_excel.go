package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var excelColumns = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"}

// GenerateEstimateExcel writes the computed estimate as one worksheet:
// header block, item/sub-item/measurement rows with numeric cells and the
// total chain. rates label the GST and LWC lines.
func GenerateEstimateExcel(doc EstimateDocument, rates TaxRates) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Estimate"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	lastCol := excelColumns[len(excelColumns)-1]

	widths := []float64{6, 10, 48, 7, 9, 9, 9, 12, 7, 12, 15}
	for i, c := range excelColumns {
		if err := f.SetColWidth(sheet, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	qtyFmt := "0.000"
	amtFmt := "#,##0.00"

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 10},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	itemStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 10}, Border: thinBorders()})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}
	plainStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()})
	if err != nil {
		return nil, fmt.Errorf("create row style: %w", err)
	}
	qtyStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders(), CustomNumFmt: &qtyFmt})
	if err != nil {
		return nil, fmt.Errorf("create quantity style: %w", err)
	}
	amtStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders(), CustomNumFmt: &amtFmt})
	if err != nil {
		return nil, fmt.Errorf("create amount style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 11},
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		CustomNumFmt: &amtFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheet, "A1", sanitizeExcelCell(DocumentTitle("Detailed Estimate", doc.WorkName)))
	f.SetCellStyle(sheet, "A1", lastCol+"1", titleStyle)
	f.SetCellValue(sheet, "A2", sanitizeExcelCell("Code: "+doc.Code))
	f.SetCellValue(sheet, "C2", sanitizeExcelCell("Location: "+doc.Location))
	f.SetCellValue(sheet, "A3", sanitizeExcelCell("Prepared by: "+doc.PreparedBy))
	f.SetCellValue(sheet, "C3", sanitizeExcelCell("Fund: "+doc.FundSource))

	headers := []string{"Sl.", "Sch. code", "Description", "Nos", "L", "B", "D", "Qty", "Unit", "Rate", "Amount"}
	for i, h := range headers {
		f.SetCellValue(sheet, excelColumns[i]+"5", h)
	}
	f.SetCellStyle(sheet, "A5", lastCol+"5", headerStyle)

	r := 6
	for _, item := range doc.Items {
		for _, er := range ItemRows(item) {
			n := fmt.Sprintf("%d", r)
			desc := er.Description
			switch er.Level {
			case LevelSubItem:
				desc = "  " + desc
			case LevelMeasurement:
				desc = "      " + desc
			}
			f.SetCellValue(sheet, "A"+n, er.Serial)
			f.SetCellValue(sheet, "B"+n, sanitizeExcelCell(er.ScheduleCode))
			f.SetCellValue(sheet, "C"+n, sanitizeExcelCell(desc))

			style := plainStyle
			if er.Level == LevelItem {
				style = itemStyle
			}
			f.SetCellStyle(sheet, "A"+n, lastCol+n, style)

			if er.Level == LevelMeasurement {
				for i, v := range []float64{er.Nos, er.Length, er.Breadth, er.Depth} {
					if v != 0 {
						f.SetCellValue(sheet, excelColumns[3+i]+n, v)
					}
				}
				f.SetCellValue(sheet, "H"+n, er.Quantity)
				f.SetCellStyle(sheet, "D"+n, "H"+n, qtyStyle)
				r++
				continue
			}
			if er.ShowPrice {
				f.SetCellValue(sheet, "H"+n, er.Quantity)
				f.SetCellStyle(sheet, "H"+n, "H"+n, qtyStyle)
				f.SetCellValue(sheet, "I"+n, er.Unit)
				f.SetCellValue(sheet, "J"+n, er.Rate)
				f.SetCellValue(sheet, "K"+n, er.Amount)
				f.SetCellStyle(sheet, "J"+n, "K"+n, amtStyle)
			}
			r++
		}
	}

	r++
	for _, l := range TotalsLines(doc.Totals, rates) {
		n := fmt.Sprintf("%d", r)
		f.SetCellValue(sheet, "J"+n, l[0])
		f.SetCellValue(sheet, "K"+n, l[1])
		f.SetCellStyle(sheet, "J"+n, "K"+n, totalStyle)
		r++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prefixes characters Excel would treat as a formula start.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
