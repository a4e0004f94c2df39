package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// SlipHeader is the work context printed on a bill deduction slip.
type SlipHeader struct {
	WorkName    string
	WorkCode    string
	BillRef     string
	GeneratedOn string
}

// GenerateDeductionSlipPDF renders a bill deduction slip: gross amount, every
// statutory deduction with its rate, the CGST/SGST halves, total deduction and
// net payable in figures and words.
func GenerateDeductionSlipPDF(d BillDeduction, h SlipHeader) ([]byte, error) {
	m := newDocument(orientation.Vertical)

	addSlipHeader(m, h)
	addSlipTable(m, d.Result)
	addSlipVerification(m, d)
	addSlipSignatures(m)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate deduction slip PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addSlipHeader(m core.Maroto, h SlipHeader) {
	m.AddRows(
		row.New(10).Add(
			col.New(12).Add(text.New("BILL DEDUCTION SLIP", props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Align: align.Center,
			})),
		),
	)

	meta := props.Text{Size: 8, Align: align.Left, Color: mutedColor}
	metaRight := meta
	metaRight.Align = align.Right
	m.AddRows(
		row.New(6).Add(
			col.New(8).Add(text.New("Name of work: "+h.WorkName, meta)),
			col.New(4).Add(text.New("Work code: "+h.WorkCode, metaRight)),
		),
		row.New(6).Add(
			col.New(8).Add(text.New("Bill reference: "+h.BillRef, meta)),
			col.New(4).Add(text.New("Date: "+h.GeneratedOn, metaRight)),
		),
		row.New(4),
	)
}

func addSlipTable(m core.Maroto, r DeductionResult) {
	head := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Color: &props.Color{Red: 255, Green: 255, Blue: 255}}
	headCell := &props.Cell{BackgroundColor: headerBg}
	m.AddRows(row.New(8).Add(
		col.New(6).Add(text.New("Particulars", head)).WithStyle(headCell),
		col.New(2).Add(text.New("Rate", head)).WithStyle(headCell),
		col.New(4).Add(text.New("Amount (Rs.)", head)).WithStyle(headCell),
	))

	label := props.Text{Size: 8, Align: align.Left}
	right := props.Text{Size: 8, Align: align.Right}
	sub := props.Text{Size: 7, Align: align.Left, Color: mutedColor}
	subRight := props.Text{Size: 7, Align: align.Right, Color: mutedColor}
	bold := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left}
	boldRight := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	line := func(name, rate string, amount float64, l, r props.Text) core.Row {
		return row.New(7).Add(
			col.New(6).Add(text.New(name, l)),
			col.New(2).Add(text.New(rate, r)),
			col.New(4).Add(text.New(FormatAmount(amount), r)),
		)
	}

	m.AddRows(
		line("Gross bill amount", "", r.Gross, bold, boldRight),
		line("Income tax", FormatPercent(r.IncomeTax.Percent), r.IncomeTax.Amount, label, right),
		line("GST-TDS", FormatPercent(r.GSTTDS.Percent), r.GSTTDS.Amount, label, right),
		line("    of which CGST", "", r.CGST, sub, subRight),
		line("    of which SGST", "", r.SGST, sub, subRight),
		line("Labour welfare cess", FormatPercent(r.LabourCess.Percent), r.LabourCess.Amount, label, right),
		line("Security deposit", FormatPercent(r.SecurityDeposit.Percent), r.SecurityDeposit.Amount, label, right),
		line("Total deduction", "", r.TotalDeduction, bold, boldRight),
		line("Net payable", "", r.NetPayable, bold, boldRight),
		row.New(8).Add(col.New(12).Add(text.New(r.NetPayableWords, props.Text{
			Size:  8,
			Style: fontstyle.Italic,
			Align: align.Left,
		}))),
	)
}

func addSlipVerification(m core.Maroto, d BillDeduction) {
	status := "Not verified"
	if d.Verified {
		status = fmt.Sprintf("Verified on %s, payment date %s, voucher no. %s",
			d.VerifiedAt.Format("02 Jan 2006"),
			d.Voucher.PaymentDate.Format("02 Jan 2006"),
			joinNonEmpty(d.Voucher.VoucherNumbers, ", "))
	}
	m.AddRows(
		row.New(4),
		row.New(7).Add(col.New(12).Add(text.New(status, props.Text{Size: 8, Align: align.Left, Color: mutedColor}))),
	)
}

func addSlipSignatures(m core.Maroto) {
	sig := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center}
	m.AddRows(
		row.New(20),
		row.New(6).Add(
			col.New(4).Add(text.New("Prepared by", sig)),
			col.New(4).Add(text.New("Checked by", sig)),
			col.New(4).Add(text.New("Executive Officer", sig)),
		),
	)
}
