package services

import (
	"fmt"
	"strings"
	"time"
)

// DeductionRates are the four statutory withholding percentages of a bill.
type DeductionRates struct {
	IncomeTaxPercent       float64 `json:"income_tax_percent"`
	GSTTDSPercent          float64 `json:"gst_tds_percent"`
	LabourCessPercent      float64 `json:"labour_cess_percent"`
	SecurityDepositPercent float64 `json:"security_deposit_percent"`
}

// DeductionRule is one (percentage, amount) pair.
type DeductionRule struct {
	Percent float64 `json:"percent"`
	Amount  float64 `json:"amount"`
}

// DeductionResult is the itemised withholding on a gross bill amount.
type DeductionResult struct {
	Gross           float64       `json:"gross"`
	IncomeTax       DeductionRule `json:"income_tax"`
	GSTTDS          DeductionRule `json:"gst_tds"`
	CGST            float64       `json:"cgst"`
	SGST            float64       `json:"sgst"`
	LabourCess      DeductionRule `json:"labour_cess"`
	SecurityDeposit DeductionRule `json:"security_deposit"`
	TotalDeduction  float64       `json:"total_deduction"`
	NetPayable      float64       `json:"net_payable"`
	NetPayableWords string        `json:"net_payable_words"`
}

// SecurityDepositChoices are the quick-pick percentages offered on the bill
// form. ApplyDeduction itself accepts any percentage in 0-100.
var SecurityDepositChoices = []float64{0, 5, 10}

// IsSecurityDepositChoice reports whether p is one of choices.
func IsSecurityDepositChoice(p float64, choices []float64) bool {
	for _, c := range choices {
		if c == p {
			return true
		}
	}
	return false
}

// ApplyDeduction converts a gross amount and four percentages into rounded
// deduction amounts and the net payable. Each amount is rounded to the whole
// rupee before aggregation. GST-TDS is halved into CGST and SGST without
// re-rounding, so an odd GST-TDS leaves .50 on each half.
func ApplyDeduction(gross float64, rates DeductionRates) (DeductionResult, error) {
	if err := checkNonNegative("gross", gross); err != nil {
		return DeductionResult{}, err
	}
	for _, r := range []struct {
		field string
		p     float64
	}{
		{"income_tax_percent", rates.IncomeTaxPercent},
		{"gst_tds_percent", rates.GSTTDSPercent},
		{"labour_cess_percent", rates.LabourCessPercent},
		{"security_deposit_percent", rates.SecurityDepositPercent},
	} {
		if err := validatePercent(r.field, r.p); err != nil {
			return DeductionResult{}, err
		}
	}

	res := DeductionResult{
		Gross:           RoundCurrency(gross),
		IncomeTax:       ruleOf(gross, rates.IncomeTaxPercent),
		GSTTDS:          ruleOf(gross, rates.GSTTDSPercent),
		LabourCess:      ruleOf(gross, rates.LabourCessPercent),
		SecurityDeposit: ruleOf(gross, rates.SecurityDepositPercent),
	}
	res.CGST = res.GSTTDS.Amount / 2
	res.SGST = res.GSTTDS.Amount / 2
	res.TotalDeduction = sumPlaces([]float64{
		res.IncomeTax.Amount,
		res.GSTTDS.Amount,
		res.LabourCess.Amount,
		res.SecurityDeposit.Amount,
	}, CurrencyPlaces)
	res.NetPayable = sumPlaces([]float64{res.Gross, -res.TotalDeduction}, CurrencyPlaces)
	res.NetPayableWords = AmountToWords(res.NetPayable)
	return res, nil
}

func ruleOf(gross, percent float64) DeductionRule {
	return DeductionRule{Percent: percent, Amount: percentOf(gross, percent, 0)}
}

// Voucher is the payment metadata a reviewer supplies when verifying.
type Voucher struct {
	PaymentDate    time.Time `json:"payment_date"`
	VoucherNumbers []string  `json:"voucher_numbers"`
}

func (v Voucher) validate() error {
	if v.PaymentDate.IsZero() {
		return invalid("payment_date", "is required")
	}
	n := 0
	for _, num := range v.VoucherNumbers {
		if strings.TrimSpace(num) != "" {
			n++
		}
	}
	if n == 0 {
		return invalid("voucher_numbers", "at least one voucher number is required")
	}
	return nil
}

// BillDeduction is a computed deduction attached to a work's bill abstract.
// Once Verified it is immutable.
type BillDeduction struct {
	ID         string          `json:"id,omitempty"`
	WorkID     string          `json:"work_id"`
	Rates      DeductionRates  `json:"rates"`
	Result     DeductionResult `json:"result"`
	Verified   bool            `json:"verified"`
	VerifiedAt time.Time       `json:"verified_at,omitempty"`
	Voucher    Voucher         `json:"voucher"`
}

// NewBillDeduction computes an unverified deduction for a work.
func NewBillDeduction(workID string, gross float64, rates DeductionRates) (BillDeduction, error) {
	res, err := ApplyDeduction(gross, rates)
	if err != nil {
		return BillDeduction{}, err
	}
	return BillDeduction{WorkID: workID, Rates: rates, Result: res}, nil
}

// Verify performs the one-way Unverified -> Verified transition. A second
// call fails with a ValidationError wrapping ErrAlreadyVerified and leaves d
// untouched.
func (d *BillDeduction) Verify(v Voucher, now time.Time) error {
	if d.Verified {
		return &ValidationError{Field: "verified", Reason: ErrAlreadyVerified.Error(), Err: ErrAlreadyVerified}
	}
	if err := v.validate(); err != nil {
		return err
	}
	d.Verified = true
	d.VerifiedAt = now
	d.Voucher = v
	return nil
}

// String is a one-line summary for logs.
func (d BillDeduction) String() string {
	return fmt.Sprintf("deduction %s work=%s gross=%.2f net=%.2f verified=%t",
		d.ID, d.WorkID, d.Result.Gross, d.Result.NetPayable, d.Verified)
}
