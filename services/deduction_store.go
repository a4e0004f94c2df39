package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// Work statuses. WorkStatusPaid is terminal and only reached through a
// verified deduction.
const (
	WorkStatusOngoing   = "ongoing"
	WorkStatusCompleted = "completed"
	WorkStatusPaid      = "paid"
)

// SaveDeduction stores a freshly computed, unverified deduction.
func SaveDeduction(app core.App, d BillDeduction, billRef string) (BillDeduction, error) {
	if d.Verified {
		return BillDeduction{}, invalid("verified", "a new deduction cannot be created verified")
	}
	if _, err := app.FindRecordById("works", d.WorkID); err != nil {
		return BillDeduction{}, fmt.Errorf("%w: %s", ErrWorkNotFound, d.WorkID)
	}
	col, err := app.FindCollectionByNameOrId("bill_deductions")
	if err != nil {
		return BillDeduction{}, fmt.Errorf("collection not found: %w", err)
	}

	rec := core.NewRecord(col)
	rec.Set("work", d.WorkID)
	rec.Set("bill_ref", billRef)
	setDeductionAmounts(rec, d)
	rec.Set("verified", false)
	if err := app.Save(rec); err != nil {
		return BillDeduction{}, fmt.Errorf("save deduction: %w", err)
	}
	d.ID = rec.Id
	return d, nil
}

func setDeductionAmounts(rec *core.Record, d BillDeduction) {
	r := d.Result
	rec.Set("gross", r.Gross)
	rec.Set("income_tax_percent", r.IncomeTax.Percent)
	rec.Set("income_tax_amount", r.IncomeTax.Amount)
	rec.Set("gst_tds_percent", r.GSTTDS.Percent)
	rec.Set("gst_tds_amount", r.GSTTDS.Amount)
	rec.Set("cgst_amount", r.CGST)
	rec.Set("sgst_amount", r.SGST)
	rec.Set("labour_cess_percent", r.LabourCess.Percent)
	rec.Set("labour_cess_amount", r.LabourCess.Amount)
	rec.Set("security_deposit_percent", r.SecurityDeposit.Percent)
	rec.Set("security_deposit_amount", r.SecurityDeposit.Amount)
	rec.Set("total_deduction", r.TotalDeduction)
	rec.Set("net_payable", r.NetPayable)
}

// LoadDeduction reads a deduction back, recomputing the amounts from gross
// and the stored percentages.
func LoadDeduction(app core.App, id string) (BillDeduction, *core.Record, error) {
	rec, err := app.FindRecordById("bill_deductions", id)
	if err != nil {
		return BillDeduction{}, nil, fmt.Errorf("%w: %s", ErrDeductionNotFound, id)
	}
	d, err := deductionFromRecord(rec)
	return d, rec, err
}

func deductionFromRecord(rec *core.Record) (BillDeduction, error) {
	rates := DeductionRates{
		IncomeTaxPercent:       rec.GetFloat("income_tax_percent"),
		GSTTDSPercent:          rec.GetFloat("gst_tds_percent"),
		LabourCessPercent:      rec.GetFloat("labour_cess_percent"),
		SecurityDepositPercent: rec.GetFloat("security_deposit_percent"),
	}
	d, err := NewBillDeduction(rec.GetString("work"), rec.GetFloat("gross"), rates)
	if err != nil {
		return BillDeduction{}, fmt.Errorf("stored deduction %s: %w", rec.Id, err)
	}
	d.ID = rec.Id
	d.Verified = rec.GetBool("verified")
	if d.Verified {
		d.VerifiedAt = rec.GetDateTime("verified_at").Time()
		d.Voucher.PaymentDate = rec.GetDateTime("payment_date").Time()
		if err := rec.UnmarshalJSONField("voucher_numbers", &d.Voucher.VoucherNumbers); err != nil {
			return BillDeduction{}, fmt.Errorf("stored deduction %s voucher numbers: %w", rec.Id, err)
		}
	}
	return d, nil
}

// VerifyOptions controls the verification cascade.
type VerifyOptions struct {
	// RecordPayment also creates a payments record and marks the work paid.
	RecordPayment bool
	Now           time.Time
}

// VerifyResult is what VerifyDeduction changed.
type VerifyResult struct {
	Deduction BillDeduction `json:"deduction"`
	PaymentID string        `json:"payment_id,omitempty"`
	Reference string        `json:"payment_reference,omitempty"`
}

// VerifyDeduction marks a deduction verified with the reviewer's voucher data.
// The flag flips through a conditional UPDATE ... WHERE verified = FALSE, so
// of two concurrent reviewers exactly one wins; the loser gets a
// ValidationError wrapping ErrAlreadyVerified. With RecordPayment the payment
// record and the work's paid status are written in the same transaction.
func VerifyDeduction(app core.App, id string, v Voucher, opts VerifyOptions) (VerifyResult, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var res VerifyResult
	err := app.RunInTransaction(func(txApp core.App) error {
		d, rec, err := LoadDeduction(txApp, id)
		if err != nil {
			return err
		}
		if err := d.Verify(v, now); err != nil {
			return err
		}

		out, err := txApp.DB().NewQuery(
			"UPDATE {{bill_deductions}} SET [[verified]] = TRUE WHERE [[id]] = {:id} AND [[verified]] = FALSE",
		).Bind(dbx.Params{"id": id}).Execute()
		if err != nil {
			return fmt.Errorf("mark verified: %w", err)
		}
		if err := checkClaimed(out); err != nil {
			return err
		}

		rec.Set("verified", true)
		rec.Set("verified_at", now)
		rec.Set("payment_date", v.PaymentDate)
		rec.Set("voucher_numbers", v.VoucherNumbers)
		if err := txApp.Save(rec); err != nil {
			return fmt.Errorf("save verification: %w", err)
		}
		res.Deduction = d

		if !opts.RecordPayment {
			return nil
		}
		paymentID, ref, err := recordPayment(txApp, d)
		if err != nil {
			return err
		}
		res.PaymentID, res.Reference = paymentID, ref
		return nil
	})
	if err != nil {
		return VerifyResult{}, err
	}
	return res, nil
}

// checkClaimed inspects the result of the conditional verify UPDATE: one row
// means this caller flipped the flag, zero means someone already had.
func checkClaimed(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if n != 1 {
		return &ValidationError{Field: "verified", Reason: ErrAlreadyVerified.Error(), Err: ErrAlreadyVerified}
	}
	return nil
}

func recordPayment(app core.App, d BillDeduction) (string, string, error) {
	work, err := app.FindRecordById("works", d.WorkID)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrWorkNotFound, d.WorkID)
	}
	col, err := app.FindCollectionByNameOrId("payments")
	if err != nil {
		return "", "", fmt.Errorf("collection not found: %w", err)
	}

	ref := "PAY-" + uuid.NewString()
	p := core.NewRecord(col)
	p.Set("deduction", d.ID)
	p.Set("work", d.WorkID)
	p.Set("reference", ref)
	p.Set("amount", d.Result.NetPayable)
	p.Set("paid_on", d.Voucher.PaymentDate)
	if err := app.Save(p); err != nil {
		return "", "", fmt.Errorf("save payment: %w", err)
	}

	work.Set("status", WorkStatusPaid)
	if err := app.Save(work); err != nil {
		return "", "", fmt.Errorf("mark work paid: %w", err)
	}
	return p.Id, ref, nil
}
