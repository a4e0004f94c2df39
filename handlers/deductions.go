package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"panchayatworks/config"
	"panchayatworks/services"
)

// dateLayout is the wire format of calendar dates.
const dateLayout = "2006-01-02"

type deductionRequest struct {
	Gross                  float64 `json:"gross"`
	IncomeTaxPercent       float64 `json:"income_tax_percent"`
	GSTTDSPercent          float64 `json:"gst_tds_percent"`
	LabourCessPercent      float64 `json:"labour_cess_percent"`
	SecurityDepositPercent float64 `json:"security_deposit_percent"`
	BillRef                string  `json:"bill_ref"`
}

func (r deductionRequest) rates() services.DeductionRates {
	return services.DeductionRates{
		IncomeTaxPercent:       r.IncomeTaxPercent,
		GSTTDSPercent:          r.GSTTDSPercent,
		LabourCessPercent:      r.LabourCessPercent,
		SecurityDepositPercent: r.SecurityDepositPercent,
	}
}

type deductionComputeResponse struct {
	services.DeductionResult
	// SecurityDepositQuickPick is false when the deposit rate is outside the
	// form's quick-pick set. Such rates are still accepted.
	SecurityDepositQuickPick bool `json:"security_deposit_quick_pick"`
}

// HandleDeductionCompute returns a handler that applies the statutory
// deductions to a gross amount without storing anything.
func HandleDeductionCompute(cfg *config.Config, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req deductionRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, err)
		}

		res, err := services.ApplyDeduction(req.Gross, req.rates())
		if err != nil {
			return respondError(e, logger, "deduction_compute", err)
		}
		return e.JSON(http.StatusOK, deductionComputeResponse{
			DeductionResult:          res,
			SecurityDepositQuickPick: services.IsSecurityDepositChoice(req.SecurityDepositPercent, cfg.Deductions.SecurityDepositChoices),
		})
	}
}

// HandleDeductionCreate returns a handler that computes and stores an
// unverified deduction against a work.
func HandleDeductionCreate(app core.App, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req deductionRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, err)
		}

		d, err := services.NewBillDeduction(e.Request.PathValue("workId"), req.Gross, req.rates())
		if err != nil {
			return respondError(e, logger, "deduction_create", err)
		}
		d, err = services.SaveDeduction(app, d, req.BillRef)
		if err != nil {
			return respondError(e, logger, "deduction_create", err)
		}

		LoggerFrom(e.Request, logger).Info("deduction created", zap.Stringer("deduction", d))
		return e.JSON(http.StatusCreated, d)
	}
}

// HandleDeductionSlip returns a handler that downloads the deduction slip PDF.
func HandleDeductionSlip(app core.App, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, rec, err := services.LoadDeduction(app, e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, logger, "deduction_slip", err)
		}

		header := services.SlipHeader{
			BillRef:     rec.GetString("bill_ref"),
			GeneratedOn: time.Now().Format("02 Jan 2006"),
		}
		if work, err := app.FindRecordById("works", d.WorkID); err == nil {
			header.WorkName = work.GetString("name")
			header.WorkCode = work.GetString("code")
		}

		pdfBytes, err := services.GenerateDeductionSlipPDF(d, header)
		if err != nil {
			return respondError(e, logger, "deduction_slip", err)
		}
		name := sanitizeFilename(header.BillRef)
		if name == "" {
			name = d.ID
		}
		return writeFile(e, contentTypePDF, fmt.Sprintf("Deduction_%s.pdf", name), pdfBytes)
	}
}

type verifyRequest struct {
	PaymentDate    string   `json:"payment_date"`
	VoucherNumbers []string `json:"voucher_numbers"`
	RecordPayment  bool     `json:"record_payment"`
}

// HandleDeductionVerify returns a handler that performs the one-way
// verification, optionally recording the payment and marking the work paid.
func HandleDeductionVerify(app core.App, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req verifyRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, err)
		}

		voucher := services.Voucher{VoucherNumbers: req.VoucherNumbers}
		if req.PaymentDate != "" {
			t, err := time.Parse(dateLayout, req.PaymentDate)
			if err != nil {
				return respondError(e, logger, "deduction_verify",
					&services.ValidationError{Field: "payment_date", Reason: "expected YYYY-MM-DD", Err: err})
			}
			voucher.PaymentDate = t
		}

		res, err := services.VerifyDeduction(app, e.Request.PathValue("id"), voucher,
			services.VerifyOptions{RecordPayment: req.RecordPayment})
		if err != nil {
			return respondError(e, logger, "deduction_verify", err)
		}

		LoggerFrom(e.Request, logger).Info("deduction verified",
			zap.String("deduction_id", res.Deduction.ID),
			zap.Bool("payment_recorded", res.PaymentID != ""),
		)
		return e.JSON(http.StatusOK, res)
	}
}
