package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var standardRates = DeductionRates{
	IncomeTaxPercent:       1,
	GSTTDSPercent:          2,
	LabourCessPercent:      1,
	SecurityDepositPercent: 10,
}

func TestApplyDeduction_StandardBill(t *testing.T) {
	got, err := ApplyDeduction(100000, standardRates)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, got.IncomeTax.Amount)
	assert.Equal(t, 2000.0, got.GSTTDS.Amount)
	assert.Equal(t, 1000.0, got.CGST)
	assert.Equal(t, 1000.0, got.SGST)
	assert.Equal(t, 1000.0, got.LabourCess.Amount)
	assert.Equal(t, 10000.0, got.SecurityDeposit.Amount)
	assert.Equal(t, 14000.0, got.TotalDeduction)
	assert.Equal(t, 86000.0, got.NetPayable)
	assert.Equal(t, "Rupees Eighty Six Thousand Only", got.NetPayableWords)
	assert.Equal(t, 10.0, got.SecurityDeposit.Percent)
}

func TestApplyDeduction_Idempotent(t *testing.T) {
	first, err := ApplyDeduction(123456.78, standardRates)
	require.NoError(t, err)
	second, err := ApplyDeduction(123456.78, standardRates)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestApplyDeduction_RoundsEachAmount(t *testing.T) {
	// 1% of 12345 = 123.45 -> 123; 2% = 246.9 -> 247; 10% = 1234.5 -> 1235
	got, err := ApplyDeduction(12345, standardRates)
	require.NoError(t, err)

	assert.Equal(t, 123.0, got.IncomeTax.Amount)
	assert.Equal(t, 247.0, got.GSTTDS.Amount)
	assert.Equal(t, 123.0, got.LabourCess.Amount)
	assert.Equal(t, 1235.0, got.SecurityDeposit.Amount)
	assert.Equal(t, 1728.0, got.TotalDeduction)
	assert.Equal(t, 10617.0, got.NetPayable)
}

func TestApplyDeduction_OddGSTSplitKeepsHalves(t *testing.T) {
	got, err := ApplyDeduction(12345, standardRates)
	require.NoError(t, err)
	assert.Equal(t, 123.5, got.CGST)
	assert.Equal(t, 123.5, got.SGST)
	assert.Equal(t, got.GSTTDS.Amount, got.CGST+got.SGST)
}

func TestApplyDeduction_ZeroRates(t *testing.T) {
	got, err := ApplyDeduction(5000, DeductionRates{})
	require.NoError(t, err)
	assert.Zero(t, got.TotalDeduction)
	assert.Equal(t, 5000.0, got.NetPayable)
}

func TestApplyDeduction_AnyDepositPercentAccepted(t *testing.T) {
	rates := standardRates
	rates.SecurityDepositPercent = 7.5
	got, err := ApplyDeduction(10000, rates)
	require.NoError(t, err)
	assert.Equal(t, 750.0, got.SecurityDeposit.Amount)
	assert.False(t, IsSecurityDepositChoice(7.5, SecurityDepositChoices))
}

func TestApplyDeduction_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		gross float64
		rates DeductionRates
		field string
	}{
		{"negative gross", -1, standardRates, "gross"},
		{"NaN gross", math.NaN(), standardRates, "gross"},
		{"infinite gross", math.Inf(1), standardRates, "gross"},
		{"negative infinite gross", math.Inf(-1), standardRates, "gross"},
		{"NaN income tax", 1000, DeductionRates{IncomeTaxPercent: math.NaN()}, "income_tax_percent"},
		{"infinite deposit", 1000, DeductionRates{SecurityDepositPercent: math.Inf(1)}, "security_deposit_percent"},
		{"income tax over 100", 1000, DeductionRates{IncomeTaxPercent: 101}, "income_tax_percent"},
		{"negative gst", 1000, DeductionRates{GSTTDSPercent: -2}, "gst_tds_percent"},
		{"negative cess", 1000, DeductionRates{LabourCessPercent: -0.5}, "labour_cess_percent"},
		{"deposit over 100", 1000, DeductionRates{SecurityDepositPercent: 150}, "security_deposit_percent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyDeduction(tt.gross, tt.rates)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestIsSecurityDepositChoice(t *testing.T) {
	for _, p := range []float64{0, 5, 10} {
		assert.True(t, IsSecurityDepositChoice(p, SecurityDepositChoices), "%v", p)
	}
	assert.False(t, IsSecurityDepositChoice(2.5, SecurityDepositChoices))
	assert.False(t, IsSecurityDepositChoice(5, nil))
}

func validVoucher() Voucher {
	return Voucher{
		PaymentDate:    time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		VoucherNumbers: []string{"V-101", "V-102"},
	}
}

func TestBillDeduction_VerifyIsOneWay(t *testing.T) {
	d, err := NewBillDeduction("work1", 100000, standardRates)
	require.NoError(t, err)
	require.False(t, d.Verified)

	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, d.Verify(validVoucher(), now))
	assert.True(t, d.Verified)
	assert.Equal(t, now, d.VerifiedAt)
	assert.Equal(t, []string{"V-101", "V-102"}, d.Voucher.VoucherNumbers)

	snapshot := d
	err = d.Verify(Voucher{PaymentDate: now.AddDate(0, 1, 0), VoucherNumbers: []string{"V-999"}}, now.Add(time.Hour))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, errors.Is(err, ErrAlreadyVerified))
	assert.Equal(t, snapshot, d, "a rejected verification leaves the deduction untouched")
}

func TestBillDeduction_VerifyRequiresVoucher(t *testing.T) {
	tests := []struct {
		name    string
		voucher Voucher
		field   string
	}{
		{"missing date", Voucher{VoucherNumbers: []string{"V-1"}}, "payment_date"},
		{"no numbers", Voucher{PaymentDate: time.Now()}, "voucher_numbers"},
		{"blank numbers", Voucher{PaymentDate: time.Now(), VoucherNumbers: []string{" ", ""}}, "voucher_numbers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewBillDeduction("work1", 1000, standardRates)
			require.NoError(t, err)

			err = d.Verify(tt.voucher, time.Now())
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.False(t, d.Verified)
		})
	}
}

func TestNewBillDeduction_Invalid(t *testing.T) {
	_, err := NewBillDeduction("work1", -10, standardRates)
	assert.True(t, IsValidationError(err))
}

func TestBillDeduction_String(t *testing.T) {
	d, err := NewBillDeduction("w1", 100000, standardRates)
	require.NoError(t, err)
	d.ID = "d1"
	assert.Equal(t, "deduction d1 work=w1 gross=100000.00 net=86000.00 verified=false", d.String())
}

type stubResult struct {
	rows int64
	err  error
}

func (r stubResult) LastInsertId() (int64, error) { return 0, nil }
func (r stubResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckClaimed(t *testing.T) {
	require.NoError(t, checkClaimed(stubResult{rows: 1}))

	err := checkClaimed(stubResult{rows: 0})
	assert.ErrorIs(t, err, ErrAlreadyVerified)
	assert.True(t, IsValidationError(err))

	driverErr := errors.New("driver gone")
	err = checkClaimed(stubResult{err: driverErr})
	assert.ErrorIs(t, err, driverErr)
	assert.NotErrorIs(t, err, ErrAlreadyVerified)
	assert.False(t, IsValidationError(err))
}
