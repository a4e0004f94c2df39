package services_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panchayatworks/services"
	"panchayatworks/testhelpers"
)

func TestSaveEstimate_RoundTrip(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	saved, err := services.SaveEstimate(app, testhelpers.SampleEstimate("Ward 4 road"), services.DefaultTaxRates)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, 3535.0, saved.Totals.ItemwiseTotal)
	assert.Equal(t, 4213.01, saved.Totals.GrandTotal)

	loaded, err := services.LoadEstimate(app, saved.ID, services.DefaultTaxRates)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	rec, err := app.FindRecordById("estimates", saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 4213.01, rec.GetFloat("grand_total"))
}

func TestSaveEstimate_ReplacesTree(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := testhelpers.CreateTestEstimate(t, app, "Replace")

	saved.Items = saved.Items[:1]
	saved.Items[0].Measurements = append(saved.Items[0].Measurements, services.Measurement{Nos: 1, Length: 5})
	saved.Contingency = 100

	updated, err := services.SaveEstimate(app, saved, services.DefaultTaxRates)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)

	loaded, err := services.LoadEstimate(app, saved.ID, services.DefaultTaxRates)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Len(t, loaded.Items[0].Measurements, 2)
	assert.Equal(t, 15.0, loaded.Items[0].Quantity)
	assert.Equal(t, 100.0, loaded.Totals.Contingency)

	subs, err := app.FindAllRecords("estimate_sub_items")
	require.NoError(t, err)
	assert.Empty(t, subs, "sub-items of removed items are gone")

	ms, err := app.FindAllRecords("measurements")
	require.NoError(t, err)
	assert.Len(t, ms, 2)
}

func TestSaveEstimate_InvalidLeavesStoreUntouched(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := testhelpers.CreateTestEstimate(t, app, "Untouched")

	bad := saved
	bad.Items = append([]services.LineItem(nil), saved.Items...)
	bad.Items[0].Rate = -10
	_, err := services.SaveEstimate(app, bad, services.DefaultTaxRates)
	require.True(t, services.IsValidationError(err))

	loaded, err := services.LoadEstimate(app, saved.ID, services.DefaultTaxRates)
	require.NoError(t, err)
	assert.Equal(t, 100.0, loaded.Items[0].Rate)
	assert.Len(t, loaded.Items, 3)
}

func TestSaveEstimate_MissingDescription(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	doc := testhelpers.SampleEstimate("No desc")
	doc.Items[2].Description = " "

	_, err := services.SaveEstimate(app, doc, services.DefaultTaxRates)
	var ve *services.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "items[2].description", ve.Field)
}

func TestSaveEstimate_UnknownID(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	doc := testhelpers.SampleEstimate("Ghost")
	doc.ID = "doesnotexist123"

	_, err := services.SaveEstimate(app, doc, services.DefaultTaxRates)
	assert.True(t, errors.Is(err, services.ErrEstimateNotFound))
}

func TestLoadEstimate_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	_, err := services.LoadEstimate(app, "nonexistent", services.DefaultTaxRates)
	assert.True(t, errors.Is(err, services.ErrEstimateNotFound))
}

func TestLoadEstimate_UsesGivenRates(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := testhelpers.CreateTestEstimate(t, app, "Rates")

	loaded, err := services.LoadEstimate(app, saved.ID, services.TaxRates{GSTPercent: 12, LWCPercent: 1})
	require.NoError(t, err)
	assert.Equal(t, 424.2, loaded.Totals.GSTAmount)
}
