package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"panchayatworks/config"
	"panchayatworks/services"
)

// taxRates converts the configured levies into the totals-chain rates.
func taxRates(cfg *config.Config) services.TaxRates {
	return services.TaxRates{GSTPercent: cfg.Taxes.GSTPercent, LWCPercent: cfg.Taxes.LWCPercent}
}

// HandleEstimateCompute returns a handler that recomputes a posted estimate
// without storing it.
func HandleEstimateCompute(cfg *config.Config, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var doc services.EstimateDocument
		if err := e.BindBody(&doc); err != nil {
			return badRequest(e, err)
		}

		computed, err := services.ComputeEstimate(doc, taxRates(cfg))
		if err != nil {
			return respondError(e, logger, "estimate_compute", err)
		}
		return e.JSON(http.StatusOK, computed)
	}
}

// HandleEstimateSave returns a handler that recomputes a posted estimate and
// replaces its stored item tree. A body without id creates a new estimate.
func HandleEstimateSave(app core.App, cfg *config.Config, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var doc services.EstimateDocument
		if err := e.BindBody(&doc); err != nil {
			return badRequest(e, err)
		}

		status := http.StatusOK
		if doc.ID == "" {
			status = http.StatusCreated
		}
		saved, err := services.SaveEstimate(app, doc, taxRates(cfg))
		if err != nil {
			return respondError(e, logger, "estimate_save", err)
		}

		LoggerFrom(e.Request, logger).Info("estimate saved",
			zap.String("estimate_id", saved.ID),
			zap.Int("items", len(saved.Items)),
			zap.Float64("grand_total", saved.Totals.GrandTotal),
		)
		return e.JSON(status, saved)
	}
}

// HandleEstimateGet returns a handler that loads a stored estimate with
// freshly computed totals.
func HandleEstimateGet(app core.App, cfg *config.Config, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, err := services.LoadEstimate(app, e.Request.PathValue("id"), taxRates(cfg))
		if err != nil {
			return respondError(e, logger, "estimate_get", err)
		}
		return e.JSON(http.StatusOK, doc)
	}
}
