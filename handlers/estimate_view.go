package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"panchayatworks/config"
	"panchayatworks/services"
)

// EstimateItemView is one line of the summary table with display-formatted values.
type EstimateItemView struct {
	Serial      string
	Description string
	Quantity    string
	Unit        string
	Rate        string
	Amount      string
	IsSubItem   bool
}

// EstimateViewData holds everything the estimate summary page renders.
type EstimateViewData struct {
	ID         string
	WorkName   string
	Code       string
	Location   string
	PreparedBy string
	Items      []EstimateItemView
	Totals     [][2]string
}

func buildEstimateView(doc services.EstimateDocument, rates services.TaxRates) EstimateViewData {
	data := EstimateViewData{
		ID:         doc.ID,
		WorkName:   doc.WorkName,
		Code:       doc.Code,
		Location:   doc.Location,
		PreparedBy: doc.PreparedBy,
		Totals:     services.TotalsLines(doc.Totals, rates),
	}
	for _, it := range doc.Items {
		for _, row := range services.ItemRows(it) {
			if row.Level == services.LevelMeasurement {
				continue
			}
			v := EstimateItemView{
				Serial:      row.Serial,
				Description: row.Description,
				Quantity:    services.FormatQuantity(row.Quantity),
				Unit:        row.Unit,
				Amount:      services.FormatINR(row.Amount),
				IsSubItem:   row.Level == services.LevelSubItem,
			}
			if row.ShowPrice {
				v.Rate = services.FormatINR(row.Rate)
			}
			data.Items = append(data.Items, v)
		}
	}
	return data
}

// EstimateSummary renders the summary table fragment.
func EstimateSummary(data EstimateViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		esc := templ.EscapeString[string]
		if _, err := fmt.Fprintf(w, `<section class="estimate" id="estimate-%s"><h1>%s</h1>`, esc(data.ID), esc(data.WorkName)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<p class="meta">Code: %s | Location: %s | Prepared by: %s</p>`,
			esc(data.Code), esc(data.Location), esc(data.PreparedBy)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<table><thead><tr><th>Sl.</th><th>Description</th><th>Qty</th><th>Unit</th><th>Rate</th><th>Amount</th></tr></thead><tbody>`); err != nil {
			return err
		}
		if len(data.Items) == 0 {
			if _, err := io.WriteString(w, `<tr><td colspan="6">No items.</td></tr>`); err != nil {
				return err
			}
		}
		for _, it := range data.Items {
			class := "item"
			if it.IsSubItem {
				class = "sub-item"
			}
			if _, err := fmt.Fprintf(w, `<tr class="%s"><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				class, esc(it.Serial), esc(it.Description), esc(it.Quantity), esc(it.Unit), esc(it.Rate), esc(it.Amount)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</tbody><tfoot>`); err != nil {
			return err
		}
		for _, line := range data.Totals {
			if _, err := fmt.Fprintf(w, `<tr class="total"><td colspan="5">%s</td><td>%s</td></tr>`, esc(line[0]), esc(line[1])); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tfoot></table></section>`)
		return err
	})
}

// EstimateSummaryPage wraps the summary fragment in a full HTML document.
func EstimateSummaryPage(data EstimateViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title></head><body>`,
			templ.EscapeString(data.WorkName)); err != nil {
			return err
		}
		if err := EstimateSummary(data).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// HandleEstimateView returns a handler that renders the HTML summary of a
// stored estimate. HTMX requests get the fragment only.
func HandleEstimateView(app core.App, cfg *config.Config, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rates := taxRates(cfg)
		doc, err := services.LoadEstimate(app, e.Request.PathValue("id"), rates)
		if err != nil {
			if IsNotFound(err) {
				return e.String(http.StatusNotFound, "Estimate not found")
			}
			LoggerFrom(e.Request, logger).Error("estimate_view failed", zap.Error(err))
			return e.String(http.StatusInternalServerError, "Failed to load estimate")
		}

		data := buildEstimateView(doc, rates)
		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = EstimateSummary(data)
		} else {
			component = EstimateSummaryPage(data)
		}
		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		return component.Render(e.Request.Context(), e.Response)
	}
}
