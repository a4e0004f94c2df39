package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"panchayatworks/config"
	"panchayatworks/services"
)

// Export kinds accepted by HandleEstimateExport.
const (
	ExportEstimatePDF = "estimate-pdf"
	ExportAbstractPDF = "abstract-pdf"
	ExportMBPDF       = "mb-pdf"
	ExportExcel       = "excel"
	ExportBookletPDF  = "booklet-pdf"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}

// exportFile is a rendered document ready to download.
type exportFile struct {
	contentType string
	filename    string
	body        []byte
}

// renderExport produces the document of the given kind. The booklet is the
// measurement book re-imposed for duplex printing.
func renderExport(doc services.EstimateDocument, kind string, cfg *config.Config, now time.Time) (exportFile, error) {
	rates := taxRates(cfg)
	opts := services.DocumentOptions{Rates: rates, GeneratedOn: now.Format("02 Jan 2006")}
	base := sanitizeFilename(doc.WorkName)
	if base == "" {
		base = doc.ID
	}

	var (
		f   exportFile
		err error
	)
	switch kind {
	case ExportEstimatePDF:
		opts.Capacity = cfg.Documents.EstimateCapacity
		f = exportFile{contentTypePDF, fmt.Sprintf("Estimate_%s.pdf", base), nil}
		f.body, err = services.GenerateEstimatePDF(doc, opts)
	case ExportAbstractPDF:
		opts.Capacity = cfg.Documents.AbstractCapacity
		f = exportFile{contentTypePDF, fmt.Sprintf("Abstract_%s.pdf", base), nil}
		f.body, err = services.GenerateAbstractPDF(doc, opts)
	case ExportMBPDF:
		opts.Capacity = cfg.Documents.MeasurementBookCapacity
		f = exportFile{contentTypePDF, fmt.Sprintf("MB_%s.pdf", base), nil}
		f.body, err = services.GenerateMeasurementBookPDF(doc, opts)
	case ExportExcel:
		f = exportFile{contentTypeXLSX, fmt.Sprintf("Estimate_%s_%d.xlsx", base, now.Year()), nil}
		f.body, err = services.GenerateEstimateExcel(doc, rates)
	case ExportBookletPDF:
		opts.Capacity = cfg.Documents.MeasurementBookCapacity
		f = exportFile{contentTypePDF, fmt.Sprintf("MB_Booklet_%s.pdf", base), nil}
		var mb []byte
		if mb, err = services.GenerateMeasurementBookPDF(doc, opts); err == nil {
			f.body, _, err = services.ImposeBooklet(mb)
		}
	default:
		return exportFile{}, &services.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown export kind %q", kind)}
	}
	if err != nil {
		return exportFile{}, err
	}
	return f, nil
}

// HandleEstimateExport returns a handler that downloads a stored estimate as
// one of the printable documents.
func HandleEstimateExport(app core.App, cfg *config.Config, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return e.String(http.StatusBadRequest, "Missing estimate ID")
		}

		doc, err := services.LoadEstimate(app, id, taxRates(cfg))
		if err != nil {
			return respondError(e, logger, "estimate_export", err)
		}

		kind := e.Request.PathValue("kind")
		f, err := renderExport(doc, kind, cfg, time.Now())
		if err != nil {
			return respondError(e, logger, "estimate_export", err)
		}

		LoggerFrom(e.Request, logger).Info("estimate exported",
			zap.String("estimate_id", id),
			zap.String("kind", kind),
			zap.Int("bytes", len(f.body)),
		)
		return writeFile(e, f.contentType, f.filename, f.body)
	}
}
