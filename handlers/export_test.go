package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"panchayatworks/config"
	"panchayatworks/services"
	"panchayatworks/testhelpers"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces to hyphens", "CC Road Ward 4", "CC-Road-Ward-4"},
		{"slashes to hyphens", "GP/2026/017", "GP-2026-017"},
		{"backslashes", "path\\to\\file", "path-to-file"},
		{"colons", "file:name", "file-name"},
		{"quotes dropped", `Road "A"`, "Road-A"},
		{"mixed", "A / B \\ C : D", "A---B---C---D"},
		{"no special chars", "simple", "simple"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeFilename(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func computedDoc(t *testing.T) services.EstimateDocument {
	t.Helper()
	doc, err := services.ComputeEstimate(testhelpers.SampleEstimate("Village Road"), services.DefaultTaxRates)
	if err != nil {
		t.Fatalf("ComputeEstimate() error: %v", err)
	}
	return doc
}

func TestRenderExport_Kinds(t *testing.T) {
	doc := computedDoc(t)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		kind        string
		contentType string
		filename    string
		magic       string
	}{
		{ExportEstimatePDF, contentTypePDF, "Estimate_Village-Road.pdf", "%PDF"},
		{ExportAbstractPDF, contentTypePDF, "Abstract_Village-Road.pdf", "%PDF"},
		{ExportMBPDF, contentTypePDF, "MB_Village-Road.pdf", "%PDF"},
		{ExportExcel, contentTypeXLSX, "Estimate_Village-Road_2026.xlsx", "PK"},
		{ExportBookletPDF, contentTypePDF, "MB_Booklet_Village-Road.pdf", "%PDF"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			f, err := renderExport(doc, tt.kind, config.Default(), now)
			if err != nil {
				t.Fatalf("renderExport(%q) error: %v", tt.kind, err)
			}
			if f.contentType != tt.contentType {
				t.Errorf("content type = %q, want %q", f.contentType, tt.contentType)
			}
			if f.filename != tt.filename {
				t.Errorf("filename = %q, want %q", f.filename, tt.filename)
			}
			if !bytes.HasPrefix(f.body, []byte(tt.magic)) {
				t.Errorf("body does not start with %q", tt.magic)
			}
		})
	}
}

func TestRenderExport_BookletIsImposed(t *testing.T) {
	doc := computedDoc(t)
	f, err := renderExport(doc, ExportBookletPDF, config.Default(), time.Now())
	if err != nil {
		t.Fatalf("renderExport error: %v", err)
	}
	sizes, err := services.ReadPageSizes(f.body)
	if err != nil {
		t.Fatalf("ReadPageSizes error: %v", err)
	}
	// One MB page pads to four logical pages, which print as two sheet sides.
	if len(sizes) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(sizes))
	}
	for i, s := range sizes {
		if s.Width <= s.Height {
			t.Errorf("sheet %d: %vx%v is not landscape", i, s.Width, s.Height)
		}
	}
}

func TestRenderExport_UnknownKind(t *testing.T) {
	_, err := renderExport(computedDoc(t), "docx", config.Default(), time.Now())
	if !services.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRenderExport_FallsBackToID(t *testing.T) {
	doc := computedDoc(t)
	doc.WorkName = ""
	doc.ID = "abc123"
	f, err := renderExport(doc, ExportMBPDF, config.Default(), time.Now())
	if err != nil {
		t.Fatalf("renderExport error: %v", err)
	}
	if f.filename != "MB_abc123.pdf" {
		t.Errorf("filename = %q, want MB_abc123.pdf", f.filename)
	}
}

func TestHandleEstimateExport_Excel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	doc := testhelpers.CreateTestEstimate(t, app, "Export Road")

	req := httptest.NewRequest(http.MethodGet, "/api/estimates/"+doc.ID+"/export/excel", nil)
	req.SetPathValue("id", doc.ID)
	req.SetPathValue("kind", ExportExcel)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	handler := HandleEstimateExport(app, config.Default(), zap.NewNop())
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("Content-Type = %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "Estimate_Export-Road_") || !strings.HasSuffix(cd, `.xlsx"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected non-empty body")
	}
}

func TestHandleEstimateExport_UnknownKind(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	doc := testhelpers.CreateTestEstimate(t, app, "Export Road")

	req := httptest.NewRequest(http.MethodGet, "/api/estimates/"+doc.ID+"/export/docx", nil)
	req.SetPathValue("id", doc.ID)
	req.SetPathValue("kind", "docx")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleEstimateExport(app, config.Default(), zap.NewNop())(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
	var body errorBody
	decodeJSON(t, rec, &body)
	if body.Field != "kind" {
		t.Errorf("field = %q, want kind", body.Field)
	}
}

func TestHandleEstimateExport_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/estimates/nonexistent/export/mb-pdf", nil)
	req.SetPathValue("id", "nonexistent")
	req.SetPathValue("kind", ExportMBPDF)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleEstimateExport(app, config.Default(), zap.NewNop())(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleEstimateExport_MissingID(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/estimates//export/mb-pdf", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleEstimateExport(app, config.Default(), zap.NewNop())(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
