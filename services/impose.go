package services

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/phpdave11/gofpdf"
	"github.com/phpdave11/gofpdf/contrib/gofpdi"
)

// PageSize is a page's media box in points.
type PageSize struct {
	Width  float64
	Height float64
}

// ReadPageSizes returns the size of every page of a PDF, in order.
func ReadPageSizes(src []byte) ([]PageSize, error) {
	conf := model.NewDefaultConfiguration()
	dims, err := api.PageDims(bytes.NewReader(src), conf)
	if err != nil {
		return nil, fmt.Errorf("read page dimensions: %w", err)
	}
	return pageSizesOf(dims), nil
}

func pageSizesOf(dims []types.Dim) []PageSize {
	out := make([]PageSize, len(dims))
	for i, d := range dims {
		out[i] = PageSize{Width: d.Width, Height: d.Height}
	}
	return out
}

// slotRect fits a page of size p into a slot of w x h at (x, y), keeping the
// aspect ratio and centring it.
func slotRect(p PageSize, x, y, w, h float64) (float64, float64, float64, float64) {
	if p.Width <= 0 || p.Height <= 0 {
		return x, y, 0, 0
	}
	scale := min(w/p.Width, h/p.Height)
	dw, dh := p.Width*scale, p.Height*scale
	return x + (w-dw)/2, y + (h-dh)/2, dw, dh
}

// sheetWriter receives the imposed layout one sheet side at a time.
type sheetWriter interface {
	addSheet()
	placePage(page int, x, y, w, h float64)
}

// layBooklet walks the plan, adding every sheet side and placing each real
// page in its left or right half. Padding slots get no placement.
func layBooklet(plan BookletPlan, sizes []PageSize, w sheetWriter) {
	// blank padding pages take the size of the last real page
	half := sizes[len(sizes)-1]
	for _, s := range plan.Sheets {
		w.addSheet()
		for _, slot := range [2]struct {
			page int
			x    float64
		}{{s.Left, 0}, {s.Right, half.Width}} {
			if plan.IsBlank(slot.page) {
				continue
			}
			px, py, pw, ph := slotRect(sizes[slot.page], slot.x, 0, half.Width, half.Height)
			w.placePage(slot.page, px, py, pw, ph)
		}
	}
}

// fpdfSheetWriter draws sheets with gofpdf, importing each source page once.
type fpdfSheetWriter struct {
	pdf       *gofpdf.Fpdf
	sheet     gofpdf.SizeType
	imp       *gofpdi.Importer
	src       io.ReadSeeker
	templates map[int]int
}

func newFpdfSheetWriter(src []byte, half PageSize) *fpdfSheetWriter {
	sheet := gofpdf.SizeType{Wd: 2 * half.Width, Ht: half.Height}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           sheet,
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	return &fpdfSheetWriter{
		pdf:       pdf,
		sheet:     sheet,
		imp:       gofpdi.NewImporter(),
		src:       bytes.NewReader(src),
		templates: make(map[int]int),
	}
}

func (f *fpdfSheetWriter) addSheet() { f.pdf.AddPageFormat("P", f.sheet) }

func (f *fpdfSheetWriter) placePage(page int, x, y, w, h float64) {
	tpl, ok := f.templates[page]
	if !ok {
		tpl = f.imp.ImportPageFromStream(f.pdf, &f.src, page+1, "/MediaBox")
		f.templates[page] = tpl
	}
	f.imp.UseImportedTemplate(f.pdf, tpl, x, y, w, h)
}

// ImposeBooklet re-imposes a PDF for saddle-stitch printing. Pages are opaque:
// each is imported whole and placed on a landscape sheet twice the width of
// the last source page, two per sheet, in PlanBooklet order. Padding slots
// stay blank. A document without pages yields no output and no error.
func ImposeBooklet(src []byte) ([]byte, BookletPlan, error) {
	sizes, err := ReadPageSizes(src)
	if err != nil {
		return nil, BookletPlan{}, err
	}
	plan, err := PlanBooklet(len(sizes))
	if err != nil {
		return nil, BookletPlan{}, err
	}
	if len(plan.Sheets) == 0 {
		return nil, plan, nil
	}

	w := newFpdfSheetWriter(src, sizes[len(sizes)-1])
	layBooklet(plan, sizes, w)

	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, plan, fmt.Errorf("write booklet: %w", err)
	}
	return buf.Bytes(), plan, nil
}
