package services

// BookletSheet is one landscape sheet side holding two logical pages.
// Indices are 0-based into the padded logical page sequence.
type BookletSheet struct {
	Index int `json:"index"`
	Left  int `json:"left"`
	Right int `json:"right"`
}

// BookletPlan maps a document onto saddle-stitch sheets.
type BookletPlan struct {
	SourcePages int            `json:"source_pages"`
	PaddedPages int            `json:"padded_pages"`
	Sheets      []BookletSheet `json:"sheets"`
}

// IsBlank reports whether logical page i is padding added by the planner.
func (p BookletPlan) IsBlank(i int) bool { return i >= p.SourcePages }

// PaddedPageCount rounds n up to the next multiple of 4.
func PaddedPageCount(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 3) / 4 * 4
}

// PlanBooklet computes the duplex order for a saddle-stitched booklet of
// pageCount pages. After padding to P pages, sheet s carries
// (left, right) = (P-1-s, s) when s is even and (s, P-1-s) when s is odd.
// Zero pages produce zero sheets.
func PlanBooklet(pageCount int) (BookletPlan, error) {
	if pageCount < 0 {
		return BookletPlan{}, invalid("page_count", "must not be negative")
	}
	padded := PaddedPageCount(pageCount)
	plan := BookletPlan{SourcePages: pageCount, PaddedPages: padded}
	if padded == 0 {
		return plan, nil
	}

	sheets := padded / 2
	plan.Sheets = make([]BookletSheet, sheets)
	for s := range sheets {
		mirror := padded - 1 - s
		if s%2 == 0 {
			plan.Sheets[s] = BookletSheet{Index: s, Left: mirror, Right: s}
		} else {
			plan.Sheets[s] = BookletSheet{Index: s, Left: s, Right: mirror}
		}
	}
	return plan, nil
}
