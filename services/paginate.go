package services

// Block is one logical page worth of items for fixed-layout rendering.
type Block[T any] struct {
	Index int // 0-based page index
	Items []T
	// FirstSerial is the 1-based serial of Items[0]; numbering runs on
	// across pages and is never reset.
	FirstSerial    int
	BroughtForward bool // true on every page but the first
	CarryForward   bool // true on every page but the last
}

// Paginate splits items into consecutive blocks of at most capacity items,
// preserving order. The last block may be short; an empty input yields no
// blocks at all. Capacity is per document type and supplied by the caller.
func Paginate[T any](items []T, capacity int) ([]Block[T], error) {
	if capacity < 1 {
		return nil, invalid("capacity", "must be at least 1, got %d", capacity)
	}
	if len(items) == 0 {
		return nil, nil
	}

	n := (len(items) + capacity - 1) / capacity
	blocks := make([]Block[T], 0, n)
	for start := 0; start < len(items); start += capacity {
		end := min(start+capacity, len(items))
		idx := len(blocks)
		blocks = append(blocks, Block[T]{
			Index:          idx,
			Items:          items[start:end:end],
			FirstSerial:    start + 1,
			BroughtForward: idx > 0,
			CarryForward:   end < len(items),
		})
	}
	return blocks, nil
}

// PageTotals are the running amounts drawn beside the continuity markers.
type PageTotals struct {
	BroughtForward float64 // sum of all earlier pages
	PageTotal      float64 // sum of this page
	CarryForward   float64 // BroughtForward + PageTotal
}

// RunningTotals accumulates amountOf over the blocks in order.
func RunningTotals[T any](blocks []Block[T], amountOf func(T) float64) []PageTotals {
	out := make([]PageTotals, len(blocks))
	var running float64
	for i, b := range blocks {
		amounts := make([]float64, len(b.Items))
		for j, it := range b.Items {
			amounts[j] = amountOf(it)
		}
		page := sumPlaces(amounts, CurrencyPlaces)
		out[i] = PageTotals{
			BroughtForward: running,
			PageTotal:      page,
			CarryForward:   sumPlaces([]float64{running, page}, CurrencyPlaces),
		}
		running = out[i].CarryForward
	}
	return out
}
