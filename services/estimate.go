package services

// Unit is the unit of measure of a line item. The set is closed.
type Unit string

const (
	UnitMetre       Unit = "m"   // length
	UnitSquareMetre Unit = "sqm" // area
	UnitCubicMetre  Unit = "cum" // volume
	UnitNumber      Unit = "nos" // count
	UnitLumpSum     Unit = "LS"  // lump sum
	UnitKilogram    Unit = "kg"  // mass
	UnitTonne       Unit = "MT"  // mass
)

var validUnits = map[Unit]bool{
	UnitMetre:       true,
	UnitSquareMetre: true,
	UnitCubicMetre:  true,
	UnitNumber:      true,
	UnitLumpSum:     true,
	UnitKilogram:    true,
	UnitTonne:       true,
}

// Valid reports whether u belongs to the closed unit set.
func (u Unit) Valid() bool { return validUnits[u] }

// Units returns the closed unit set in display order.
func Units() []Unit {
	return []Unit{UnitMetre, UnitSquareMetre, UnitCubicMetre, UnitNumber, UnitLumpSum, UnitKilogram, UnitTonne}
}

// Measurement is one nos x L x B x D entry. Quantity is derived.
type Measurement struct {
	Description string  `json:"description"`
	Nos         float64 `json:"nos"`
	Length      float64 `json:"length"`
	Breadth     float64 `json:"breadth"`
	Depth       float64 `json:"depth"`
	Quantity    float64 `json:"quantity"`
}

// SubItem is a lettered breakdown of a line item. It never nests further.
type SubItem struct {
	Letter       string        `json:"letter"`
	Description  string        `json:"description"`
	Unit         Unit          `json:"unit"`
	Rate         float64       `json:"rate"`
	Quantity     float64       `json:"quantity"`
	Amount       float64       `json:"amount"`
	Measurements []Measurement `json:"measurements,omitempty"`
}

// LineItem is one priced row of a works estimate. It owns either sub-items or
// measurements, never both. With neither, Quantity is the entered value.
type LineItem struct {
	Serial       int           `json:"serial"`
	ScheduleCode string        `json:"schedule_code"`
	Description  string        `json:"description"`
	Unit         Unit          `json:"unit"`
	Rate         float64       `json:"rate"`
	Quantity     float64       `json:"quantity"`
	Amount       float64       `json:"amount"`
	SubItems     []SubItem     `json:"sub_items,omitempty"`
	Measurements []Measurement `json:"measurements,omitempty"`
}

// HasSubItems reports whether the parent's own dimensional fields are suppressed.
func (li LineItem) HasSubItems() bool { return len(li.SubItems) > 0 }

// TaxRates are the statutory levies applied on the itemwise total.
type TaxRates struct {
	GSTPercent float64 `json:"gst_percent"`
	LWCPercent float64 `json:"lwc_percent"`
}

// DefaultTaxRates is 18% GST followed by 1% labour welfare cess.
var DefaultTaxRates = TaxRates{GSTPercent: 18, LWCPercent: 1}

// DocumentTotals is the sequential total chain of an estimate.
type DocumentTotals struct {
	ItemwiseTotal float64 `json:"itemwise_total"`
	GSTAmount     float64 `json:"gst_amount"`
	CostExclLWC   float64 `json:"cost_excl_lwc"`
	LWCAmount     float64 `json:"lwc_amount"`
	CostInclLWC   float64 `json:"cost_incl_lwc"`
	Contingency   float64 `json:"contingency"`
	GrandTotal    float64 `json:"grand_total"`
}

// EstimateDocument is project metadata plus the ordered item tree.
type EstimateDocument struct {
	ID          string         `json:"id,omitempty"`
	WorkName    string         `json:"work_name"`
	Code        string         `json:"code"`
	Location    string         `json:"location"`
	PreparedBy  string         `json:"prepared_by"`
	FundSource  string         `json:"fund_source"`
	Contingency float64        `json:"contingency"`
	Items       []LineItem     `json:"items"`
	Totals      DocumentTotals `json:"totals"`
}
