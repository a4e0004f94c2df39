package services

import (
	"fmt"
	"math"
	"strings"
)

// ComputeMeasurementQuantity returns nos x length x breadth x depth where any
// zero field counts as 1, so a pure length entry (0, 5, 0, 0) measures 5.
// Only when all four fields are zero is the quantity 0.
func ComputeMeasurementQuantity(nos, length, breadth, depth float64) float64 {
	if nos == 0 && length == 0 && breadth == 0 && depth == 0 {
		return 0
	}
	q := 1.0
	for _, f := range []float64{nos, length, breadth, depth} {
		if f != 0 {
			q *= f
		}
	}
	return RoundQuantity(q)
}

func computeMeasurements(ms []Measurement, field string) ([]Measurement, float64, error) {
	out := make([]Measurement, len(ms))
	qtys := make([]float64, len(ms))
	for i, m := range ms {
		f := fmt.Sprintf("%s.measurements[%d]", field, i)
		if err := checkNonNegative(f+".nos", m.Nos); err != nil {
			return nil, 0, err
		}
		if err := checkNonNegative(f+".length", m.Length); err != nil {
			return nil, 0, err
		}
		if err := checkNonNegative(f+".breadth", m.Breadth); err != nil {
			return nil, 0, err
		}
		if err := checkNonNegative(f+".depth", m.Depth); err != nil {
			return nil, 0, err
		}
		m.Quantity = ComputeMeasurementQuantity(m.Nos, m.Length, m.Breadth, m.Depth)
		if !isFinite(m.Quantity) {
			return nil, 0, invalid(f+".quantity", "overflows")
		}
		out[i] = m
		qtys[i] = m.Quantity
	}
	return out, sumPlaces(qtys, QuantityPlaces), nil
}

func validatePriced(field string, unit Unit, rate float64) error {
	if !unit.Valid() {
		return invalid(field+".unit", "unknown unit %q", unit)
	}
	return checkNonNegative(field+".rate", rate)
}

func computeSubItem(sub SubItem, index int, field string) (SubItem, error) {
	if err := validatePriced(field, sub.Unit, sub.Rate); err != nil {
		return SubItem{}, err
	}
	sub.Letter = SubItemLetter(index)
	if len(sub.Measurements) > 0 {
		ms, qty, err := computeMeasurements(sub.Measurements, field)
		if err != nil {
			return SubItem{}, err
		}
		sub.Measurements = ms
		sub.Quantity = qty
	} else {
		if err := checkNonNegative(field+".quantity", sub.Quantity); err != nil {
			return SubItem{}, err
		}
		sub.Quantity = RoundQuantity(sub.Quantity)
	}
	sub.Amount = mulCurrency(sub.Quantity, sub.Rate)
	if !isFinite(sub.Amount) {
		return SubItem{}, invalid(field+".amount", "overflows")
	}
	return sub, nil
}

// ComputeLineItemTotals derives quantity and amount for an item and its
// children. With sub-items the parent is the plain sum of sub-item quantities
// and amounts (the parent rate is not applied). Otherwise amount = quantity x rate.
// The input is not modified.
func ComputeLineItemTotals(item LineItem) (LineItem, error) {
	return computeLineItem(item, "item")
}

func computeLineItem(item LineItem, field string) (LineItem, error) {
	if len(item.SubItems) > 0 && len(item.Measurements) > 0 {
		return LineItem{}, invalid(field, "has both sub-items and measurements")
	}

	if len(item.SubItems) > 0 {
		if err := checkNonNegative(field+".rate", item.Rate); err != nil {
			return LineItem{}, err
		}
		subs := make([]SubItem, len(item.SubItems))
		qtys := make([]float64, len(item.SubItems))
		amounts := make([]float64, len(item.SubItems))
		for i, s := range item.SubItems {
			cs, err := computeSubItem(s, i, fmt.Sprintf("%s.sub_items[%d]", field, i))
			if err != nil {
				return LineItem{}, err
			}
			subs[i] = cs
			qtys[i] = cs.Quantity
			amounts[i] = cs.Amount
		}
		item.SubItems = subs
		item.Quantity = sumPlaces(qtys, QuantityPlaces)
		item.Amount = sumPlaces(amounts, CurrencyPlaces)
		return item, nil
	}

	if err := validatePriced(field, item.Unit, item.Rate); err != nil {
		return LineItem{}, err
	}
	if len(item.Measurements) > 0 {
		ms, qty, err := computeMeasurements(item.Measurements, field)
		if err != nil {
			return LineItem{}, err
		}
		item.Measurements = ms
		item.Quantity = qty
	} else {
		if err := checkNonNegative(field+".quantity", item.Quantity); err != nil {
			return LineItem{}, err
		}
		item.Quantity = RoundQuantity(item.Quantity)
	}
	item.Amount = mulCurrency(item.Quantity, item.Rate)
	if !isFinite(item.Amount) {
		return LineItem{}, invalid(field+".amount", "overflows")
	}
	return item, nil
}

// ComputeDocumentTotals runs the whole total chain from scratch with the
// default tax rates. Items are recomputed first so stale amounts never leak in.
func ComputeDocumentTotals(items []LineItem, contingency float64) (DocumentTotals, error) {
	return ComputeDocumentTotalsWithRates(items, contingency, DefaultTaxRates)
}

// ComputeDocumentTotalsWithRates is ComputeDocumentTotals with explicit rates.
func ComputeDocumentTotalsWithRates(items []LineItem, contingency float64, rates TaxRates) (DocumentTotals, error) {
	computed, err := computeItems(items)
	if err != nil {
		return DocumentTotals{}, err
	}
	return totalsOf(computed, contingency, rates)
}

func totalsOf(items []LineItem, contingency float64, rates TaxRates) (DocumentTotals, error) {
	if err := checkNonNegative("contingency", contingency); err != nil {
		return DocumentTotals{}, err
	}
	if err := validatePercent("taxes.gst_percent", rates.GSTPercent); err != nil {
		return DocumentTotals{}, err
	}
	if err := validatePercent("taxes.lwc_percent", rates.LWCPercent); err != nil {
		return DocumentTotals{}, err
	}

	amounts := make([]float64, len(items))
	for i, it := range items {
		amounts[i] = it.Amount
	}

	var t DocumentTotals
	t.ItemwiseTotal = sumPlaces(amounts, CurrencyPlaces)
	t.GSTAmount = percentOf(t.ItemwiseTotal, rates.GSTPercent, CurrencyPlaces)
	t.CostExclLWC = sumPlaces([]float64{t.ItemwiseTotal, t.GSTAmount}, CurrencyPlaces)
	t.LWCAmount = percentOf(t.CostExclLWC, rates.LWCPercent, CurrencyPlaces)
	t.CostInclLWC = sumPlaces([]float64{t.CostExclLWC, t.LWCAmount}, CurrencyPlaces)
	t.Contingency = RoundCurrency(contingency)
	t.GrandTotal = sumPlaces([]float64{t.CostInclLWC, t.Contingency}, CurrencyPlaces)
	return t, nil
}

func computeItems(items []LineItem) ([]LineItem, error) {
	out := make([]LineItem, len(items))
	for i, it := range items {
		c, err := computeLineItem(it, fmt.Sprintf("items[%d]", i))
		if err != nil {
			return nil, err
		}
		c.Serial = i + 1
		out[i] = c
	}
	return out, nil
}

// ComputeEstimate returns a copy of doc with every item, sub-item and
// measurement recomputed, serials renumbered and totals rebuilt.
func ComputeEstimate(doc EstimateDocument, rates TaxRates) (EstimateDocument, error) {
	items, err := computeItems(doc.Items)
	if err != nil {
		return EstimateDocument{}, err
	}
	totals, err := totalsOf(items, doc.Contingency, rates)
	if err != nil {
		return EstimateDocument{}, err
	}
	doc.WorkName = strings.TrimSpace(doc.WorkName)
	doc.Items = items
	doc.Totals = totals
	return doc, nil
}

// SubItemLetter maps 0 -> "a", 25 -> "z", 26 -> "aa".
func SubItemLetter(i int) string {
	var b []byte
	for i >= 0 {
		b = append([]byte{byte('a' + i%26)}, b...)
		i = i/26 - 1
	}
	return string(b)
}

// checkNonNegative rejects negative, NaN and infinite inputs.
func checkNonNegative(field string, v float64) error {
	if !isFinite(v) {
		return invalid(field, "must be a finite number, got %v", v)
	}
	if v < 0 {
		return invalid(field, "must not be negative")
	}
	return nil
}

func validatePercent(field string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 100 {
		return invalid(field, "percentage %v outside 0-100", p)
	}
	return nil
}
