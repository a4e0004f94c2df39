package services

import (
	"fmt"
	"math"
	"strings"
)

// FormatINR renders an amount with the rupee sign and lakh/crore grouping,
// e.g. ₹1,23,45,678.90. Used on HTML views.
func FormatINR(amount float64) string {
	s := FormatAmount(amount)
	if strings.HasPrefix(s, "-") {
		return "-₹" + s[1:]
	}
	return "₹" + s
}

// FormatAmount is FormatINR without the currency sign. PDF core fonts have no
// rupee glyph, so documents print amounts this way under an "Amount (Rs.)" heading.
func FormatAmount(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	raw := fmt.Sprintf("%.2f", amount)
	intPart, decPart, _ := strings.Cut(raw, ".")
	out := groupIndian(intPart) + "." + decPart
	if neg && out != "0.00" {
		out = "-" + out
	}
	return out
}

// groupIndian keeps the last three digits together and groups the rest in pairs.
func groupIndian(s string) string {
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}

// FormatQuantity prints a quantity with its 3-decimal precision, dropping the
// fraction for whole numbers.
func FormatQuantity(q float64) string {
	if q == math.Trunc(q) {
		return fmt.Sprintf("%.0f", q)
	}
	return fmt.Sprintf("%.3f", q)
}

// formatDimension prints a measurement field, blank when unused (zero).
func formatDimension(v float64) string {
	if v == 0 {
		return ""
	}
	return FormatQuantity(v)
}

// FormatPercent prints 10 as "10%" and 2.5 as "2.5%".
func FormatPercent(p float64) string {
	if p == math.Trunc(p) {
		return fmt.Sprintf("%.0f%%", p)
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", p), "0"), ".") + "%"
}

func joinNonEmpty(parts []string, sep string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
