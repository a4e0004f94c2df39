package services

import (
	"math"
	"strings"
)

// AmountToWords spells a rupee amount in Indian English, as printed on bill
// slips: 86000 -> "Rupees Eighty Six Thousand Only",
// 1250.5 -> "Rupees One Thousand Two Hundred and Fifty and Paise Fifty Only".
func AmountToWords(amount float64) string {
	if amount < 0 {
		return "Minus " + AmountToWords(-amount)
	}
	paiseTotal := int64(math.Round(amount * 100))
	rupees := paiseTotal / 100
	paise := paiseTotal % 100

	words := "Zero"
	if rupees > 0 {
		words = indianWords(rupees)
	}
	out := "Rupees " + words
	if paise > 0 {
		out += " and Paise " + wordsUnder100(paise)
	}
	return out + " Only"
}

func indianWords(n int64) string {
	var parts []string
	for _, scale := range []struct {
		div  int64
		name string
	}{
		{10000000, "Crore"},
		{100000, "Lakh"},
		{1000, "Thousand"},
	} {
		if n >= scale.div {
			q := n / scale.div
			// crores can exceed 99
			if q >= 100 {
				parts = append(parts, indianWords(q)+" "+scale.name)
			} else {
				parts = append(parts, wordsUnder100(q)+" "+scale.name)
			}
			n %= scale.div
		}
	}
	if n >= 100 {
		parts = append(parts, unitWords[n/100]+" Hundred")
		n %= 100
	}
	if n > 0 {
		if len(parts) > 0 {
			parts = append(parts, "and "+wordsUnder100(n))
		} else {
			parts = append(parts, wordsUnder100(n))
		}
	}
	return strings.Join(parts, " ")
}

func wordsUnder100(n int64) string {
	if n < 20 {
		return unitWords[n]
	}
	w := tensWords[n/10]
	if n%10 != 0 {
		w += " " + unitWords[n%10]
	}
	return w
}

var unitWords = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}
