package document

import (
	"strings"

	"github.com/shopspring/decimal"
)

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// wordsBelowHundred converts 0 < n < 100 to words.
func wordsBelowHundred(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	if n%10 == 0 {
		return tensWords[n/10]
	}
	return tensWords[n/10] + " " + onesWords[n%10]
}

// wordsBelowThousand converts 0 < n < 1000 to words.
func wordsBelowThousand(n int64) string {
	if n < 100 {
		return wordsBelowHundred(n)
	}
	words := onesWords[n/100] + " Hundred"
	if rest := n % 100; rest != 0 {
		words += " " + wordsBelowHundred(rest)
	}
	return words
}

// numberWords converts a non-negative integer to words using Indian
// numbering: crores, lakhs, thousands, then hundreds.
func numberWords(n int64) string {
	if n == 0 {
		return "Zero"
	}

	var parts []string
	if crore := n / 1_00_00_000; crore > 0 {
		parts = append(parts, numberWords(crore)+" Crore")
		n %= 1_00_00_000
	}
	if lakh := n / 1_00_000; lakh > 0 {
		parts = append(parts, wordsBelowHundred(lakh)+" Lakh")
		n %= 1_00_000
	}
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, wordsBelowHundred(thousand)+" Thousand")
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, wordsBelowThousand(n))
	}
	return strings.Join(parts, " ")
}

// AmountInWords renders a rupee amount in words, e.g.
// "Four Hundred Fifty Rupees Only" or
// "One Lakh Twenty Rupees and Fifty Paise Only".
// Negative amounts are prefixed with "Minus".
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Round(2)

	prefix := ""
	if amount.IsNegative() {
		prefix = "Minus "
		amount = amount.Abs()
	}

	rupees := amount.IntPart()
	paise := amount.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).IntPart()

	words := prefix + numberWords(rupees) + " Rupees"
	if paise > 0 {
		words += " and " + wordsBelowHundred(paise) + " Paise"
	}
	return words + " Only"
}

// FormatAmount renders a currency amount for display, e.g. "₹450.00".
func FormatAmount(amount decimal.Decimal) string {
	return "₹" + amount.StringFixed(2)
}
