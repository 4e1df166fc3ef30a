package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount the way the dashboard shows money, e.g. "R$ 1.234,50".
func FormatBRL(amount float64) string {
	return brl.Sprintf("R$ %.2f", amount)
}

// FormatPercent renders a percentage with two decimals in pt-BR notation.
func FormatPercent(pct float64) string {
	return brl.Sprintf("%.2f%%", pct)
}
