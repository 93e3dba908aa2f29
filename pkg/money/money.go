// Package money formatea valores monetarios en reales (R$) con convenciones pt-BR.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Format devuelve "1.234,56" (separador de miles "." y decimal ",").
func Format(v decimal.Decimal) string {
	return printer.Sprint(number.Decimal(v.Round(2).InexactFloat64(), number.Scale(2)))
}

// Display devuelve "R$ 1.234,56".
func Display(v decimal.Decimal) string {
	return "R$ " + Format(v)
}
