package utils

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatMoney renders amount with the currency symbol and digit grouping of
// locale (a BCP 47 tag such as "pt-BR"). Unknown locales fall back to pt-BR.
func FormatMoney(amount float64, locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	unit, conf := currency.FromTag(tag)
	if conf == language.No {
		unit = currency.BRL
	}
	p := message.NewPrinter(tag)
	return p.Sprintf("%v %v", currency.Symbol(unit), number.Decimal(amount, number.Scale(2)))
}
