package server

import (
	"fmt"
	"html/template"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// FormatInt groups the digits of v with commas.
func FormatInt[T ~int | ~int64](v T) string {
	return printer.Sprintf("%d", int64(v))
}

// FormatFloat formats v with exactly the given number of decimals and
// grouped digits.
func FormatFloat(v float64, decimals int) string {
	return printer.Sprintf("%v", number.Decimal(v,
		number.MinFractionDigits(decimals),
		number.MaxFractionDigits(decimals),
	))
}

func formatNumber(v any) string {
	switch n := v.(type) {
	case int:
		return FormatInt(n)
	case int64:
		return FormatInt(n)
	case float64:
		return FormatFloat(n, 0)
	}
	return fmt.Sprint(v)
}

var templateFuncs = template.FuncMap{
	"number":  formatNumber,
	"decimal": FormatFloat,
	"year": func() int {
		return time.Now().Year()
	},
}
