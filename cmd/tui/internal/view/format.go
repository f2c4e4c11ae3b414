package view

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mkante/gestloc/internal/domain"
)

// amounts display the way the original UI did: French digit grouping.
var frPrinter = message.NewPrinter(language.French)

// FormatAmount renders "1 000 000 GNF". The currency may be empty for
// records whose building chain dangles.
func FormatAmount(a domain.Amount, currency domain.Currency) string {
	s := frPrinter.Sprintf("%d", int64(a))
	if currency == "" {
		return s
	}

	return s + " " + string(currency)
}

// FormatDate renders a calendar day, or a dash for a missing one.
func FormatDate(d *domain.Date) string {
	if d == nil || d.IsZero() {
		return "-"
	}

	return d.String()
}
