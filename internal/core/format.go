package core

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatMoney renders an amount as a locale currency string with thousand
// separators, e.g. 12500.5 -> "Ksh 12,500.50". Rounding happens on the total
// cents so a fractional carry propagates into the whole part.
func FormatMoney(amount float64) string {
	totalCents := int64(math.Round(amount * 100))

	negative := totalCents < 0
	if negative {
		totalCents = -totalCents
	}

	whole := totalCents / 100
	cents := totalCents % 100

	digits := fmt.Sprintf("%d", whole)
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(d)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%sKsh %s.%02d", sign, grouped.String(), cents)
}

// FormatDate renders a date for list display, e.g. "02 Jan 2006".
func FormatDate(value time.Time, loc *time.Location) string {
	return value.In(loc).Format("02 Jan 2006")
}

// FormatDateTime renders a timestamp for report display.
func FormatDateTime(value time.Time, loc *time.Location) string {
	return value.In(loc).Format("02 Jan 2006 15:04")
}
