// Package numbering formats and parses invoice numbers of the form
// PREFIX-YYYYMMDD-NNN, where NNN is the per-day sequence zero-padded to at
// least three digits.
package numbering

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "20060102"

var ErrMalformedInvoiceNumber = errors.New("malformed invoice number")

// DatePrefix returns "PREFIX-YYYYMMDD-" for the calendar day of day.
func DatePrefix(prefix string, day time.Time) string {
	return prefix + "-" + day.Format(dateLayout) + "-"
}

// Format builds the invoice number for sequence seq on day.
func Format(prefix string, day time.Time, seq int) string {
	return fmt.Sprintf("%s%03d", DatePrefix(prefix, day), seq)
}

// Sequence parses the trailing sequence of number.
func Sequence(number string) (int, error) {
	i := strings.LastIndex(number, "-")
	if i < 0 || i == len(number)-1 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedInvoiceNumber, number)
	}
	tail := number[i+1:]
	for _, r := range tail {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrMalformedInvoiceNumber, number)
		}
	}
	seq, err := strconv.Atoi(tail)
	if err != nil || seq < 1 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedInvoiceNumber, number)
	}
	return seq, nil
}

// Next returns the number following last on day. An empty last starts the day
// at 1. A last number from another day or prefix is rejected.
func Next(prefix string, day time.Time, last string) (string, int, error) {
	if last == "" {
		return Format(prefix, day, 1), 1, nil
	}
	if !strings.HasPrefix(last, DatePrefix(prefix, day)) {
		return "", 0, fmt.Errorf("%w: %q does not belong to %s", ErrMalformedInvoiceNumber, last, DatePrefix(prefix, day))
	}
	seq, err := Sequence(last)
	if err != nil {
		return "", 0, err
	}
	return Format(prefix, day, seq+1), seq + 1, nil
}
