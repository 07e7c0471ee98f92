package invoice

import (
	"fmt"
	"strconv"
	"strings"

	ierr "github.com/ledgerline/ledgerline/internal/errors"
)

// Invoice numbers follow the pattern INV-{year}-{sequence}, where the
// sequence is zero padded to four digits but keeps growing past 9999
// without wrapping.

// NumberPrefix returns the invoice number prefix for a given year,
// e.g. "INV-2026-".
func NumberPrefix(year int) string {
	return fmt.Sprintf("INV-%d-", year)
}

// FormatNumber renders an invoice number for a year and sequence value
func FormatNumber(year int, seq int64) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}

// ParseSequence extracts the numeric sequence from an invoice number.
// The comparison is numeric, not lexicographic, so "INV-2026-10000"
// correctly outranks "INV-2026-9999".
func ParseSequence(number string, year int) (int64, error) {
	prefix := NumberPrefix(year)
	if !strings.HasPrefix(number, prefix) {
		return 0, ierr.NewError("invalid invoice number").
			WithHintf("invoice number %q does not match prefix %q", number, prefix).
			Mark(ierr.ErrValidation)
	}

	seq, err := strconv.ParseInt(strings.TrimPrefix(number, prefix), 10, 64)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHintf("invoice number %q has a non numeric sequence", number).
			Mark(ierr.ErrValidation)
	}

	return seq, nil
}
