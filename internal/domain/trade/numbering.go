package trade

import (
	"time"

	"github.com/dokan/papershop/internal/domain/shared"
)

// DocumentKind selects the number series of a transaction
type DocumentKind string

const (
	DocumentKindPurchase DocumentKind = "PUR"
	DocumentKindSale     DocumentKind = "INV"
)

// NumberPrefix returns <KIND>-<YYYYMMDD> for the UTC day of date
func NumberPrefix(kind DocumentKind, date time.Time) string {
	return string(kind) + "-" + date.UTC().Format("20060102")
}

// FormatNumber renders prefix-NNNN
func FormatNumber(prefix string, n int) string {
	return shared.FormatSequence(prefix, n)
}
