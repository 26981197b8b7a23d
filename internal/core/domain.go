package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ExcludedProvider is the provider removed from the "everything else" total
// shown next to the ranking widget.
const ExcludedProvider = "Agua do Cernes (Levy)"

// TopNOptions are the only ranking sizes the dashboard offers.
var TopNOptions = []int{5, 10, 20, 50}

type (
	// Month is a reference month: a date truncated to the first day of its
	// month, midnight UTC. It identifies the aggregation period everywhere a
	// month is passed around.
	Month struct {
		time.Time
	}

	// Payment mirrors one row of the pagamentos table. Date and Category are
	// nullable at the source; Amount carries its original sign.
	Payment struct {
		Date     *time.Time
		Category *string
		Amount   decimal.Decimal
	}

	// TopProvider mirrors one row of the vw_top_prestadores view: one row per
	// (reference month, provider).
	TopProvider struct {
		Month     Month
		Provider  string
		TotalPaid decimal.Decimal
	}

	// MonthlyCategoryTotal is sum(abs(amount)) over payments grouped by
	// truncated month and category.
	MonthlyCategoryTotal struct {
		Month     Month
		Category  string
		TotalPaid decimal.Decimal
	}

	// YearOverYear compares one (month, category) total against the same
	// calendar month one year earlier. The prior-year fields stay null when no
	// matching row exists; that is routine, not an error.
	YearOverYear struct {
		Month        Month
		Year         int
		MonthNumber  int // 1-12
		Category     string
		TotalCurrent decimal.Decimal
		TotalPrior   decimal.NullDecimal
		VarianceAbs  decimal.NullDecimal
		VariancePct  decimal.NullDecimal
	}
)

var (
	ErrInvalidMonth = errors.New("invalid month")
	ErrInvalidTopN  = errors.New("top-n outside the allowed set")
)

// DataAccessError wraps any failure coming out of the underlying store:
// unreachable database, malformed query, permission failure. An empty result
// set is valid data and is never reported through this type.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access: %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// NewDataAccessError wraps err with the catalog operation that failed.
func NewDataAccessError(op string, err error) *DataAccessError {
	return &DataAccessError{Op: op, Err: err}
}

// NewMonth builds a Month for the given year and calendar month.
func NewMonth(year int, month time.Month) Month {
	return Month{Time: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)}
}

// MonthOf truncates any timestamp to its reference month.
func MonthOf(t time.Time) Month {
	return NewMonth(t.Year(), t.Month())
}

// ParseMonth parses the wire format "2006-01".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return MonthOf(t), nil
}

// String renders the wire format "2006-01".
func (m Month) String() string {
	return m.Format("2006-01")
}

// Label renders the display format "01/2006".
func (m Month) Label() string {
	return m.Format("01/2006")
}

// Year returns the calendar year.
func (m Month) Year() int { return m.Time.Year() }

// Number returns the calendar month number, 1-12.
func (m Month) Number() int { return int(m.Time.Month()) }

// Before reports whether m precedes other.
func (m Month) Before(other Month) bool {
	return m.Time.Before(other.Time)
}

// ValidTopN reports whether n is one of the allowed ranking sizes.
func ValidTopN(n int) bool {
	for _, v := range TopNOptions {
		if n == v {
			return true
		}
	}
	return false
}

// NullOf wraps a concrete decimal in a valid NullDecimal.
func NullOf(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// CategoryLabel implements Categorized.
func (t MonthlyCategoryTotal) CategoryLabel() string { return t.Category }

// CategoryLabel implements Categorized.
func (y YearOverYear) CategoryLabel() string { return y.Category }
