package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Categorized is any derived row carrying a category label.
type Categorized interface {
	CategoryLabel() string
}

// Matrix is a month × category grid of totals. Months ascend, categories are
// alphabetical, and every combination has a cell (zero when absent), so the
// output is identical for any permutation of the input rows.
type Matrix struct {
	Months     []Month
	Categories []string
	// Cells[i][j] holds the total for Months[i] × Categories[j].
	Cells [][]decimal.Decimal
}

// IsEmpty reports whether the matrix has no data at all.
func (m Matrix) IsEmpty() bool {
	return len(m.Months) == 0
}

// MonthYearTotal is one bar of the year-over-year chart: the total for a
// calendar month within one year, independent of category.
type MonthYearTotal struct {
	MonthNumber int
	Year        int
	Total       decimal.Decimal
}

// PivotMonthCategory pivots grouped totals into a month × category matrix.
// Duplicate (month, category) pairs are summed.
func PivotMonthCategory(rows []MonthlyCategoryTotal) Matrix {
	monthSet := make(map[Month]struct{})
	catSet := make(map[string]struct{})
	for _, r := range rows {
		monthSet[r.Month] = struct{}{}
		catSet[r.Category] = struct{}{}
	}

	m := Matrix{
		Months:     make([]Month, 0, len(monthSet)),
		Categories: make([]string, 0, len(catSet)),
	}
	for mo := range monthSet {
		m.Months = append(m.Months, mo)
	}
	sort.Slice(m.Months, func(i, j int) bool { return m.Months[i].Before(m.Months[j]) })
	for c := range catSet {
		m.Categories = append(m.Categories, c)
	}
	sort.Strings(m.Categories)

	monthIdx := make(map[Month]int, len(m.Months))
	for i, mo := range m.Months {
		monthIdx[mo] = i
	}
	catIdx := make(map[string]int, len(m.Categories))
	for j, c := range m.Categories {
		catIdx[c] = j
	}

	m.Cells = make([][]decimal.Decimal, len(m.Months))
	for i := range m.Cells {
		m.Cells[i] = make([]decimal.Decimal, len(m.Categories))
	}
	for _, r := range rows {
		i, j := monthIdx[r.Month], catIdx[r.Category]
		m.Cells[i][j] = m.Cells[i][j].Add(r.TotalPaid)
	}
	return m
}

// FilterByCategorySet retains the rows whose category is in selected. An empty
// selection means "no filter applied" and passes every row through unchanged,
// not "show nothing".
func FilterByCategorySet[R Categorized](rows []R, selected []string) []R {
	if len(selected) == 0 {
		return rows
	}
	keep := make(map[string]struct{}, len(selected))
	for _, c := range selected {
		keep[c] = struct{}{}
	}
	out := make([]R, 0, len(rows))
	for _, r := range rows {
		if _, ok := keep[r.CategoryLabel()]; ok {
			out = append(out, r)
		}
	}
	return out
}

// GroupSumByMonthYear sums the current-year totals by (month number, year),
// sorted by year then month. Categories collapse into one bar per month.
func GroupSumByMonthYear(rows []YearOverYear) []MonthYearTotal {
	type key struct {
		year  int
		month int
	}
	sums := make(map[key]decimal.Decimal)
	for _, r := range rows {
		k := key{year: r.Year, month: r.MonthNumber}
		sums[k] = sums[k].Add(r.TotalCurrent)
	}
	out := make([]MonthYearTotal, 0, len(sums))
	for k, total := range sums {
		out = append(out, MonthYearTotal{MonthNumber: k.month, Year: k.year, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].MonthNumber < out[j].MonthNumber
	})
	return out
}

// Variance applies the prior-year comparison rules. A null prior yields null
// absolute and percent variance. A zero prior yields a defined absolute
// variance but a null percent (division is undefined). Otherwise
// abs = current - prior and pct = abs / prior.
func Variance(current decimal.Decimal, prior decimal.NullDecimal) (abs, pct decimal.NullDecimal) {
	if !prior.Valid {
		return
	}
	abs = NullOf(current.Sub(prior.Decimal))
	if prior.Decimal.IsZero() {
		return
	}
	pct = NullOf(abs.Decimal.Div(prior.Decimal))
	return
}
