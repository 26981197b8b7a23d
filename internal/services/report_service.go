// Package services maps user-selected filters to catalog queries and turns the
// results into display payloads. Every method is stateless: one call covers
// one user interaction, nothing is retained in between.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"painel/internal/core"
)

// Catalog is the fixed set of read queries the dashboard is built on.
// Implemented by storage.PostgresRepository; faked in tests.
type Catalog interface {
	DistinctReferenceMonths(ctx context.Context) ([]core.Month, error)
	TopProvidersForMonth(ctx context.Context, month core.Month, topN int) ([]core.TopProvider, error)
	TotalExcludingProvider(ctx context.Context, month core.Month, topN int, excluded string) (decimal.Decimal, error)
	MonthlyCategoryTotals(ctx context.Context) ([]core.MonthlyCategoryTotal, error)
	YearOverYearByCategory(ctx context.Context) ([]core.YearOverYear, error)
}

type ReportService struct {
	catalog Catalog
}

func NewReportService(catalog Catalog) *ReportService {
	return &ReportService{catalog: catalog}
}

// ReferenceMonths returns the selectable months, most recent first.
func (s *ReportService) ReferenceMonths(ctx context.Context) ([]string, error) {
	months, err := s.catalog.DistinctReferenceMonths(ctx)
	if err != nil {
		return nil, fmt.Errorf("reference months: %w", err)
	}
	out := make([]string, len(months))
	for i, m := range months {
		out[i] = m.String()
	}
	return out, nil
}

// ProviderRanking builds the top-providers widget for one month: the ranked
// table, the chart series and the total paid to everyone except the excluded
// provider. The two catalog queries are independent and run in parallel.
func (s *ReportService) ProviderRanking(ctx context.Context, month core.Month, topN int) (RankingReport, error) {
	var (
		ranking  []core.TopProvider
		excluded decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ranking, err = s.catalog.TopProvidersForMonth(gctx, month, topN)
		return err
	})
	g.Go(func() error {
		var err error
		excluded, err = s.catalog.TotalExcludingProvider(gctx, month, topN, core.ExcludedProvider)
		return err
	})
	if err := g.Wait(); err != nil {
		return RankingReport{}, fmt.Errorf("provider ranking (month=%s, top=%d): %w", month, topN, err)
	}

	rep := RankingReport{
		Month: month.String(),
		TopN:  topN,
		Table: Table{Columns: []string{"#", "Prestador", "Total pago"}},
		ExcludedTotal: Metric{
			Label: "Total exceto " + core.ExcludedProvider,
			Value: core.FormatCurrency(core.NullOf(excluded)),
		},
	}

	if len(ranking) == 0 {
		rep.NoData = true
		slog.InfoContext(ctx, "Ranking empty", "month", month.String(), "top_n", topN)
		return rep, nil
	}

	for i, p := range ranking {
		rep.Table.Rows = append(rep.Table.Rows, []string{
			strconv.Itoa(i + 1),
			p.Provider,
			core.FormatCurrency(core.NullOf(p.TotalPaid)),
		})
		rep.Chart = append(rep.Chart, SeriesPoint{Label: p.Provider, Value: p.TotalPaid})
	}
	return rep, nil
}

// CategoryMatrix builds the month × category widget. An empty selection shows
// every category; missing (month, category) combinations render as zero.
func (s *ReportService) CategoryMatrix(ctx context.Context, selected []string) (CategoryMatrixReport, error) {
	rows, err := s.catalog.MonthlyCategoryTotals(ctx)
	if err != nil {
		return CategoryMatrixReport{}, fmt.Errorf("category matrix: %w", err)
	}

	matrix := core.PivotMonthCategory(core.FilterByCategorySet(rows, selected))
	if matrix.IsEmpty() {
		return CategoryMatrixReport{NoData: true}, nil
	}

	rep := CategoryMatrixReport{
		Table: Table{Columns: append([]string{"Mês"}, matrix.Categories...)},
	}
	for i, month := range matrix.Months {
		row := make([]string, 0, len(matrix.Categories)+1)
		row = append(row, month.Label())
		for j := range matrix.Categories {
			row = append(row, core.FormatCurrency(core.NullOf(matrix.Cells[i][j])))
		}
		rep.Table.Rows = append(rep.Table.Rows, row)
	}
	for j, cat := range matrix.Categories {
		series := CategorySeries{Category: cat}
		for i, month := range matrix.Months {
			series.Points = append(series.Points, SeriesPoint{Label: month.String(), Value: matrix.Cells[i][j]})
		}
		rep.Series = append(rep.Series, series)
	}
	return rep, nil
}

// YearOverYear builds the YoY comparison widget: the variance table with
// per-row styles and a per-month bar chart of current-year totals. Rows with
// no prior-year match keep null variances, which format to the zero strings.
func (s *ReportService) YearOverYear(ctx context.Context, selected []string) (YearOverYearReport, error) {
	rows, err := s.catalog.YearOverYearByCategory(ctx)
	if err != nil {
		return YearOverYearReport{}, fmt.Errorf("year over year: %w", err)
	}

	filtered := core.FilterByCategorySet(rows, selected)
	if len(filtered) == 0 {
		return YearOverYearReport{NoData: true}, nil
	}

	rep := YearOverYearReport{
		Table: Table{Columns: []string{"Mês", "Categoria", "Total atual", "Ano anterior", "Variação", "Variação %"}},
	}
	for _, r := range filtered {
		rep.Table.Rows = append(rep.Table.Rows, []string{
			r.Month.Label(),
			r.Category,
			core.FormatCurrency(core.NullOf(r.TotalCurrent)),
			core.FormatCurrency(r.TotalPrior),
			core.FormatCurrency(r.VarianceAbs),
			core.FormatPercent(r.VariancePct),
		})
		rep.RowStyles = append(rep.RowStyles, core.VarianceStyle(r.VarianceAbs))
	}
	for _, g := range core.GroupSumByMonthYear(filtered) {
		rep.Chart = append(rep.Chart, SeriesPoint{
			Label: fmt.Sprintf("%02d/%d", g.MonthNumber, g.Year),
			Value: g.Total,
		})
	}
	return rep, nil
}

// Summary serves one full dashboard interaction: the month options plus the
// ranking for the requested month. A zero month means "latest available".
func (s *ReportService) Summary(ctx context.Context, month core.Month, topN int) (SummaryReport, error) {
	months, err := s.catalog.DistinctReferenceMonths(ctx)
	if err != nil {
		return SummaryReport{}, fmt.Errorf("summary: %w", err)
	}

	rep := SummaryReport{Months: make([]string, len(months))}
	for i, m := range months {
		rep.Months[i] = m.String()
	}

	if month.IsZero() {
		if len(months) == 0 {
			rep.Ranking = RankingReport{TopN: topN, NoData: true}
			return rep, nil
		}
		month = months[0]
	}

	ranking, err := s.ProviderRanking(ctx, month, topN)
	if err != nil {
		return SummaryReport{}, err
	}
	rep.Ranking = ranking
	return rep, nil
}
