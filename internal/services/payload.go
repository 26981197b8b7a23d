package services

import "github.com/shopspring/decimal"

// Display payloads handed to the frontend. Tables and metrics carry formatted
// strings only; chart series keep raw numbers so the widgets can scale axes.

// Table is an ordered sequence of rows with named columns.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Metric is one formatted scalar for a stat widget.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Style string `json:"style,omitempty"`
}

// SeriesPoint is one labeled numeric point.
type SeriesPoint struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// CategorySeries is one chart line/bar group per category.
type CategorySeries struct {
	Category string        `json:"category"`
	Points   []SeriesPoint `json:"points"`
}

// RankingReport backs the top-providers widget for one reference month.
type RankingReport struct {
	Month         string        `json:"month"`
	TopN          int           `json:"top_n"`
	NoData        bool          `json:"no_data"`
	Table         Table         `json:"table"`
	ExcludedTotal Metric        `json:"excluded_total"`
	Chart         []SeriesPoint `json:"chart"`
}

// CategoryMatrixReport backs the month × category table and its chart.
type CategoryMatrixReport struct {
	NoData bool             `json:"no_data"`
	Table  Table            `json:"table"`
	Series []CategorySeries `json:"series"`
}

// YearOverYearReport backs the YoY table (with per-row color styles) and the
// per-month bar chart.
type YearOverYearReport struct {
	NoData    bool          `json:"no_data"`
	Table     Table         `json:"table"`
	RowStyles []string      `json:"row_styles"`
	Chart     []SeriesPoint `json:"chart"`
}

// SummaryReport bundles the widgets of one dashboard interaction.
type SummaryReport struct {
	Months  []string      `json:"months"`
	Ranking RankingReport `json:"ranking"`
}
