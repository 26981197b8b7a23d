package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"painel/internal/core"
	"painel/internal/services"
)

// stubCatalog returns canned data, or fails every call when failWith is set.
type stubCatalog struct {
	months   []core.Month
	ranking  []core.TopProvider
	monthly  []core.MonthlyCategoryTotal
	yoy      []core.YearOverYear
	failWith error
}

func (c *stubCatalog) DistinctReferenceMonths(ctx context.Context) ([]core.Month, error) {
	return c.months, c.failWith
}

func (c *stubCatalog) TopProvidersForMonth(ctx context.Context, month core.Month, topN int) ([]core.TopProvider, error) {
	return c.ranking, c.failWith
}

func (c *stubCatalog) TotalExcludingProvider(ctx context.Context, month core.Month, topN int, excluded string) (decimal.Decimal, error) {
	return decimal.NewFromInt(200), c.failWith
}

func (c *stubCatalog) MonthlyCategoryTotals(ctx context.Context) ([]core.MonthlyCategoryTotal, error) {
	return c.monthly, c.failWith
}

func (c *stubCatalog) YearOverYearByCategory(ctx context.Context) ([]core.YearOverYear, error) {
	return c.yoy, c.failWith
}

func newTestServer(catalog services.Catalog) *Server {
	return NewServer(":0", services.NewReportService(catalog), nil, 2*time.Second)
}

func doGet(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleMonths(t *testing.T) {
	s := newTestServer(&stubCatalog{months: []core.Month{
		core.NewMonth(2024, time.March),
		core.NewMonth(2024, time.February),
	}})
	defer s.rateLimiter.stop()

	rec := doGet(t, s, "/api/months")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Months []string `json:"months"`
		NoData bool     `json:"no_data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Months) != 2 || body.Months[0] != "2024-03" || body.NoData {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHandleMonthsEmptyIsNotAnError(t *testing.T) {
	s := newTestServer(&stubCatalog{})
	defer s.rateLimiter.stop()

	rec := doGet(t, s, "/api/months")
	if rec.Code != http.StatusOK {
		t.Fatalf("empty result must stay 200, got %d", rec.Code)
	}

	var body struct {
		NoData bool `json:"no_data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.NoData {
		t.Fatal("expected no_data state")
	}
}

func TestHandleTopProviders(t *testing.T) {
	s := newTestServer(&stubCatalog{ranking: []core.TopProvider{
		{Month: core.NewMonth(2024, time.March), Provider: "A", TotalPaid: decimal.NewFromInt(300)},
		{Month: core.NewMonth(2024, time.March), Provider: "B", TotalPaid: decimal.NewFromInt(200)},
	}})
	defer s.rateLimiter.stop()

	rec := doGet(t, s, "/api/providers/top?month=2024-03&top=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var rep services.RankingReport
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rep.Month != "2024-03" || rep.TopN != 5 || len(rep.Table.Rows) != 2 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.ExcludedTotal.Value != "R$ 200,00" {
		t.Fatalf("unexpected excluded total: %q", rep.ExcludedTotal.Value)
	}
}

func TestHandleTopProvidersBadParams(t *testing.T) {
	s := newTestServer(&stubCatalog{})
	defer s.rateLimiter.stop()

	cases := []struct {
		name   string
		target string
	}{
		{"missing month", "/api/providers/top"},
		{"malformed month", "/api/providers/top?month=marco"},
		{"top outside set", "/api/providers/top?month=2024-03&top=7"},
	}
	for _, tc := range cases {
		if rec := doGet(t, s, tc.target); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestHandleTopProvidersDataAccessFailure(t *testing.T) {
	s := newTestServer(&stubCatalog{
		failWith: core.NewDataAccessError("top providers for month", errors.New("connection refused")),
	})
	defer s.rateLimiter.stop()

	rec := doGet(t, s, "/api/providers/top?month=2024-03")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHandleCategoryMatrix(t *testing.T) {
	s := newTestServer(&stubCatalog{monthly: []core.MonthlyCategoryTotal{
		{Month: core.NewMonth(2024, time.January), Category: "Utilities", TotalPaid: decimal.NewFromInt(80)},
	}})
	defer s.rateLimiter.stop()

	rec := doGet(t, s, "/api/categories/matrix")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var rep services.CategoryMatrixReport
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rep.NoData || len(rep.Table.Rows) != 1 || rep.Table.Rows[0][1] != "R$ 80,00" {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestHandleYearOverYearStyles(t *testing.T) {
	prior := core.NullOf(decimal.NewFromInt(80))
	abs, pct := core.Variance(decimal.NewFromInt(100), prior)
	s := newTestServer(&stubCatalog{yoy: []core.YearOverYear{{
		Month: core.NewMonth(2024, time.March), Year: 2024, MonthNumber: 3, Category: "A",
		TotalCurrent: decimal.NewFromInt(100), TotalPrior: prior, VarianceAbs: abs, VariancePct: pct,
	}}})
	defer s.rateLimiter.stop()

	rec := doGet(t, s, "/api/yoy")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var rep services.YearOverYearReport
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(rep.RowStyles) != 1 || rep.RowStyles[0] != core.StylePositive {
		t.Fatalf("unexpected styles: %v", rep.RowStyles)
	}
}

func TestEndpointsRejectNonGET(t *testing.T) {
	s := newTestServer(&stubCatalog{})
	defer s.rateLimiter.stop()

	req := httptest.NewRequest(http.MethodPost, "/api/months", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET" {
		t.Fatalf("expected Allow: GET, got %q", allow)
	}
}

func TestReadyWithoutPinger(t *testing.T) {
	s := newTestServer(&stubCatalog{})
	defer s.rateLimiter.stop()

	rec := doGet(t, s, "/readyz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
