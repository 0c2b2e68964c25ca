package analytics

import (
	"context"
	stderrors "errors"
	"time"

	"pnl-insights/internal/common/config"
	"pnl-insights/internal/common/database"
	"pnl-insights/internal/common/errors"
	"pnl-insights/internal/common/logger"
)

const (
	monthlySummaryQuery = `
		SELECT periodid, month_year, store_count,
		       total_revenue_sum, total_revenue_plan,
		       net_income_actual, net_income_plan,
		       cogs_pct_of_sales, labor_pct_of_sales,
		       gross_margin_pct, ebitda_margin_pct
		FROM panda_monthly_summary
		ORDER BY fiscalyear, fiscalperiod`

	storeSummaryQuery = `
		SELECT storenumber, store_name, state, region,
		       square_feet, store_type, periods_count,
		       total_revenue, avg_period_revenue,
		       total_cogs, total_labor, total_opex, net_income,
		       labor_pct_of_sales, ebitda_margin_pct, sales_per_sq_ft
		FROM panda_store_summary`

	topStoresQuery = `
		SELECT storenumber, store_name, state, region,
		       total_revenue, ebitda_margin_pct,
		       labor_pct_of_sales, sales_per_sq_ft
		FROM panda_store_summary
		ORDER BY total_revenue DESC
		LIMIT $1`
)

var errNoDatabase = stderrors.New("postgres client not configured")

// Service reads the pre-aggregated P&L summary tables.
type Service struct {
	db           *database.PostgresClient
	queryTimeout time.Duration
	topLimit     int
	logger       logger.Logger
}

// NewService creates the analytics service. db may be nil; data queries then
// fail with a database connection error, and KPIs fall back to the demo set.
func NewService(db *database.PostgresClient, cfg config.AnalyticsConfig, log logger.Logger) *Service {
	return &Service{
		db:           db,
		queryTimeout: time.Duration(cfg.QueryTimeout) * time.Millisecond,
		topLimit:     cfg.TopStoreLimit,
		logger:       log.WithFields(map[string]interface{}{"component": "analytics-service"}),
	}
}

// MonthlyTrends returns the month-over-month P&L summary in fiscal order.
func (s *Service) MonthlyTrends(ctx context.Context) ([]MonthlySummary, error) {
	if s.db == nil {
		return nil, errors.NewDatabaseConnectionError(errNoDatabase)
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, monthlySummaryQuery)
	if err != nil {
		return nil, errors.NewQueryExecutionError("monthly_summary", err)
	}
	defer rows.Close()

	var out []MonthlySummary
	for rows.Next() {
		var m MonthlySummary
		if err := rows.Scan(
			&m.PeriodID, &m.MonthYear, &m.StoreCount,
			&m.TotalRevenue, &m.RevenuePlan,
			&m.NetIncome, &m.NetIncomePlan,
			&m.COGSPct, &m.LaborPct,
			&m.GrossMarginPct, &m.EBITDAMarginPct,
		); err != nil {
			return nil, errors.NewQueryExecutionError("monthly_summary", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionError("monthly_summary", err)
	}

	return out, nil
}

// StoreSummaries returns the per-store performance rollup.
func (s *Service) StoreSummaries(ctx context.Context) ([]StoreSummary, error) {
	if s.db == nil {
		return nil, errors.NewDatabaseConnectionError(errNoDatabase)
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, storeSummaryQuery)
	if err != nil {
		return nil, errors.NewQueryExecutionError("store_summary", err)
	}
	defer rows.Close()

	var out []StoreSummary
	for rows.Next() {
		var st StoreSummary
		if err := rows.Scan(
			&st.StoreNumber, &st.StoreName, &st.State, &st.Region,
			&st.SquareFeet, &st.StoreType, &st.PeriodsCount,
			&st.TotalRevenue, &st.AvgRevenue,
			&st.TotalCOGS, &st.TotalLabor, &st.TotalOpex, &st.NetIncome,
			&st.LaborPct, &st.EBITDAMarginPct, &st.SalesPerSqFt,
		); err != nil {
			return nil, errors.NewQueryExecutionError("store_summary", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionError("store_summary", err)
	}

	return out, nil
}

// TopStores returns the highest-revenue stores. A non-positive limit uses
// the configured default.
func (s *Service) TopStores(ctx context.Context, limit int) ([]TopStore, error) {
	if s.db == nil {
		return nil, errors.NewDatabaseConnectionError(errNoDatabase)
	}
	if limit <= 0 {
		limit = s.topLimit
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, topStoresQuery, limit)
	if err != nil {
		return nil, errors.NewQueryExecutionError("top_stores", err)
	}
	defer rows.Close()

	var out []TopStore
	for rows.Next() {
		var ts TopStore
		if err := rows.Scan(
			&ts.StoreNumber, &ts.StoreName, &ts.State, &ts.Region,
			&ts.TotalRevenue, &ts.EBITDAMarginPct,
			&ts.LaborPct, &ts.SalesPerSqFt,
		); err != nil {
			return nil, errors.NewQueryExecutionError("top_stores", err)
		}
		out = append(out, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionError("top_stores", err)
	}

	return out, nil
}

// ResultSet is the generic shape of an ad-hoc query result: column names,
// one record per row keyed by column, and [rows, columns] dimensions.
type ResultSet struct {
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
	Shape   [2]int                   `json:"shape"`
}

// Query runs an ad-hoc statement against the warehouse and returns the rows
// generically. Byte columns come back as strings so the result serializes as
// readable JSON.
func (s *Service) Query(ctx context.Context, query string) (*ResultSet, error) {
	if s.db == nil {
		return nil, errors.NewDatabaseConnectionError(errNoDatabase)
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, errors.NewQueryExecutionError("adhoc", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.NewQueryExecutionError("adhoc", err)
	}

	out := &ResultSet{Columns: cols, Rows: []map[string]interface{}{}}
	values := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.NewQueryExecutionError("adhoc", err)
		}
		record := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}
		out.Rows = append(out.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionError("adhoc", err)
	}

	out.Shape = [2]int{len(out.Rows), len(cols)}
	return out, nil
}

// demoKPIs is served whenever warehouse data is unavailable, so the header
// strip always renders.
func demoKPIs() []KPI {
	return []KPI{
		{Name: "Revenue", Value: 2845000, Change: 5.2, Period: "vs last month"},
		{Name: "EBITDA Margin", Value: 18.5, Change: -0.8, Period: "vs last month"},
		{Name: "Labor %", Value: 28.2, Change: 1.2, Period: "vs target"},
		{Name: "Transactions", Value: 156789, Change: 3.1, Period: "vs last month"},
	}
}

// KPIs derives headline metrics from the latest monthly summary. When the
// warehouse is unreachable or empty it falls back to the demo set rather
// than failing; the KPI strip is decoration, not a report of record.
func (s *Service) KPIs(ctx context.Context) []KPI {
	trends, err := s.MonthlyTrends(ctx)
	if err != nil || len(trends) == 0 {
		if err != nil {
			s.logger.Warn("serving demo KPIs", map[string]interface{}{"error": err.Error()})
		}
		return demoKPIs()
	}

	latest := trends[len(trends)-1]

	revenueChange := 0.0
	if len(trends) > 1 {
		previous := trends[len(trends)-2]
		if previous.TotalRevenue != 0 {
			revenueChange = (latest.TotalRevenue - previous.TotalRevenue) / previous.TotalRevenue * 100
		}
	}

	return []KPI{
		{Name: "Revenue", Value: latest.TotalRevenue, Change: revenueChange, Period: "vs last month"},
		{Name: "EBITDA Margin", Value: latest.EBITDAMarginPct, Period: "vs last month"},
		{Name: "Labor %", Value: latest.LaborPct, Period: "vs target"},
		{Name: "Stores Reporting", Value: float64(latest.StoreCount), Period: "vs last month"},
	}
}

// Alerts returns the current operational alerts. Real-time monitoring feeds
// are not connected yet; the set below mirrors the conditions the insight
// cards track.
func (s *Service) Alerts() []Alert {
	return []Alert{
		{
			ID:          "alert_001",
			Title:       "High Food Waste - Store #142",
			Description: "Orange Chicken waste is 15% above target. Consider reducing batch size during slow periods.",
			Severity:    "high",
			Action:      "Reduce batch cooking by 20% between 2-4 PM",
			StoreID:     "142",
		},
		{
			ID:          "alert_002",
			Title:       "Labor Cost Alert - District 5",
			Description: "Labor costs are 2.3% above budget for the week. Review scheduling optimization.",
			Severity:    "medium",
			Action:      "Review shift schedules and consider early releases during low traffic",
		},
		{
			ID:          "alert_003",
			Title:       "Inventory Shortage - Honey Walnut Shrimp",
			Description: "Projected stockout by Thursday based on current sales velocity.",
			Severity:    "high",
			Action:      "Coordinate with supply chain for emergency delivery",
		},
	}
}
