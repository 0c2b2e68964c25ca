// Package analytics serves the P&L reporting data behind the dashboard's
// trend and store views. Data comes from the warehouse's pre-aggregated
// summary tables; this package never computes financial figures itself.
package analytics

// KPI is one headline metric on the dashboard.
type KPI struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Change float64 `json:"change"`
	Period string  `json:"period"`
}

// MonthlySummary is one row of the monthly performance trend.
type MonthlySummary struct {
	PeriodID        string  `json:"periodId"`
	MonthYear       string  `json:"monthYear"`
	StoreCount      int     `json:"storeCount"`
	TotalRevenue    float64 `json:"totalRevenue"`
	RevenuePlan     float64 `json:"revenuePlan"`
	NetIncome       float64 `json:"netIncome"`
	NetIncomePlan   float64 `json:"netIncomePlan"`
	COGSPct         float64 `json:"cogsPctOfSales"`
	LaborPct        float64 `json:"laborPctOfSales"`
	GrossMarginPct  float64 `json:"grossMarginPct"`
	EBITDAMarginPct float64 `json:"ebitdaMarginPct"`
}

// StoreSummary is the per-store performance rollup.
type StoreSummary struct {
	StoreNumber     string  `json:"storeNumber"`
	StoreName       string  `json:"storeName"`
	State           string  `json:"state"`
	Region          string  `json:"region"`
	SquareFeet      float64 `json:"squareFeet"`
	StoreType       string  `json:"storeType"`
	PeriodsCount    int     `json:"periodsCount"`
	TotalRevenue    float64 `json:"totalRevenue"`
	AvgRevenue      float64 `json:"avgPeriodRevenue"`
	TotalCOGS       float64 `json:"totalCogs"`
	TotalLabor      float64 `json:"totalLabor"`
	TotalOpex       float64 `json:"totalOpex"`
	NetIncome       float64 `json:"netIncome"`
	LaborPct        float64 `json:"laborPctOfSales"`
	EBITDAMarginPct float64 `json:"ebitdaMarginPct"`
	SalesPerSqFt    float64 `json:"salesPerSqFt"`
}

// TopStore is the reduced row returned by the top-stores ranking.
type TopStore struct {
	StoreNumber     string  `json:"storeNumber"`
	StoreName       string  `json:"storeName"`
	State           string  `json:"state"`
	Region          string  `json:"region"`
	TotalRevenue    float64 `json:"totalRevenue"`
	EBITDAMarginPct float64 `json:"ebitdaMarginPct"`
	LaborPct        float64 `json:"laborPctOfSales"`
	SalesPerSqFt    float64 `json:"salesPerSqFt"`
}

// Alert is an operational alert surfaced to store managers.
type Alert struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Action      string `json:"action"`
	StoreID     string `json:"storeId,omitempty"`
}
