package models

type ChartType string

const (
	ChartPie  ChartType = "pie"
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
)

type ChartGroup string

const (
	GroupByCategory ChartGroup = "category"
	GroupByMonth    ChartGroup = "month"
	GroupByDay      ChartGroup = "day"
)

type ChartRequest struct {
	ChartType ChartType  `json:"chart_type" validate:"required,oneof=pie bar line"`
	DateFrom  Timestamp  `json:"date_from"`
	DateTo    Timestamp  `json:"date_to"`
	GroupBy   ChartGroup `json:"group_by,omitempty" validate:"omitempty,oneof=category month day"`
}

// ChartResult carries a base64-encoded PNG and the figures it was drawn from.
type ChartResult struct {
	ChartImage  string             `json:"chart_image" validate:"required,base64"`
	DataSummary map[string]float64 `json:"data_summary"`
	TotalAmount float64            `json:"total_amount"`
}
