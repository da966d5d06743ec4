package tracing

// Span names.
const (
	SpanChartUpdate = "chart.update"
	SpanChartQuery  = "chart.query"
	SpanChartDrift  = "chart.drift"
)

// Span attribute keys.
const (
	AttrChartIdentity = "chart.identity"
	AttrChartState    = "chart.state"
	AttrChartDynamic  = "chart.dynamic"
	AttrSeriesCount   = "chart.series.count"
	AttrPaletteOffset = "chart.palette.offset"

	AttrErrorMessage = "error.message"
)
