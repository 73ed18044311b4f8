package dto

// InsightSeverity grades how strongly a rule fired.
type InsightSeverity string

const (
	SeverityInfo     InsightSeverity = "info"
	SeverityWarning  InsightSeverity = "warning"
	SeverityCritical InsightSeverity = "critical"
	SeverityPositive InsightSeverity = "positive"
)

// Insight is one finding from the rule-based trade analyzer.
type Insight struct {
	Rule     string             `json:"rule"`
	Severity InsightSeverity    `json:"severity"`
	Message  string             `json:"message"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
}

// AnalysisResponse is the full analyzer output for a user's journal.
type AnalysisResponse struct {
	ClosedTrades    int       `json:"closed_trades"`
	DisciplineScore int       `json:"discipline_score"`
	Insights        []Insight `json:"insights"`
}
