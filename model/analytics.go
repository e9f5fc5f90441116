package model

import "time"

// SearchEvent represents a single search event for analytics tracking
type SearchEvent struct {
	Query        string        `json:"query"`
	Phase        string        `json:"phase"` // "strict", "fuzzy", "all", or "" when nothing matched
	Filtered     bool          `json:"filtered"`
	Sorted       bool          `json:"sorted"`
	ResponseTime time.Duration `json:"response_time"`
	ResultCount  int           `json:"result_count"`
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularSearch represents aggregated data for a normalized search term
type PopularSearch struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

// ResponseTimeDistribution represents response time distribution buckets
type ResponseTimeDistribution struct {
	Bucket0To5ms      int     `json:"bucket_0_5ms"`
	Bucket5To25ms     int     `json:"bucket_5_25ms"`
	Bucket25To100ms   int     `json:"bucket_25_100ms"`
	Bucket100msPlus   int     `json:"bucket_100ms_plus"`
	Percentage0To5    float64 `json:"percentage_0_5"`
	Percentage5To25   float64 `json:"percentage_5_25"`
	Percentage25To100 float64 `json:"percentage_25_100"`
	Percentage100Plus float64 `json:"percentage_100_plus"`
}

// SearchPhaseStats counts searches by how they matched
type SearchPhaseStats struct {
	Strict    int `json:"strict"`
	Fuzzy     int `json:"fuzzy"`
	Browse    int `json:"browse"`
	NoResults int `json:"no_results"`
	Filtered  int `json:"filtered"`
	Sorted    int `json:"sorted"`
}

// SearchPerformanceHourly represents hourly search performance data
type SearchPerformanceHourly struct {
	Hour            int   `json:"hour"`
	SearchCount     int   `json:"search_count"`
	AvgResponseTime int64 `json:"avg_response_time"` // in milliseconds
}

// AnalyticsDashboard represents the complete analytics dashboard data
type AnalyticsDashboard struct {
	// Summary metrics over the last 24 hours
	TotalSearches         int     `json:"total_searches"`
	SearchesChangePercent float64 `json:"searches_change_percent"` // versus the 24 hours before
	AvgResponseTime       int64   `json:"avg_response_time"`       // in milliseconds
	ResponseTimeChange    string  `json:"response_time_change"`    // "up", "down" or "stable"
	FuzzyRate             float64 `json:"fuzzy_rate"`              // share of text searches answered by the fuzzy phase
	CatalogVehicles       int     `json:"catalog_vehicles"`

	// Detailed analytics
	SearchPerformance24h     []SearchPerformanceHourly `json:"search_performance_24h"`
	PopularSearches          []PopularSearch           `json:"popular_searches"`     // last 7 days
	ZeroResultSearches       []PopularSearch           `json:"zero_result_searches"` // last 7 days
	ResponseTimeDistribution ResponseTimeDistribution  `json:"response_time_distribution"`
	Phases                   SearchPhaseStats          `json:"phases"`
}
