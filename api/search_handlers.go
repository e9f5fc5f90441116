package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-catalog-search/model"
	"github.com/gcbaptista/go-catalog-search/services"
)

// SearchRequest defines the structure for search queries.
type SearchRequest struct {
	Query                    string            `json:"query"`
	Filters                  *services.Filters `json:"filters,omitempty"`
	SortBy                   string            `json:"sort_by,omitempty"`
	SortOrder                string            `json:"sort_order,omitempty"`
	Page                     int               `json:"page"`
	PageSize                 int               `json:"page_size"`
	RestrictSearchableFields []string          `json:"restrict_searchable_fields,omitempty"`
	Threshold                *float64          `json:"threshold,omitempty"` // Optional: override the configured fuzzy threshold
}

// SearchHandler handles search requests against the catalog.
// Request Body: SearchRequest. An empty query browses the whole catalog.
func (api *API) SearchHandler(c *gin.Context) {
	startTime := time.Now()
	var req SearchRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}

	if result := validateSearchRequest(req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	searchQuery := services.SearchQuery{
		QueryString:              req.Query,
		Filters:                  req.Filters,
		SortBy:                   req.SortBy,
		SortOrder:                req.SortOrder,
		Page:                     req.Page,
		PageSize:                 req.PageSize,
		RestrictSearchableFields: req.RestrictSearchableFields,
		Threshold:                req.Threshold,
	}

	results, err := api.catalog.Search(searchQuery)
	if err != nil {
		SendCatalogError(c, "search", err)
		return
	}

	event := model.SearchEvent{
		Query:        req.Query,
		Phase:        results.Phase,
		Filtered:     req.Filters != nil,
		Sorted:       req.SortBy != "",
		ResponseTime: time.Since(startTime),
		ResultCount:  results.Total,
	}

	// Track the event asynchronously to avoid slowing down the response
	go func() {
		if err := api.analytics.TrackSearchEvent(event); err != nil {
			api.logger.WithError(err).Warn("failed to track search event")
		}
	}()

	c.JSON(http.StatusOK, results)
}

func validateSearchRequest(req SearchRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if req.Page < 0 {
		result.AddError("page", "Page number cannot be negative")
	}
	if req.PageSize < 0 {
		result.AddError("page_size", "Page size cannot be negative")
	}
	if req.Threshold != nil && (*req.Threshold < 0 || *req.Threshold > 1) {
		result.AddError("threshold", "Threshold must be between 0 and 1")
	}

	return result
}
