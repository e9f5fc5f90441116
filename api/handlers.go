package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/go-catalog-search/internal/analytics"
	"github.com/gcbaptista/go-catalog-search/internal/ingest"
	"github.com/gcbaptista/go-catalog-search/internal/jobs"
	"github.com/gcbaptista/go-catalog-search/model"
	"github.com/gcbaptista/go-catalog-search/services"
)

// Dependencies are the optional collaborators of the API.
type Dependencies struct {
	// Analytics records searches. Nil uses an in-memory service.
	Analytics *analytics.Service
	// Jobs runs feed imports. Nil leaves the import and job routes unregistered.
	Jobs   *jobs.Manager
	Logger *logrus.Entry
}

// API holds dependencies for API handlers, primarily the catalog service.
type API struct {
	catalog   services.Catalog
	analytics *analytics.Service
	jobs      *jobs.Manager
	logger    *logrus.Entry
}

// NewAPI creates a new API handler structure.
func NewAPI(catalog services.Catalog, deps Dependencies) *API {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.WithField("component", "api")
	}
	analyticsService := deps.Analytics
	if analyticsService == nil {
		analyticsService = analytics.NewService(catalog, analytics.Options{Logger: logger})
	}

	return &API{
		catalog:   catalog,
		analytics: analyticsService,
		jobs:      deps.Jobs,
		logger:    logger,
	}
}

// SetupRoutes defines all the API routes for the catalog.
func SetupRoutes(router *gin.Engine, catalog services.Catalog, deps Dependencies) {
	apiHandler := NewAPI(catalog, deps)

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/stats", apiHandler.GetStatsHandler)
	router.GET("/settings", apiHandler.GetSettingsHandler)
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)

	// Vehicle routes
	vehicleRoutes := router.Group("/vehicles")
	{
		vehicleRoutes.GET("", apiHandler.ListVehiclesHandler)          // List vehicles with pagination
		vehicleRoutes.PUT("", apiHandler.ReplaceVehiclesHandler)       // Replace the catalog (JSON array or CSV feed)
		vehicleRoutes.GET("/:vehicleId", apiHandler.GetVehicleHandler) // Get specific vehicle
	}

	if apiHandler.jobs != nil {
		vehicleRoutes.POST("/_import", apiHandler.ImportFeedHandler) // Import a CSV feed in the background

		jobRoutes := router.Group("/jobs")
		{
			jobRoutes.GET("", apiHandler.ListJobsHandler)              // List jobs, optionally by status
			jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler) // Get job performance metrics
			jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)         // Get job status by ID
		}
	}

	router.POST("/_search", apiHandler.SearchHandler)

	// Favorites and comparison lists
	listRoutes := router.Group("/lists")
	{
		listRoutes.GET("/:kind", apiHandler.GetListHandler)
		listRoutes.DELETE("/:kind", apiHandler.ClearListHandler)
		listRoutes.PUT("/:kind/:vehicleId", apiHandler.AddToListHandler)
		listRoutes.DELETE("/:kind/:vehicleId", apiHandler.RemoveFromListHandler)
	}
	router.GET("/compare", apiHandler.CompareHandler)
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "go-catalog-search",
		"vehicles":  len(api.catalog.Vehicles()),
		"timestamp": time.Now().Unix(),
	})
}

// GetStatsHandler returns vehicle counts per class and brand and the list sizes.
func (api *API) GetStatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.catalog.Stats())
}

// GetSettingsHandler returns the active catalog settings.
func (api *API) GetSettingsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.catalog.Settings())
}

type paginationParams struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// ListVehiclesHandler returns the catalog in feed order, one page at a time.
// Query params: page (default 1), page_size (default 10, capped by the max page size)
func (api *API) ListVehiclesHandler(c *gin.Context) {
	var params paginationParams
	if result := ValidateQueryBinding(c, &params); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	page, pageSize, result := ValidatePagination(params.Page, params.PageSize, api.catalog.Settings().MaxPageSize)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	vehicles := api.catalog.Vehicles()
	total := len(vehicles)
	start := (page - 1) * pageSize
	end := start + pageSize

	pageVehicles := []model.Vehicle{}
	if start < total {
		if end > total {
			end = total
		}
		pageVehicles = vehicles[start:end]
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicles":  pageVehicles,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetVehicleHandler returns one vehicle by ID.
func (api *API) GetVehicleHandler(c *gin.Context) {
	vehicleID := c.Param("vehicleId")
	if result := ValidateVehicleID(vehicleID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	vehicle, err := api.catalog.Vehicle(vehicleID)
	if err != nil {
		SendCatalogError(c, "get vehicle", err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// ReplaceVehiclesHandler replaces the whole catalog.
// Request Body: a JSON array of vehicles, or a CSV feed when Content-Type is text/csv
func (api *API) ReplaceVehiclesHandler(c *gin.Context) {
	var vehicles []model.Vehicle

	if strings.HasPrefix(c.ContentType(), "text/csv") {
		parsed, err := ingest.ParseCSV(c.Request.Body)
		if err != nil {
			SendCatalogError(c, "parse feed", err)
			return
		}
		vehicles = parsed
	} else {
		if err := c.ShouldBindJSON(&vehicles); err != nil {
			SendInvalidJSONError(c, err)
			return
		}
		if result := ValidateVehicles(vehicles); result.HasErrors() {
			SendValidationError(c, result)
			return
		}
	}

	if err := api.catalog.Reload(vehicles); err != nil {
		SendCatalogError(c, "reload catalog", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Catalog replaced",
		"vehicles": len(vehicles),
	})
}
