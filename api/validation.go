// Package api provides the HTTP surface of the catalog: handlers, middleware and request validation.
package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-catalog-search/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateVehicleID validates a vehicle ID path parameter
func ValidateVehicleID(vehicleID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if vehicleID == "" {
		result.AddError("vehicleId", "Vehicle ID is required")
		return result
	}

	if strings.TrimSpace(vehicleID) != vehicleID {
		result.AddError("vehicleId", "Vehicle ID cannot have leading or trailing whitespace")
		return result
	}

	return result
}

// ValidateListKind resolves a list name path parameter
func ValidateListKind(name string) (model.ListKind, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	kind, ok := model.ParseListKind(name)
	if !ok {
		result.AddError("kind", fmt.Sprintf("Unknown list '%s', expected 'favorites' or 'comparison'", name))
	}
	return kind, result
}

// ValidateVehicles validates a replacement catalog
func ValidateVehicles(vehicles []model.Vehicle) *ValidationResult {
	result := &ValidationResult{Valid: true}

	seen := make(map[string]int, len(vehicles))
	for i, v := range vehicles {
		field := fmt.Sprintf("vehicles[%d].id", i)
		if strings.TrimSpace(v.ID) == "" {
			result.AddError(field, "Vehicle ID cannot be empty or whitespace-only")
			continue
		}
		if first, dup := seen[v.ID]; dup {
			result.AddError(field, fmt.Sprintf("Duplicate vehicle ID '%s' (first seen at index %d)", v.ID, first))
			continue
		}
		seen[v.ID] = i
	}

	return result
}

// ValidatePagination validates pagination parameters
func ValidatePagination(page, pageSize, maxPageSize int) (int, int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	if page < 0 {
		result.AddError("page", "Page number cannot be negative")
	}
	if pageSize < 0 {
		result.AddError("page_size", "Page size cannot be negative")
	}

	// Set defaults
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 10
	}
	if maxPageSize > 0 && pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return page, pageSize, result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}

// ValidateJSONBinding validates JSON binding and returns a standardized error
func ValidateJSONBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindJSON(target); err != nil {
		result.AddError("request_body", "Invalid request body: "+err.Error())
	}

	return result
}

// ValidateQueryBinding validates query parameter binding
func ValidateQueryBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindQuery(target); err != nil {
		result.AddError("query_parameters", "Invalid query parameters: "+err.Error())
	}

	return result
}
