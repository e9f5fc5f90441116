package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-catalog-search/model"
)

// listParams resolves and validates the :kind and, when wanted, :vehicleId path parameters.
func listParams(c *gin.Context, withVehicle bool) (model.ListKind, string, bool) {
	kind, result := ValidateListKind(c.Param("kind"))
	if result.HasErrors() {
		SendError(c, http.StatusNotFound, ErrorCodeUnknownList, result.Errors[0].Message)
		return "", "", false
	}

	if !withVehicle {
		return kind, "", true
	}

	vehicleID := c.Param("vehicleId")
	if result := ValidateVehicleID(vehicleID); result.HasErrors() {
		SendValidationError(c, result)
		return "", "", false
	}
	return kind, vehicleID, true
}

// GetListHandler returns the vehicles of a list in the order they were added.
func (api *API) GetListHandler(c *gin.Context) {
	kind, _, ok := listParams(c, false)
	if !ok {
		return
	}

	vehicles, err := api.catalog.List(kind)
	if err != nil {
		SendCatalogError(c, "get list", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"kind":     kind,
		"vehicles": vehicles,
		"total":    len(vehicles),
	})
}

// AddToListHandler adds a vehicle to a list. Adding a vehicle twice is not an error.
func (api *API) AddToListHandler(c *gin.Context) {
	kind, vehicleID, ok := listParams(c, true)
	if !ok {
		return
	}

	if err := api.catalog.AddToList(kind, vehicleID); err != nil {
		SendCatalogError(c, "update list", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle '" + vehicleID + "' added to " + string(kind)})
}

// RemoveFromListHandler removes a vehicle from a list.
func (api *API) RemoveFromListHandler(c *gin.Context) {
	kind, vehicleID, ok := listParams(c, true)
	if !ok {
		return
	}

	if err := api.catalog.RemoveFromList(kind, vehicleID); err != nil {
		SendCatalogError(c, "update list", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle '" + vehicleID + "' removed from " + string(kind)})
}

// ClearListHandler empties a list.
func (api *API) ClearListHandler(c *gin.Context) {
	kind, _, ok := listParams(c, false)
	if !ok {
		return
	}

	if err := api.catalog.ClearList(kind); err != nil {
		SendCatalogError(c, "clear list", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "List " + string(kind) + " cleared"})
}

// CompareHandler returns the comparison list's vehicles side by side.
func (api *API) CompareHandler(c *gin.Context) {
	vehicles := api.catalog.Compare()
	c.JSON(http.StatusOK, gin.H{
		"vehicles": vehicles,
		"limit":    api.catalog.Settings().ComparisonLimit,
	})
}
