package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ride_hailing/internal/services"
)

// DriverController exposes driver promotion and profile management to admins.
type DriverController struct {
	drivers *services.DriverService
}

func NewDriverController(drivers *services.DriverService) *DriverController {
	return &DriverController{drivers: drivers}
}

func (dc *DriverController) CreateDriver(c *gin.Context) {
	var input services.CreateDriverInput
	if !bindJSON(c, &input) {
		return
	}

	driver, err := dc.drivers.CreateDriver(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Driver created successfully",
		"data":    driver,
	})
}

// ListDrivers fetches all users with the driver role and their profiles.
func (dc *DriverController) ListDrivers(c *gin.Context) {
	drivers, err := dc.drivers.GetAllDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": drivers})
}

func (dc *DriverController) GetDriver(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	driver, err := dc.drivers.GetDriverByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": driver})
}

func (dc *DriverController) UpdateDriver(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input services.UpdateDriverInput
	if !bindJSON(c, &input) {
		return
	}

	driver, err := dc.drivers.UpdateDriver(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Driver updated successfully",
		"data":    driver,
	})
}

// DeleteDriver demotes the driver to a regular user; the account is kept.
func (dc *DriverController) DeleteDriver(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := dc.drivers.DeleteDriver(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Driver deleted successfully"})
}
