package routes

import (
	"github.com/gin-gonic/gin"

	"ride_hailing/internal/middleware"
	"ride_hailing/internal/models"
)

func DriverRoutes(r *gin.Engine, d Deps) {
	driver := r.Group("/drivers")
	driver.Use(d.JWT.RequireAuth(), middleware.RequireRole(models.RoleAdmin))
	{
		driver.POST("", d.Drivers.CreateDriver)
		driver.GET("", d.Drivers.ListDrivers)
		driver.GET("/:id", d.Drivers.GetDriver)
		driver.PUT("/:id", d.Drivers.UpdateDriver)
		driver.DELETE("/:id", d.Drivers.DeleteDriver)
	}
}
