package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ride_hailing/internal/controllers"
	"ride_hailing/internal/middleware"
)

// Deps carries everything the route groups are wired to.
type Deps struct {
	Auth      *controllers.AuthController
	Drivers   *controllers.DriverController
	JWT       *middleware.JWT
	UploadDir string
	// AccessLog runs first on every request when set.
	AccessLog gin.HandlerFunc
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	if d.AccessLog != nil {
		r.Use(d.AccessLog)
	}
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}

	AuthRoutes(r, d)
	DriverRoutes(r, d)

	return r
}
