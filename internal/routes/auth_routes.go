package routes

import (
	"github.com/gin-gonic/gin"

	"ride_hailing/internal/middleware"
	"ride_hailing/internal/models"
)

func AuthRoutes(r *gin.Engine, d Deps) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/login", d.Auth.Login)
		auth.POST("/upload-license-images", d.Auth.UploadLicenseImages)
	}

	protected := auth.Group("")
	protected.Use(d.JWT.RequireAuth())
	{
		protected.POST("/approve-driver", middleware.RequireRole(models.RoleAdmin), d.Auth.ApproveDriver)
		protected.GET("/users", middleware.RequireRole(models.RoleAdmin), d.Auth.ListUsers)

		self := middleware.RequireSelfOrRole("id", models.RoleAdmin)
		protected.GET("/users/:id", self, d.Auth.GetUser)
		protected.PUT("/users/:id", self, d.Auth.UpdateUser)
		protected.DELETE("/users/:id", self, d.Auth.DeleteUser)
	}
}
