package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ride_hailing/internal/services"
)

func (ac *AuthController) ListUsers(c *gin.Context) {
	users, err := ac.auth.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

func (ac *AuthController) GetUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	user, err := ac.auth.GetOneUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (ac *AuthController) UpdateUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input services.UpdateUserInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := ac.auth.UpdateUser(c.Request.Context(), requester(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"user":    user,
	})
}

func (ac *AuthController) DeleteUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := ac.auth.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}
