package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"ride_hailing/internal/apperr"
	"ride_hailing/internal/middleware"
	"ride_hailing/internal/services"
)

// respondError renders err as {success:false, message}; unexpected failures
// are logged and carry their detail under "error".
func respondError(c *gin.Context, err error) {
	e := apperr.From(err)
	body := gin.H{"success": false, "message": e.Message}

	if e.Kind == apperr.KindServer {
		entry := logrus.WithFields(logrus.Fields{"method": c.Request.Method, "path": c.FullPath()})
		if e.Err != nil {
			entry = entry.WithError(e.Err)
			body["error"] = e.Err.Error()
		}
		entry.Error("request failed")
	}

	c.JSON(e.Status, body)
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperr.Validation("Invalid request body: "+err.Error()))
		return false
	}
	return true
}

// paramID parses the :id path parameter, answering 400 when it is malformed.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respondError(c, apperr.Validation("Invalid ID format."))
		return 0, false
	}
	return uint(id), true
}

// requester returns the authenticated caller set by middleware.RequireAuth.
func requester(c *gin.Context) services.Requester {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return services.Requester{}
	}
	return services.Requester{ID: claims.ID, Role: claims.Role}
}
