package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// rootHandler answers health probes.
func rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "afyacare"})
}

// SetupRootRoute sets up the root route for the application.
func SetupRootRoute(router *gin.Engine) {
	router.GET("/", rootHandler)
}
