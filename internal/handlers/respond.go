// Package handlers is the HTTP surface. Handlers bind and validate request
// payloads, hand everything to the services with an explicit actor, and map
// typed errors to status codes. No business rules live here.
package handlers

import (
	"log"
	"net/http"
	"time"

	"rental-portal/internal/apperr"

	"github.com/gin-gonic/gin"
)

// fail writes the error response for a service error. Internal errors are
// logged with their cause and surface a generic message only.
func fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// parseDate accepts "2006-01-02" or RFC3339 timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
