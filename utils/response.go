package utils

import (
	"github.com/gin-gonic/gin"
)

// RespondWithError aborts the request with a JSON {"error": message} body.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// RespondWithValidation aborts with the list of field problems.
func RespondWithValidation(c *gin.Context, status int, problems any) {
	c.AbortWithStatusJSON(status, gin.H{"error": "validation failed", "fields": problems})
}
