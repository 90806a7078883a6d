package util

import "github.com/gin-gonic/gin"

// Error writes the uniform error body used across the API.
func Error(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail})
}

// AbortWithChallenge writes a 401-style error carrying the Bearer challenge
// hint and stops the handler chain.
func AbortWithChallenge(c *gin.Context, status int, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
