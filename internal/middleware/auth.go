package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/KalaiSelvam31/Fuel-Prediction/internal/config"
	"github.com/KalaiSelvam31/Fuel-Prediction/internal/models"
	"github.com/KalaiSelvam31/Fuel-Prediction/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const currentUserKey = "currentUser"

// AuthMiddleware validates the bearer token and puts the resolved user into
// the context. Invalid or expired tokens are a 401 with a Bearer challenge;
// a valid token whose subject no longer exists is a distinct 404, since a
// token can outlive the account it was issued for.
func AuthMiddleware(cfg config.JWTConfig, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		if tokenStr == "" {
			util.AbortWithChallenge(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		username, err := util.ParseToken(cfg.Secret, cfg.Algorithm, tokenStr)
		if err != nil {
			util.AbortWithChallenge(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		var user models.User
		if err := db.Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			} else {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Failed to look up user"})
			}
			return
		}

		c.Set(currentUserKey, &user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by AuthMiddleware, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
