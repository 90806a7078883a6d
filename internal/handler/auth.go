package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/KalaiSelvam31/Fuel-Prediction/internal/config"
	"github.com/KalaiSelvam31/Fuel-Prediction/internal/middleware"
	"github.com/KalaiSelvam31/Fuel-Prediction/internal/models"
	"github.com/KalaiSelvam31/Fuel-Prediction/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler serves registration and token issuance.
type AuthHandler struct {
	DB         *gorm.DB
	JWT        config.JWTConfig
	BcryptCost int
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		DB:         db,
		JWT:        cfg.JWT,
		BcryptCost: cfg.Security.BcryptCost,
	}
}

// TokenTTL returns the configured token lifetime.
func (h *AuthHandler) TokenTTL() time.Duration {
	minutes := h.JWT.ExpireMinutes
	if minutes <= 0 {
		minutes = 30
	}
	return time.Duration(minutes) * time.Minute
}

type registerReq struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new user. Duplicate email and duplicate username are
// reported separately; the stored password hash is never returned.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid registration payload")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("email = ?", req.Email).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to look up user")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, "Email already registered")
		return
	}

	if err := h.DB.Model(&models.User{}).
		Where("username = ?", req.Username).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to look up user")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, "Username already taken")
		return
	}

	hash, err := util.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		// two concurrent registrations can pass the checks above; the
		// unique indexes catch the loser here
		util.Error(c, http.StatusBadRequest, "Email or username already registered")
		return
	}

	c.JSON(http.StatusOK, user.Public())
}

// Login verifies form-encoded credentials and issues a bearer token.
// Unknown username and wrong password produce the identical response so the
// endpoint can't be used to enumerate accounts.
func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if username == "" || password == "" {
		util.AbortWithChallenge(c, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	var user models.User
	if err := h.DB.Where("username = ?", username).First(&user).Error; err != nil {
		util.AbortWithChallenge(c, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	if !util.CheckPassword(password, user.PasswordHash) {
		util.AbortWithChallenge(c, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	token, err := util.GenerateToken(h.JWT.Secret, h.JWT.Algorithm, user.Username, h.TokenTTL())
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Me returns the public view of the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.AbortWithChallenge(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	c.JSON(http.StatusOK, user.Public())
}
