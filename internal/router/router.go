package router

import (
	"github.com/KalaiSelvam31/Fuel-Prediction/internal/config"
	"github.com/KalaiSelvam31/Fuel-Prediction/internal/handler"
	"github.com/KalaiSelvam31/Fuel-Prediction/internal/middleware"
	"github.com/KalaiSelvam31/Fuel-Prediction/internal/ml"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and wires all routes.
func SetupRouter(cfg *config.Config, db *gorm.DB, mlSvc *ml.Service) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// permissive CORS: any origin, with credentials. AllowOriginFunc is
	// required because gin-contrib/cors rejects AllowAllOrigins combined
	// with AllowCredentials.
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	predictHandler := handler.NewPredictHandler(mlSvc)
	r.GET("/", handler.Root)
	r.GET("/health", predictHandler.Health)

	requireAuth := middleware.AuthMiddleware(cfg.JWT, db)

	authHandler := handler.NewAuthHandler(db, cfg)
	auth := r.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/token", authHandler.Login)
	auth.GET("/me", requireAuth, authHandler.Me)

	api := r.Group("/api")
	api.Use(requireAuth)
	api.POST("/predict/fuel", predictHandler.Predict)

	return r
}
