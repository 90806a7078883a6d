package main

import (
	"fmt"
	"log"

	"github.com/KalaiSelvam31/Fuel-Prediction/internal/config"
	"github.com/KalaiSelvam31/Fuel-Prediction/internal/database"
	"github.com/KalaiSelvam31/Fuel-Prediction/internal/ml"
	"github.com/KalaiSelvam31/Fuel-Prediction/internal/router"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// load the model bundle; the service still starts without it so auth
	// and health keep working, predictions fail fast until artifacts exist
	mlSvc := ml.NewService()
	if err := mlSvc.LoadModel(cfg.Model.Dir); err != nil {
		log.Printf("model not loaded: %v", err)
	} else {
		m := mlSvc.Metrics()
		log.Printf("fuel prediction model loaded: %d input features, %d output properties",
			m.InputFeaturesCount, m.OutputPropertiesCount)
	}

	// setup router
	r := router.SetupRouter(cfg, db, mlSvc)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
