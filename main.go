package main

import (
	"github.com/flowva/rewards-hub/config"
	"github.com/flowva/rewards-hub/models"
	"github.com/flowva/rewards-hub/routes"
	"github.com/flowva/rewards-hub/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.Account{},
		&models.Reward{},
		&models.LedgerEntry{},
		&models.CheckIn{},
		&models.Redemption{},
		&models.ReferralCredit{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
