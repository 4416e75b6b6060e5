package main

import (
	"log"

	"doctor-manager-backend/internal/app"
	"doctor-manager-backend/internal/config"
	"doctor-manager-backend/internal/database"
	"doctor-manager-backend/internal/storage"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	store := storage.New(database.DB)
	server := app.New(cfg, store)

	log.Println("Server running on port:", cfg.HTTPPort)
	if err := server.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
