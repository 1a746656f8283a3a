package main

import (
	"log"

	"hiring-backend/internal/bootstrap"
	"hiring-backend/internal/shared/config"
	"hiring-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("starting API server env=%s addr=%s", cfg.Env, addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
