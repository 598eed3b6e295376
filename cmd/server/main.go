package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/loggpt/components-room/internal/config"
	"github.com/loggpt/components-room/internal/db"
	"github.com/loggpt/components-room/internal/httpapi"
	"github.com/loggpt/components-room/internal/store/redisstore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file, using environment")
	}

	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)
	db.Migrate(gdb)

	var rds *redisstore.Store
	if cfg.RedisAddr != "" {
		rds = redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rds.Ping(context.Background()); err != nil {
			log.Fatalf("redis ping: %v", err)
		}
	}

	e := httpapi.NewRouter(gdb, cfg, rds)
	log.Printf("listening on %s", cfg.ListenAddr)
	if err := e.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
