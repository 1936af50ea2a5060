package main

import (
	"log"

	"github.com/ehub-dev/learning-hub/internal/bootstrap"
	"github.com/ehub-dev/learning-hub/internal/config"
	"github.com/ehub-dev/learning-hub/internal/server"
	"github.com/ehub-dev/learning-hub/pkg/database"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedGroups(db); err != nil {
		log.Fatalf("failed to seed groups: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
		if err := bootstrap.SeedTestUsers(db); err != nil {
			log.Fatalf("failed to seed test users: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
	}

	srv := server.NewServer(db, redisClient, cfg)

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
