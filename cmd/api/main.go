// server/cmd/api/main.go
package main

import (
	"context"
	"time"

	"garage-ops-api-server/config"
	"garage-ops-api-server/internal/api/routes"
	"garage-ops-api-server/internal/auth"
	"garage-ops-api-server/internal/cleanup"
	"garage-ops-api-server/internal/database"
	"garage-ops-api-server/internal/s3"
	"garage-ops-api-server/internal/socket"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, reading configuration from environment")
	}

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, err := database.Connect(cfg.Mongo.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.Mongo.DBName)
	log.Info("Connected to MongoDB")

	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	if err := database.SeedAdmin(db); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
	if err := database.SeedVariations(db); err != nil {
		log.Fatalf("Failed to seed service catalog: %v", err)
	}

	authService := auth.NewService(cfg.JWT.Secret, cfg.JWT.Expiration)

	uploader, err := s3.NewUploader(cfg.S3)
	if err != nil {
		log.Fatalf("Failed to initialize S3 uploader: %v", err)
	}

	hub := socket.NewHub()

	sweepInterval, err := time.ParseDuration(cfg.Sweep.Interval)
	if err != nil {
		log.Warnf("Invalid sweep interval %q, using 1h", cfg.Sweep.Interval)
		sweepInterval = time.Hour
	}
	sweeper := cleanup.NewSweeper(db, sweepInterval)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Run(ctx)

	notificationTTL := time.Duration(cfg.Sweep.NotificationRetentionDays) * 24 * time.Hour
	conversationTTL := time.Duration(cfg.Sweep.ConversationRetentionDays) * 24 * time.Hour

	router := routes.SetupRouter(db, authService, uploader, hub, notificationTTL, conversationTTL)

	log.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
