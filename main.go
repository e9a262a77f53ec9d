package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"dentalcare-connect-server/internal/assistant"
	"dentalcare-connect-server/internal/config"
	"dentalcare-connect-server/internal/models"
	"dentalcare-connect-server/internal/routes"
	"dentalcare-connect-server/internal/scheduling"
	"dentalcare-connect-server/internal/seed"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	if err := seed.Run(db, cfg.PrimaryDoctorID, cfg.SeedDemoData); err != nil {
		log.Fatalf("Error seeding data: %v", err)
	}

	// Per-doctor booking lock: Redis-backed across processes when
	// configured, otherwise in-process.
	var locker scheduling.Locker
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		locker = scheduling.NewRedisLocker(client, time.Duration(cfg.LockTTLSeconds)*time.Second)
		log.Printf("Using Redis booking lock at %s", cfg.Redis.Addr)
	} else {
		locker = scheduling.NewLocalLocker()
		log.Println("Using in-process booking lock")
	}

	// Text-generation collaborator. A missing key is a configuration
	// failure the assistant degrades from, not a startup error.
	var gen assistant.TextGenerator
	if cfg.Gemini.APIKey != "" {
		gemini, err := assistant.NewGeminiGenerator(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.ModelID)
		if err != nil {
			log.Printf("Assistant disabled: %v", err)
		} else {
			defer gemini.Close()
			gen = gemini
		}
	} else {
		log.Println("GEMINI_API_KEY not set; assistant will reply with its fallback message")
	}

	// Initialize Gin router
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, db, cfg, locker, gen)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	fmt.Printf("Server running on port %s\n", cfg.Port)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
