package main

import (
	"context"
	"flag"
	"log"
	"time"

	"finopschat/ai"
	"finopschat/cache"
	"finopschat/config"
	"finopschat/db"
	_ "finopschat/docs" // Swagger docs
	"finopschat/handlers"
	"finopschat/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	seed := flag.Bool("seed", false, "create the analytical tables, load demo data and exit")
	flag.Parse()

	cfg := config.GetConfig()

	// Initialize analytical database (optional)
	var store *service.Store
	if cfg.PostgresDSN != "" {
		var err error
		store, err = service.NewStore(cfg.PostgresDSN)
		if err != nil {
			log.Printf("Warning: Failed to connect to Postgres: %v", err)
			log.Println("SQL-backed answers will be unavailable, falling back to canned responses")
		} else {
			defer store.Close()
			log.Println("Postgres connection initialized successfully")
		}
	}

	if *seed {
		if store == nil {
			log.Fatal("Seeding requires POSTGRES_DSN to be set")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := store.Seed(ctx); err != nil {
			log.Fatalf("Seed failed: %v", err)
		}
		return
	}

	// Initialize conversation database
	database, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Initialize cache
	appCache := cache.New()

	// Initialize AI client (optional)
	var generator ai.Generator
	aiService, err := ai.New(cfg.AIAPIKey, cfg.AIModel, cfg.AIBaseURL, appCache)
	if err != nil {
		log.Printf("Warning: Failed to initialize AI service: %v", err)
		log.Println("AI features will be unavailable, falling back to canned responses")
	} else {
		defer aiService.Close()
		generator = aiService
	}

	planner := service.NewPlanner(generator)
	narrator := service.NewNarrator(generator)

	enabled := cfg.UseAgenticSQL && generator != nil && store != nil
	responder := service.NewResponder(planner, narrator, store, enabled)

	// Initialize handlers
	h := handlers.New(database, responder, store)

	// Setup Gin router
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsConfig))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Routes
	r.GET("/health", h.HealthHandler)
	r.POST("/api/chat", h.ChatHandler)

	r.GET("/api/conversations", h.ListConversationsHandler)
	r.PATCH("/api/conversations/:id", h.UpdateConversationHandler)
	r.DELETE("/api/conversations/:id", h.DeleteConversationHandler)
	r.GET("/api/conversations/:id/messages", h.GetMessagesHandler)
	r.POST("/api/conversations/:id/messages", h.PostMessageHandler)

	r.PATCH("/api/messages/:id/feedback", h.MessageFeedbackHandler)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
