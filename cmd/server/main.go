package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/evergreen-care/melodymind/internal/config"
	"github.com/evergreen-care/melodymind/internal/inference"
	"github.com/evergreen-care/melodymind/internal/lastfm"
	"github.com/evergreen-care/melodymind/internal/playlist"
	"github.com/evergreen-care/melodymind/internal/server"
)

func main() {

	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize Gemini client
	geminiClient, err := inference.NewGeminiClient(cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer geminiClient.Close()

	lastfmClient := lastfm.NewClient(cfg.LastFMAPIKey, "")
	builder := playlist.NewBuilder(lastfmClient)

	handler := server.NewHandler(geminiClient, builder)

	router := gin.Default()
	handler.RegisterRoutes(router)

	// Everything that is not the API serves the single-page frontend.
	router.NoRoute(func(c *gin.Context) {
		c.File("web/index.html")
	})

	log.Printf("MelodyMind starting on port %s", cfg.Port)
	log.Printf("Playlist endpoint available at: http://localhost:%s/api/generate-playlist", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
