package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/agenthands/forkcast/internal/config"
	"github.com/agenthands/forkcast/internal/core"
	"github.com/agenthands/forkcast/internal/llm"
	"github.com/agenthands/forkcast/internal/logging"
	"github.com/agenthands/forkcast/internal/maps"
	"github.com/agenthands/forkcast/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}
	logging.Setup()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Could not load %s: %v. Using defaults", cfgPath, err)
		cfg = config.Default()
	}
	cfg.ApplyEnv()

	llmClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	mapsClient := maps.NewGoogleClient(cfg.Maps.APIKey)

	pipeline := core.NewPipeline(llmClient, mapsClient, cfg)
	srv := server.NewServer(pipeline)
	r := srv.SetupRouter()

	log.Printf("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal(err)
	}
}
