package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/agenthands/forkcast/internal/config"
	"github.com/agenthands/forkcast/internal/core"
	"github.com/agenthands/forkcast/internal/core/model"
	"github.com/agenthands/forkcast/internal/llm"
	"github.com/agenthands/forkcast/internal/logging"
	"github.com/agenthands/forkcast/internal/maps"
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
	pipeline := core.NewPipeline(llmClient, maps.NewGoogleClient(cfg.Maps.APIKey), cfg)

	fmt.Println("\nAI assistant for group dining! (Type 'exit' to quit)")
	fmt.Println("\nEnter your input in the following format:")
	fmt.Println("Annie is in Midtown, NYC and likes cheap Thai and Indian food and will walk. Bob is in East Village, NYC and likes Japanese and Thai food of cheap to midrange price.")
	fmt.Println("\nAfter I provide recommendations, feel free to ask followup questions!")
	fmt.Println("Examples: 'What about Italian instead?', 'Add Sarah to the group', 'What are the hours for the first restaurant?'")
	fmt.Println(strings.Repeat("-", 50))

	state := model.NewTurnState()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\nEnter a message: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		if strings.EqualFold(input, "exit") {
			fmt.Println("Goodbye!")
			return
		}
		if input == "" {
			fmt.Println("Please enter a valid input")
			continue
		}

		state = pipeline.RunTurn(context.Background(), state, input)

		if state.FinalSuggestions != "" {
			fmt.Println("\nResponse:")
			fmt.Println(state.FinalSuggestions)
			fmt.Println(strings.Repeat("-", 50))
		}
		if state.NeedsNewSearch {
			fmt.Println("Performed new restaurant search")
		}
	}
}
