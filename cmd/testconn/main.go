package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ngphhnam/ollama/internal/config"
	"github.com/ngphhnam/ollama/internal/llm"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := config.Load()

	fmt.Println("Connecting to Ollama at:", cfg.OllamaBaseURL)

	ollama := llm.NewOllama(llm.OllamaConfig{
		BaseURL:      cfg.OllamaBaseURL,
		DefaultModel: cfg.OllamaModel,
		Timeout:      cfg.OllamaTimeout,
	})
	if err := ollama.Probe(ctx); err != nil {
		fmt.Printf("Error pinging Ollama: %v\n", err)
	} else {
		fmt.Println("Ollama connection successful!")

		models, err := ollama.Models(ctx)
		if err != nil {
			fmt.Printf("Error listing models: %v\n", err)
		} else {
			fmt.Printf("Installed models: %v\n", models)
		}
	}

	google, err := llm.NewGoogleAI(ctx, llm.GoogleAIConfig{
		APIKey:         cfg.GoogleAIAPIKey,
		DefaultModel:   cfg.GoogleAIModel,
		FallbackModels: cfg.GoogleAIFallbackModels,
	})
	if err != nil {
		fmt.Printf("Error creating Google AI client: %v\n", err)
		return
	}
	defer google.Close()

	if !google.Configured() {
		fmt.Println("Google AI not configured:", google.ConfigErr())
		return
	}

	fmt.Println("Connecting to Google AI Studio...")
	if err := google.Probe(ctx); err != nil {
		fmt.Printf("Error pinging Google AI: %v\n", err)
		return
	}
	fmt.Println("Google AI connection successful!")
}
