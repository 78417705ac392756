package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ngphhnam/ollama/internal/config"
)

// Smoke test against a running instance. Starts from the health route, then
// pushes one transcription through the v1 scoring path and checks the result
// carries a full set of band scores.
func main() {
	cfg := config.Load()
	base := fmt.Sprintf("http://localhost:%s", cfg.Port)

	log.Printf("Probing llama service at %s", base)

	client := &http.Client{Timeout: 5 * time.Second}

	// Retry loop for server startup
	var resp *http.Response
	var err error
	for i := 0; i < 10; i++ {
		resp, err = client.Get(base + "/health")
		if err == nil {
			break
		}
		log.Printf("Waiting for server... %v", err)
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		log.Fatalf("Health check failed after retries: %v", err)
	}
	defer resp.Body.Close()

	var health struct {
		Status          string `json:"status"`
		OllamaAvailable bool   `json:"ollama_available"`
		GoogleAvailable bool   `json:"google_ai_available"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		log.Fatalf("Failed to decode health response: %v", err)
	}
	log.Printf("Health: status=%s ollama=%v google_ai=%v", health.Status, health.OllamaAvailable, health.GoogleAvailable)

	if !health.OllamaAvailable {
		log.Fatal("Ollama backend unavailable, cannot exercise scoring path")
	}

	// 2. Call Scoring Endpoint
	log.Println("Calling scoring endpoint...")
	payload := map[string]interface{}{
		"transcription": "Well, I usually spend my weekends reading books or meeting friends at a cafe near my house. Sometimes I go hiking if the weather is nice.",
		"questionText":  "How do you usually spend your weekends?",
	}
	jsonBody, _ := json.Marshal(payload)

	scoreClient := &http.Client{Timeout: cfg.OllamaTimeout}
	req, _ := http.NewRequest("POST", base+"/api/score", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	scoreResp, err := scoreClient.Do(req)
	if err != nil {
		log.Fatalf("Score request failed: %v", err)
	}
	defer scoreResp.Body.Close()

	if scoreResp.StatusCode != 200 {
		buf := new(bytes.Buffer)
		buf.ReadFrom(scoreResp.Body)
		log.Fatalf("Expected 200 OK, got %d. Body: %s", scoreResp.StatusCode, buf.String())
	}

	// 3. Verify Score Shape
	log.Println("Verifying score payload...")
	var score struct {
		BandScore          float64 `json:"bandScore"`
		FluencyScore       float64 `json:"fluencyScore"`
		VocabularyScore    float64 `json:"vocabularyScore"`
		GrammarScore       float64 `json:"grammarScore"`
		PronunciationScore float64 `json:"pronunciationScore"`
		OverallFeedback    string  `json:"overallFeedback"`
	}
	if err := json.NewDecoder(scoreResp.Body).Decode(&score); err != nil {
		log.Fatalf("Failed to decode score response: %v", err)
	}

	bands := map[string]float64{
		"bandScore":          score.BandScore,
		"fluencyScore":       score.FluencyScore,
		"vocabularyScore":    score.VocabularyScore,
		"grammarScore":       score.GrammarScore,
		"pronunciationScore": score.PronunciationScore,
	}
	for name, band := range bands {
		if band < 0 || band > 9 {
			log.Fatalf("%s out of range: %v", name, band)
		}
	}
	if score.OverallFeedback == "" {
		log.Fatal("No overall feedback in score response!")
	}

	log.Printf("Scored band %.1f (fluency %.1f, vocabulary %.1f, grammar %.1f, pronunciation %.1f)",
		score.BandScore, score.FluencyScore, score.VocabularyScore, score.GrammarScore, score.PronunciationScore)
	log.Println("SUCCESS: Verified Health and Scoring Endpoints")
}
