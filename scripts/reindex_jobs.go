package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"alfredoptarigan/job-portal/internal/config"
	"alfredoptarigan/job-portal/internal/repositories"
	"alfredoptarigan/job-portal/internal/services"
)

const reindexBatch = 1000

func main() {
	log.Println("🚀 Starting job reindex...")

	// Load configuration
	cfg := config.Load()
	if !cfg.SemanticSearchEnabled() {
		log.Fatalf("❌ GEMINI_API_KEY and QDRANT_URL must be set to reindex jobs")
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	jobRepo := repositories.NewJobRepository(db)

	ctx := context.Background()

	// Initialize services
	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	jobs, err := jobRepo.ListOpen(ctx, time.Now(), reindexBatch)
	if err != nil {
		log.Fatalf("❌ Failed to list open jobs: %v", err)
	}
	log.Printf("📄 Found %d open jobs", len(jobs))

	promptBuilder := services.NewPromptBuilder()
	successCount := 0
	failCount := 0

	for i := range jobs {
		job := &jobs[i]

		embedding, err := geminiService.GenerateEmbedding(ctx, promptBuilder.BuildJobEmbeddingText(job))
		if err != nil {
			log.Printf("   ❌ Failed to embed %s (%s): %v", job.Title, job.ID, err)
			failCount++
			continue
		}

		if err := qdrantService.UpsertJob(ctx, job.ID, job.Title, embedding); err != nil {
			log.Printf("   ❌ Failed to store %s (%s): %v", job.Title, job.ID, err)
			failCount++
			continue
		}

		successCount++
		if successCount%25 == 0 || i == len(jobs)-1 {
			log.Printf("   📊 Progress: %d/%d jobs indexed", successCount, len(jobs))
		}
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Reindex Summary:")
	log.Printf("   ✅ Indexed: %d jobs", successCount)
	log.Printf("   ❌ Failed: %d jobs", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some jobs failed to index. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All open jobs indexed successfully!")
}
