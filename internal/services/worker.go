package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/models"
	"alfredoptarigan/job-portal/internal/repositories"
)

// Worker keeps the vector index in step with job postings and expires jobs
// whose application deadline has passed.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(jobID uuid.UUID)
}

type worker struct {
	jobRepo       repositories.JobRepository
	gemini        GeminiService
	index         JobVectorIndex
	promptBuilder *PromptBuilder
	jobQueue      chan uuid.UUID
	concurrency   int
	sweepInterval time.Duration
	wg            sync.WaitGroup
	stopChan      chan struct{}
	stopOnce      sync.Once
	now           func() time.Time
}

// NewWorker builds the background worker. With a nil gemini or index the
// indexing queue is disabled and only the expiry sweep runs.
func NewWorker(
	jobRepo repositories.JobRepository,
	gemini GeminiService,
	index JobVectorIndex,
	concurrency int,
	sweepInterval time.Duration,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &worker{
		jobRepo:       jobRepo,
		gemini:        gemini,
		index:         index,
		promptBuilder: NewPromptBuilder(),
		jobQueue:      make(chan uuid.UUID, 100),
		concurrency:   concurrency,
		sweepInterval: sweepInterval,
		stopChan:      make(chan struct{}),
		now:           time.Now,
	}
}

func (w *worker) indexingEnabled() bool {
	return w.gemini != nil && w.index != nil
}

func (w *worker) Start(ctx context.Context) {
	if w.indexingEnabled() {
		log.Printf("🚀 Starting worker with %d concurrent indexers", w.concurrency)
		for i := 0; i < w.concurrency; i++ {
			w.wg.Add(1)
			go w.processJobs(ctx, i+1)
		}
	} else {
		log.Println("ℹ️  Semantic index not configured, job indexing disabled")
	}

	if w.sweepInterval > 0 {
		w.wg.Add(1)
		go w.sweepExpiredJobs(ctx)
	}

	log.Println("✅ Worker started successfully")
}

func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Worker stopped")
	})
}

// EnqueueJob queues a job for re-indexing. It never blocks the caller; a
// full queue drops the request and the next edit re-queues the job.
func (w *worker) EnqueueJob(jobID uuid.UUID) {
	if !w.indexingEnabled() {
		return
	}

	select {
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue job %s", jobID)
	case w.jobQueue <- jobID:
		log.Printf("📥 Job %s enqueued for indexing", jobID)
	default:
		log.Printf("⚠️  Indexing queue full, dropping job %s", jobID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("👷 Indexer #%d started", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Indexer #%d stopped", workerID)
			return
		case <-ctx.Done():
			return
		case jobID := <-w.jobQueue:
			if err := w.indexJob(ctx, jobID); err != nil {
				log.Printf("❌ Indexer #%d failed on job %s: %v", workerID, jobID, err)
			} else {
				log.Printf("✅ Indexer #%d indexed job %s", workerID, jobID)
			}
		}
	}
}

// indexJob upserts the embedding of a public open job and removes every
// other job from the index.
func (w *worker) indexJob(ctx context.Context, jobID uuid.UUID) error {
	job, err := w.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return w.index.DeleteJob(ctx, jobID)
		}
		return err
	}

	if job.Visibility != models.VisibilityPublic || !job.AcceptingApplications(w.now()) {
		return w.index.DeleteJob(ctx, jobID)
	}

	embedding, err := w.gemini.GenerateEmbedding(ctx, w.promptBuilder.BuildJobEmbeddingText(job))
	if err != nil {
		return fmt.Errorf("failed to embed job: %w", err)
	}
	return w.index.UpsertJob(ctx, job.ID, job.Title, embedding)
}

func (w *worker) sweepExpiredJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	log.Println("🔄 Starting job expiry sweeper")

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Job expiry sweeper stopped")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.expireOverdue(ctx)
		}
	}
}

func (w *worker) expireOverdue(ctx context.Context) int64 {
	n, err := w.jobRepo.ExpireOverdue(ctx, w.now())
	if err != nil {
		log.Printf("⚠️  Failed to expire overdue jobs: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("⏰ Expired %d jobs past their application deadline", n)
	}
	return n
}
