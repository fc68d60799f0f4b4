package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

const embeddingSize = 768

// JobVectorIndex stores one embedding per job posting, keyed by the job ID.
type JobVectorIndex interface {
	InitCollection(ctx context.Context) error
	UpsertJob(ctx context.Context, jobID uuid.UUID, title string, embedding []float32) error
	SearchJobs(ctx context.Context, queryEmbedding []float32, limit int) ([]JobMatch, error)
	DeleteJob(ctx context.Context, jobID uuid.UUID) error
}

type JobMatch struct {
	JobID uuid.UUID
	Score float32
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantService(urlStr, apiKey, collectionName string) (JobVectorIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	// gRPC listens on 6334 unless the URL names a port.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: apiKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     embeddingSize,
	}, nil
}

func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		log.Printf("✅ Qdrant collection '%s' already exists", q.collectionName)
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully", q.collectionName)
	return nil
}

// UpsertJob writes the job's vector under a point ID equal to the job UUID,
// so re-indexing replaces the previous embedding.
func (q *qdrantService) UpsertJob(ctx context.Context, jobID uuid.UUID, title string, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(jobID.String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"job_id": jobID.String(),
			"title":  title,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert job vector: %w", err)
	}

	return nil
}

func (q *qdrantService) SearchJobs(ctx context.Context, queryEmbedding []float32, limit int) ([]JobMatch, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search job vectors: %w", err)
	}

	matches := make([]JobMatch, 0, len(points))
	for _, point := range points {
		raw, ok := point.Payload["job_id"]
		if !ok {
			continue
		}
		val, ok := raw.GetKind().(*qdrant.Value_StringValue)
		if !ok {
			continue
		}
		id, err := uuid.Parse(val.StringValue)
		if err != nil {
			continue
		}
		matches = append(matches, JobMatch{JobID: id, Score: point.Score})
	}

	return matches, nil
}

func (q *qdrantService) DeleteJob(ctx context.Context, jobID uuid.UUID) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{
					Ids: []*qdrant.PointId{qdrant.NewID(jobID.String())},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete job vector: %w", err)
	}

	return nil
}
