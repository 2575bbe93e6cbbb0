package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"careerlab/cv-match/internal/models"
)

// JobVectorStore indexes job description embeddings so previously matched
// jobs can be retrieved by similarity to a new candidate profile.
type JobVectorStore interface {
	InitCollection() error
	UpsertJob(ctx context.Context, matchID uuid.UUID, job *models.StructuredJob, embedding []float32) error
	SimilarJobs(ctx context.Context, queryEmbedding []float32, limit int) ([]models.SimilarJob, error)
	DeleteJob(ctx context.Context, matchID uuid.UUID) error
}

type jobVectorStore struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewJobVectorStore(urlStr, apiKey, collectionName string) (JobVectorStore, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &jobVectorStore{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // Gemini embedding size
	}, nil
}

// InitCollection implements JobVectorStore.
func (s *jobVectorStore) InitCollection() error {
	ctx := context.Background()

	exists, err := s.client.CollectionExists(ctx, s.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", s.collectionName)
	return nil
}

// UpsertJob implements JobVectorStore.
func (s *jobVectorStore) UpsertJob(ctx context.Context, matchID uuid.UUID, job *models.StructuredJob, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(matchID.String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"match_id": matchID.String(),
			"title":    job.Title,
			"company":  job.Company,
		}),
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert job point: %w", err)
	}

	return nil
}

// SimilarJobs implements JobVectorStore.
func (s *jobVectorStore) SimilarJobs(ctx context.Context, queryEmbedding []float32, limit int) ([]models.SimilarJob, error) {
	if limit <= 0 {
		limit = 5
	}

	searchResult, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}

	var results []models.SimilarJob
	for _, point := range searchResult {
		payload := point.Payload

		result := models.SimilarJob{Score: point.Score}

		if matchID, ok := payload["match_id"]; ok {
			if val, ok := matchID.GetKind().(*qdrant.Value_StringValue); ok {
				result.MatchID = val.StringValue
			}
		}
		if title, ok := payload["title"]; ok {
			if val, ok := title.GetKind().(*qdrant.Value_StringValue); ok {
				result.Title = val.StringValue
			}
		}
		if company, ok := payload["company"]; ok {
			if val, ok := company.GetKind().(*qdrant.Value_StringValue); ok {
				result.Company = val.StringValue
			}
		}

		results = append(results, result)
	}

	return results, nil
}

// DeleteJob implements JobVectorStore.
func (s *jobVectorStore) DeleteJob(ctx context.Context, matchID uuid.UUID) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("match_id", matchID.String()),
		},
	}

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})

	if err != nil {
		return fmt.Errorf("failed to delete job point: %w", err)
	}

	return nil
}
