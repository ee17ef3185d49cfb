package contract

import (
	"context"

	"github.com/kanishkautag/munchy-mumbai/internal/model"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// RestaurantRepository is the single data-access boundary for the
// restaurants table. SelectRows executes model-generated SELECT statements
// and is the only method that accepts raw SQL; everything else is
// parameterized.
type RestaurantRepository interface {
	SelectRows(ctx context.Context, query string) ([]map[string]interface{}, error)
	FindById(ctx context.Context, id uuid.UUID) (*model.Restaurant, error)
	FindByName(ctx context.Context, name string) (*model.Restaurant, error)
	FuzzySearch(ctx context.Context, term string, limit int) ([]model.Restaurant, error)
	VectorSearch(ctx context.Context, embedding []float32, limit int) ([]model.Restaurant, error)
	Suggest(ctx context.Context, term string, limit int) ([]model.Restaurant, error)
	Upsert(ctx context.Context, restaurant *model.Restaurant) error
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding pgvector.Vector) error
	CountMissingEmbedding(ctx context.Context) (int64, error)
	FindMissingEmbedding(ctx context.Context, limit int) ([]model.Restaurant, error)
}
