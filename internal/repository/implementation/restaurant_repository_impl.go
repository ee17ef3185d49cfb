package implementation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kanishkautag/munchy-mumbai/internal/model"
	"github.com/kanishkautag/munchy-mumbai/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RestaurantRepositoryImpl struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) contract.RestaurantRepository {
	return &RestaurantRepositoryImpl{db: db}
}

// SelectRows runs a model-generated query. Only SELECT statements are
// accepted; anything else is rejected before touching the database.
func (r *RestaurantRepositoryImpl) SelectRows(ctx context.Context, query string) ([]map[string]interface{}, error) {
	trimmed := strings.TrimSpace(query)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return nil, fmt.Errorf("refusing non-SELECT statement")
	}

	var rows []map[string]interface{}
	if err := r.db.WithContext(ctx).Raw(trimmed).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *RestaurantRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*model.Restaurant, error) {
	var m model.Restaurant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *RestaurantRepositoryImpl) FindByName(ctx context.Context, name string) (*model.Restaurant, error) {
	var m model.Restaurant
	err := r.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+name+"%").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// FuzzySearch ranks by pg_trgm similarity so typos still match. When the
// pg_trgm extension is missing the similarity call fails, and we fall back
// to plain ILIKE ordered by rating.
func (r *RestaurantRepositoryImpl) FuzzySearch(ctx context.Context, term string, limit int) ([]model.Restaurant, error) {
	wildcard := "%" + term + "%"

	var rows []model.Restaurant
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, area, cuisine, rating, cost, url
		FROM restaurants
		WHERE name % ? OR cuisine ILIKE ? OR area ILIKE ?
		ORDER BY similarity(name, ?) DESC, rating DESC
		LIMIT ?`,
		term, wildcard, wildcard, term, limit,
	).Scan(&rows).Error

	if err != nil {
		err = r.db.WithContext(ctx).
			Where("name ILIKE ? OR cuisine ILIKE ? OR area ILIKE ?", wildcard, wildcard, wildcard).
			Order("rating DESC").
			Limit(limit).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// VectorSearch ranks by cosine distance over the embedding column.
func (r *RestaurantRepositoryImpl) VectorSearch(ctx context.Context, embedding []float32, limit int) ([]model.Restaurant, error) {
	var rows []model.Restaurant
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, area, cuisine, rating, cost, url
		FROM restaurants
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> ?
		LIMIT ?`,
		pgvector.NewVector(embedding), limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *RestaurantRepositoryImpl) Suggest(ctx context.Context, term string, limit int) ([]model.Restaurant, error) {
	var rows []model.Restaurant
	err := r.db.WithContext(ctx).
		Select("id", "name", "area").
		Where("name ILIKE ?", "%"+term+"%").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert inserts a restaurant or refreshes an existing row with the same
// name and area, so re-running the ingest is idempotent.
func (r *RestaurantRepositoryImpl) Upsert(ctx context.Context, restaurant *model.Restaurant) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "area"}},
		DoUpdates: clause.AssignmentColumns([]string{"cuisine", "rating", "cost", "url", "tags", "updated_at"}),
	}).Create(restaurant).Error
}

func (r *RestaurantRepositoryImpl) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding pgvector.Vector) error {
	return r.db.WithContext(ctx).
		Model(&model.Restaurant{}).
		Where("id = ?", id).
		Update("embedding", embedding).Error
}

func (r *RestaurantRepositoryImpl) CountMissingEmbedding(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Restaurant{}).
		Where("embedding IS NULL").
		Count(&count).Error
	return count, err
}

func (r *RestaurantRepositoryImpl) FindMissingEmbedding(ctx context.Context, limit int) ([]model.Restaurant, error) {
	var rows []model.Restaurant
	err := r.db.WithContext(ctx).
		Where("embedding IS NULL").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
