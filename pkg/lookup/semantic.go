package lookup

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/kanishkautag/munchy-mumbai/internal/model"
	"github.com/kanishkautag/munchy-mumbai/internal/repository/contract"
	"github.com/kanishkautag/munchy-mumbai/pkg/embedding"
)

// SemanticSearch finds restaurants by vibe rather than exact name. When an
// embedding provider is configured and rows are embedded, it searches the
// vector index; otherwise it degrades to trigram fuzzy matching, which in
// turn degrades to ILIKE inside the repository.
type SemanticSearch struct {
	repo     contract.RestaurantRepository
	embedder embedding.EmbeddingProvider // may be nil
	logger   *log.Logger
}

const semanticLimit = 4

func NewSemanticSearch(
	repo contract.RestaurantRepository,
	embedder embedding.EmbeddingProvider,
	logger *log.Logger,
) *SemanticSearch {
	return &SemanticSearch{
		repo:     repo,
		embedder: embedder,
		logger:   logger,
	}
}

// Search returns a ranked bullet list, or an explanatory placeholder.
func (s *SemanticSearch) Search(ctx context.Context, query string) string {
	rows := s.vectorRows(ctx, query)
	if rows == nil {
		var err error
		rows, err = s.repo.FuzzySearch(ctx, query, semanticLimit)
		if err != nil {
			s.logger.Printf("[SEMANTIC] fuzzy search failed: %v", err)
			return fmt.Sprintf("Search error: %v", err)
		}
	}

	if len(rows) == 0 {
		return "No matches found in the database."
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("• %s (%s) | %s | %.1f⭐", row.Name, row.Area, row.Cuisine, row.Rating))
	}
	return strings.Join(lines, "\n")
}

func (s *SemanticSearch) vectorRows(ctx context.Context, query string) []model.Restaurant {
	if s.embedder == nil {
		return nil
	}

	resp, err := s.embedder.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		s.logger.Printf("[SEMANTIC] embedding failed, falling back to trigram: %v", err)
		return nil
	}

	rows, err := s.repo.VectorSearch(ctx, resp.Embedding.Values, semanticLimit)
	if err != nil || len(rows) == 0 {
		if err != nil {
			s.logger.Printf("[SEMANTIC] vector search failed, falling back to trigram: %v", err)
		}
		return nil
	}
	return rows
}
