package lookup

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/kanishkautag/munchy-mumbai/internal/model"
	"github.com/kanishkautag/munchy-mumbai/pkg/embedding"
)

type fakeEmbedder struct {
	values []float32
	err    error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: f.values},
	}, nil
}

func TestSemanticSearchVectorPath(t *testing.T) {
	repo := &fakeRepo{vectorRows: []model.Restaurant{
		{Name: "Gajalee", Area: "Vile Parle", Cuisine: "Seafood", Rating: 4.4},
	}}
	s := NewSemanticSearch(repo, &fakeEmbedder{values: []float32{0.1, 0.2}}, log.New(io.Discard, "", 0))

	got := s.Search(context.Background(), "coastal seafood vibes")
	if got != "• Gajalee (Vile Parle) | Seafood | 4.4⭐" {
		t.Errorf("Search() = %q", got)
	}
}

func TestSemanticSearchFallsBackToFuzzy(t *testing.T) {
	repo := &fakeRepo{
		vectorErr: errors.New("no index"),
		fuzzyRows: []model.Restaurant{
			{Name: "Trishna", Area: "Fort", Cuisine: "Seafood", Rating: 4.5},
		},
	}

	tests := []struct {
		name     string
		embedder embedding.EmbeddingProvider
	}{
		{name: "nil embedder", embedder: nil},
		{name: "embedding failure", embedder: &fakeEmbedder{err: errors.New("down")}},
		{name: "vector search failure", embedder: &fakeEmbedder{values: []float32{0.1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSemanticSearch(repo, tt.embedder, log.New(io.Discard, "", 0))
			got := s.Search(context.Background(), "seafood")
			if !strings.Contains(got, "Trishna") {
				t.Errorf("Search() = %q, want fuzzy result", got)
			}
		})
	}
}

func TestSemanticSearchDegradedStrings(t *testing.T) {
	t.Run("no matches", func(t *testing.T) {
		s := NewSemanticSearch(&fakeRepo{}, nil, log.New(io.Discard, "", 0))
		if got := s.Search(context.Background(), "xyz"); got != "No matches found in the database." {
			t.Errorf("Search() = %q", got)
		}
	})

	t.Run("fuzzy failure", func(t *testing.T) {
		s := NewSemanticSearch(&fakeRepo{fuzzyErr: errors.New("db down")}, nil, log.New(io.Discard, "", 0))
		if got := s.Search(context.Background(), "xyz"); !strings.HasPrefix(got, "Search error:") {
			t.Errorf("Search() = %q", got)
		}
	})
}
