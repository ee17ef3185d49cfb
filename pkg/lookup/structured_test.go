package lookup

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/kanishkautag/munchy-mumbai/internal/model"
	"github.com/kanishkautag/munchy-mumbai/pkg/llm"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type fakeRepo struct {
	rows       []map[string]interface{}
	selectErr  error
	lastSelect string

	byName    *model.Restaurant
	byNameErr error

	fuzzyRows []model.Restaurant
	fuzzyErr  error

	vectorRows []model.Restaurant
	vectorErr  error

	suggestRows []model.Restaurant
	suggestErr  error
}

func (f *fakeRepo) SelectRows(ctx context.Context, query string) ([]map[string]interface{}, error) {
	f.lastSelect = query
	return f.rows, f.selectErr
}

func (f *fakeRepo) FindById(ctx context.Context, id uuid.UUID) (*model.Restaurant, error) {
	return nil, nil
}

func (f *fakeRepo) FindByName(ctx context.Context, name string) (*model.Restaurant, error) {
	return f.byName, f.byNameErr
}

func (f *fakeRepo) FuzzySearch(ctx context.Context, term string, limit int) ([]model.Restaurant, error) {
	return f.fuzzyRows, f.fuzzyErr
}

func (f *fakeRepo) VectorSearch(ctx context.Context, embedding []float32, limit int) ([]model.Restaurant, error) {
	return f.vectorRows, f.vectorErr
}

func (f *fakeRepo) Suggest(ctx context.Context, term string, limit int) ([]model.Restaurant, error) {
	if len(f.suggestRows) > limit {
		return f.suggestRows[:limit], f.suggestErr
	}
	return f.suggestRows, f.suggestErr
}

func (f *fakeRepo) Upsert(ctx context.Context, restaurant *model.Restaurant) error { return nil }

func (f *fakeRepo) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding pgvector.Vector) error {
	return nil
}

func (f *fakeRepo) CountMissingEmbedding(ctx context.Context) (int64, error) { return 0, nil }

func (f *fakeRepo) FindMissingEmbedding(ctx context.Context, limit int) ([]model.Restaurant, error) {
	return nil, nil
}

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func testStructured(provider llm.LLMProvider, repo *fakeRepo) *StructuredSearch {
	// Keyless geocoder always resolves to nil coordinates, no network.
	return NewStructuredSearch(provider, repo, NewGeocoder(""), log.New(io.Discard, "", 0))
}

func TestLookupRendersFirstRow(t *testing.T) {
	repo := &fakeRepo{rows: []map[string]interface{}{{
		"name":   "Trishna",
		"area":   "Fort",
		"rating": 4.5,
	}}}
	provider := &fakeLLM{response: "```sql\nSELECT name FROM restaurants LIMIT 1\n```"}

	s := testStructured(provider, repo)
	text, coords := s.Lookup(context.Background(), "tell me about trishna")

	if !strings.Contains(text, "name: Trishna") || !strings.Contains(text, "area: Fort") {
		t.Errorf("Lookup text = %q", text)
	}
	if coords != nil {
		t.Errorf("coords = %v, want nil without a geocoding key", coords)
	}
	if repo.lastSelect != "SELECT name FROM restaurants LIMIT 1" {
		t.Errorf("fences not stripped: %q", repo.lastSelect)
	}
}

func TestLookupDegradedStrings(t *testing.T) {
	t.Run("model failure", func(t *testing.T) {
		s := testStructured(&fakeLLM{err: errors.New("down")}, &fakeRepo{})
		text, _ := s.Lookup(context.Background(), "whatever")
		if !strings.HasPrefix(text, "Database lookup failed:") {
			t.Errorf("text = %q", text)
		}
	})

	t.Run("query failure", func(t *testing.T) {
		s := testStructured(&fakeLLM{response: "SELECT 1"}, &fakeRepo{selectErr: errors.New("bad sql")})
		text, _ := s.Lookup(context.Background(), "whatever")
		if !strings.HasPrefix(text, "Database lookup failed:") {
			t.Errorf("text = %q", text)
		}
	})

	t.Run("no rows", func(t *testing.T) {
		s := testStructured(&fakeLLM{response: "SELECT 1"}, &fakeRepo{})
		text, _ := s.Lookup(context.Background(), "whatever")
		if text != "No specific match found." {
			t.Errorf("text = %q", text)
		}
	})
}

func TestLookupByName(t *testing.T) {
	repo := &fakeRepo{byName: &model.Restaurant{Name: "Gajalee", Area: "Vile Parle"}}
	s := testStructured(&fakeLLM{}, repo)

	text, _, ok := s.LookupByName(context.Background(), "gajalee")
	if !ok {
		t.Fatal("LookupByName() not found")
	}
	if text != "FOUND: Gajalee" {
		t.Errorf("text = %q", text)
	}

	repo.byName = nil
	if _, _, ok := s.LookupByName(context.Background(), "nowhere"); ok {
		t.Error("missing restaurant reported as found")
	}
}

func TestStats(t *testing.T) {
	repo := &fakeRepo{rows: []map[string]interface{}{
		{"name": "A", "area": "Fort", "rating": 4.8},
		{"name": "B", "area": "Bandra", "rating": 4.6},
	}}
	s := testStructured(&fakeLLM{response: "SELECT name, area, rating FROM restaurants ORDER BY rating DESC LIMIT 5"}, repo)

	text := s.Stats(context.Background(), "top seafood")
	lines := strings.Split(text, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), text)
	}
	if lines[0] != "• A (Fort) - 4.8⭐" {
		t.Errorf("line 0 = %q", lines[0])
	}

	repo.rows = nil
	if got := s.Stats(context.Background(), "top seafood"); got != "No data." {
		t.Errorf("empty stats = %q", got)
	}
}

func TestSuggestCapsAndSurvivesErrors(t *testing.T) {
	repo := &fakeRepo{suggestRows: []model.Restaurant{
		{Name: "A", Area: "Fort"},
		{Name: "B", Area: "Bandra"},
		{Name: "C", Area: "Dadar"},
		{Name: "D", Area: "Powai"},
	}}
	s := testStructured(&fakeLLM{}, repo)

	entries := s.Suggest(context.Background(), "a", 3)
	if len(entries) != 3 {
		t.Errorf("got %d entries, want 3", len(entries))
	}

	repo.suggestErr = errors.New("db down")
	entries = s.Suggest(context.Background(), "a", 3)
	if entries == nil || len(entries) != 0 {
		t.Errorf("error case = %v, want empty non-nil", entries)
	}
}

func TestStripSQLFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"```sql\nSELECT 1\n```", "SELECT 1"},
		{"```\nSELECT 1\n```", "SELECT 1"},
		{"  SELECT 1  ", "SELECT 1"},
	}
	for _, tt := range tests {
		if got := stripSQLFences(tt.in); got != tt.want {
			t.Errorf("stripSQLFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
