package lookup

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/kanishkautag/munchy-mumbai/internal/repository/contract"
	"github.com/kanishkautag/munchy-mumbai/pkg/llm"
	"github.com/kanishkautag/munchy-mumbai/pkg/store"
)

const lookupSystemPrompt = `You are a Postgres expert. Table: restaurants.
Schema: name, cuisine, area, rating, cost, url.
Rules: SELECT name, area, cuisine, rating, cost, url FROM restaurants. Use ILIKE for matching. LIMIT 1. Return raw SQL only, no explanation.`

const statsSystemPrompt = `You are a Postgres expert. Table: restaurants.
Schema: name, cuisine, area, rating, cost, url.
Rules: SELECT name, area, rating, cost FROM restaurants. Use ILIKE for any filter. ORDER BY rating DESC. LIMIT 5. Return raw SQL only, no explanation.`

// StructuredSearch answers exact and aggregate questions against the
// restaurants table. Free text is translated to SQL by the model; the
// repository only executes SELECT statements. Every failure degrades to an
// explanatory string so a bad query never aborts the pipeline.
type StructuredSearch struct {
	llmProvider llm.LLMProvider
	repo        contract.RestaurantRepository
	geocoder    *Geocoder
	logger      *log.Logger
}

func NewStructuredSearch(
	llmProvider llm.LLMProvider,
	repo contract.RestaurantRepository,
	geocoder *Geocoder,
	logger *log.Logger,
) *StructuredSearch {
	return &StructuredSearch{
		llmProvider: llmProvider,
		repo:        repo,
		geocoder:    geocoder,
		logger:      logger,
	}
}

// Lookup translates the query to SQL, runs it, and geocodes the first hit.
// The returned text is always usable context, even when degraded.
func (s *StructuredSearch) Lookup(ctx context.Context, query string) (string, *store.Coordinates) {
	sqlText, err := s.textToSQL(ctx, lookupSystemPrompt, query)
	if err != nil {
		s.logger.Printf("[STRUCTURED] text-to-sql failed: %v", err)
		return fmt.Sprintf("Database lookup failed: %v", err), nil
	}

	rows, err := s.repo.SelectRows(ctx, sqlText)
	if err != nil {
		s.logger.Printf("[STRUCTURED] query failed: %v", err)
		return fmt.Sprintf("Database lookup failed: %v", err), nil
	}
	if len(rows) == 0 {
		return "No specific match found.", nil
	}

	row := rows[0]
	name, _ := row["name"].(string)
	area, _ := row["area"].(string)
	coords := s.geocoder.Locate(ctx, fmt.Sprintf("%s, %s, Mumbai", name, area))

	return renderRow(row), coords
}

// LookupByName performs a direct ILIKE match, used by the discovery pass
// to confirm names pulled out of web results.
func (s *StructuredSearch) LookupByName(ctx context.Context, name string) (string, *store.Coordinates, bool) {
	row, err := s.repo.FindByName(ctx, name)
	if err != nil {
		s.logger.Printf("[STRUCTURED] lookup by name %q failed: %v", name, err)
		return "", nil, false
	}
	if row == nil {
		return "", nil, false
	}

	coords := s.geocoder.Locate(ctx, fmt.Sprintf("%s, %s, Mumbai", row.Name, row.Area))
	return fmt.Sprintf("FOUND: %s", row.Name), coords, true
}

// Stats answers ranking questions (top N by rating, optionally filtered).
func (s *StructuredSearch) Stats(ctx context.Context, query string) string {
	sqlText, err := s.textToSQL(ctx, statsSystemPrompt, query)
	if err != nil {
		s.logger.Printf("[STRUCTURED] stats text-to-sql failed: %v", err)
		return fmt.Sprintf("Database lookup failed: %v", err)
	}

	rows, err := s.repo.SelectRows(ctx, sqlText)
	if err != nil {
		s.logger.Printf("[STRUCTURED] stats query failed: %v", err)
		return fmt.Sprintf("Database lookup failed: %v", err)
	}
	if len(rows) == 0 {
		return "No data."
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("• %v (%v) - %v⭐", row["name"], row["area"], row["rating"]))
	}
	return strings.Join(lines, "\n")
}

// Suggest powers the autocomplete endpoint: up to limit name matches, each
// with best-effort coordinates.
func (s *StructuredSearch) Suggest(ctx context.Context, query string, limit int) []store.SuggestionEntry {
	rows, err := s.repo.Suggest(ctx, query, limit)
	if err != nil {
		s.logger.Printf("[STRUCTURED] suggest failed: %v", err)
		return []store.SuggestionEntry{}
	}

	entries := make([]store.SuggestionEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, store.SuggestionEntry{
			Name:        row.Name,
			Area:        row.Area,
			Coordinates: s.geocoder.Locate(ctx, fmt.Sprintf("%s, %s, Mumbai", row.Name, row.Area)),
		})
	}
	return entries
}

func (s *StructuredSearch) textToSQL(ctx context.Context, systemPrompt, query string) (string, error) {
	response, err := s.llmProvider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: query},
	}, llm.WithTemperature(0.0))
	if err != nil {
		return "", err
	}
	return stripSQLFences(response), nil
}

func stripSQLFences(response string) string {
	cleaned := strings.ReplaceAll(response, "```sql", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

func renderRow(row map[string]interface{}) string {
	parts := make([]string, 0, 6)
	for _, key := range []string{"name", "area", "cuisine", "rating", "cost", "url"} {
		if val, ok := row[key]; ok && val != nil {
			parts = append(parts, fmt.Sprintf("%s: %v", key, val))
		}
	}
	return strings.Join(parts, " | ")
}
