package retrieval

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/kanishkautag/munchy-mumbai/pkg/agent/intent"
	"github.com/kanishkautag/munchy-mumbai/pkg/llm"
	"github.com/kanishkautag/munchy-mumbai/pkg/store"
)

// StructuredLookup is the exact/aggregate face of the restaurant database.
// Implementations degrade internally and never return errors.
type StructuredLookup interface {
	Lookup(ctx context.Context, query string) (string, *store.Coordinates)
	LookupByName(ctx context.Context, name string) (string, *store.Coordinates, bool)
	Stats(ctx context.Context, query string) string
}

// TextSearch is any provider that turns a query into ranked text
// (semantic index, web search, video search).
type TextSearch interface {
	Search(ctx context.Context, query string) string
}

const maxExtractedNames = 2

// Retriever runs the intent-specific lookup plan and fills a fresh
// ResultBag. No variant ever fails: each provider call is isolated and its
// failure degrades to that field alone.
type Retriever struct {
	structured  StructuredLookup
	semantic    TextSearch
	web         TextSearch
	video       TextSearch
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewRetriever(
	structured StructuredLookup,
	semantic TextSearch,
	web TextSearch,
	video TextSearch,
	llmProvider llm.LLMProvider,
	logger *log.Logger,
) *Retriever {
	return &Retriever{
		structured:  structured,
		semantic:    semantic,
		web:         web,
		video:       video,
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Retrieve dispatches on the resolved intent. IntentGeneral never reaches
// this stage; the executor short-circuits it before retrieval.
func (r *Retriever) Retrieve(ctx context.Context, resolved intent.Intent, query string) *store.ResultBag {
	switch resolved {
	case intent.IntentSpecific:
		return r.retrieveSpecific(ctx, query)
	case intent.IntentStats:
		return r.retrieveStats(ctx, query)
	default:
		return r.retrieveDiscovery(ctx, query)
	}
}

// retrieveSpecific fans out to all four sources concurrently. Each
// goroutine owns exactly one bag field, so no locking is needed.
func (r *Retriever) retrieveSpecific(ctx context.Context, query string) *store.ResultBag {
	bag := &store.ResultBag{}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		text, coords := r.structured.Lookup(ctx, query)
		bag.SQLData = &text
		bag.Coordinates = coords
	}()
	go func() {
		defer wg.Done()
		text := r.semantic.Search(ctx, query)
		bag.RAGData = &text
	}()
	go func() {
		defer wg.Done()
		text := r.web.Search(ctx, query)
		bag.WebData = &text
	}()
	go func() {
		defer wg.Done()
		text := r.video.Search(ctx, query)
		bag.YouTubeData = &text
	}()

	wg.Wait()
	return bag
}

// retrieveDiscovery runs two independent lookups alongside a two-phase
// chain: web search, then name extraction over its output, then one
// structured lookup per extracted name. The first found entity's
// coordinates win; later finds only extend the discovery list.
func (r *Retriever) retrieveDiscovery(ctx context.Context, query string) *store.ResultBag {
	bag := &store.ResultBag{}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		web := r.web.Search(ctx, query)
		bag.WebData = &web

		for _, name := range r.extractNames(ctx, web) {
			found, coords, ok := r.structured.LookupByName(ctx, name)
			if !ok {
				continue
			}
			bag.Discovery = append(bag.Discovery, found)
			if bag.Coordinates == nil {
				bag.Coordinates = coords
			}
		}
	}()
	go func() {
		defer wg.Done()
		text := r.semantic.Search(ctx, query)
		bag.RAGData = &text
	}()
	go func() {
		defer wg.Done()
		text := r.video.Search(ctx, query)
		bag.YouTubeData = &text
	}()

	wg.Wait()
	return bag
}

func (r *Retriever) retrieveStats(ctx context.Context, query string) *store.ResultBag {
	text := r.structured.Stats(ctx, query)
	return &store.ResultBag{SQLData: &text}
}

// extractNames asks the model to pull restaurant names out of web-search
// text. Any failure, provider or parse, degrades to an empty list.
func (r *Retriever) extractNames(ctx context.Context, webText string) []string {
	if strings.TrimSpace(webText) == "" {
		return nil
	}

	prompt := "Extract the top 2 restaurant names from the following search results. " +
		"Respond with ONLY a JSON array of name strings.\n\n" + webText

	response, err := r.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		r.logger.Printf("[DISCOVERY] name extraction failed: %v", err)
		return nil
	}

	names, err := parseNameList(response)
	if err != nil {
		r.logger.Printf("[DISCOVERY] name extraction unparseable: %v", err)
		return nil
	}
	if len(names) > maxExtractedNames {
		names = names[:maxExtractedNames]
	}
	return names
}

func parseNameList(response string) ([]string, error) {
	jsonContent := extractJSONArray(response)

	var names []string
	if err := json.Unmarshal([]byte(jsonContent), &names); err != nil {
		return nil, err
	}

	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned, nil
}

// extractJSONArray cuts the first [...] span out of a response that may be
// wrapped in code fences or prose.
func extractJSONArray(response string) string {
	startIdx := strings.Index(response, "[")
	endIdx := strings.LastIndex(response, "]")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return response
	}
	return response[startIdx : endIdx+1]
}
