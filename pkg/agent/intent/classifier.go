package intent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/kanishkautag/munchy-mumbai/pkg/llm"
)

// Intent is the coarse category assigned to a query. It is produced once
// per request and selects which retrieval variant runs.
type Intent string

const (
	// IntentGeneral covers greetings, meta questions, and off-topic
	// queries; it bypasses all lookups.
	IntentGeneral Intent = "GENERAL"
	// IntentSpecific asks about one named restaurant.
	IntentSpecific Intent = "SPECIFIC"
	// IntentStats asks for rankings or lists.
	IntentStats Intent = "STATS"
	// IntentDiscovery asks for recommendations by vibe, dish, or occasion.
	// It is also the safe default when classification fails.
	IntentDiscovery Intent = "DISCOVERY"
)

var known = []Intent{IntentGeneral, IntentSpecific, IntentStats, IntentDiscovery}

// Classifier maps a free-text query to one Intent. Classification failure
// never aborts the pipeline: provider errors and unrecognized output both
// resolve to IntentDiscovery. A single attempt, no retries.
type Classifier struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewClassifier(llmProvider llm.LLMProvider, logger *log.Logger) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

func (c *Classifier) Classify(ctx context.Context, query string) Intent {
	prompt := buildPrompt(query)

	response, err := c.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		c.logger.Printf("[INTENT] classification failed, defaulting to DISCOVERY: %v", err)
		return IntentDiscovery
	}

	resolved := parseIntent(response)
	c.logger.Printf("[INTENT] %q -> %s", truncate(query, 60), resolved)
	return resolved
}

func buildPrompt(query string) string {
	var prompt strings.Builder

	prompt.WriteString("Classify the intent of a user query for a restaurant guide.\n\n")
	prompt.WriteString("1. \"GENERAL\": Greetings (Hi, Hello), malicious/off-topic requests (write code, politics), or meta questions (Who are you?).\n")
	prompt.WriteString("2. \"SPECIFIC\": Details about one named restaurant (rating of Joey's).\n")
	prompt.WriteString("3. \"STATS\": Rankings or lists (top 5 cafes).\n")
	prompt.WriteString("4. \"DISCOVERY\": Vibe, dish, or recommendation queries (date spots, best pasta).\n\n")
	prompt.WriteString(fmt.Sprintf("Query: %q\n", query))
	prompt.WriteString("Output ONLY one word: GENERAL, SPECIFIC, STATS, or DISCOVERY.")

	return prompt.String()
}

// parseIntent normalizes model output. Exact matches win; otherwise the
// first known label occurring in the response is taken, so chatty output
// like "The intent is STATS." still resolves.
func parseIntent(response string) Intent {
	normalized := strings.ToUpper(strings.TrimSpace(response))

	for _, label := range known {
		if normalized == string(label) {
			return label
		}
	}
	for _, label := range known {
		if strings.Contains(normalized, string(label)) {
			return label
		}
	}
	return IntentDiscovery
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
