package response

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/kanishkautag/munchy-mumbai/pkg/agent/intent"
	"github.com/kanishkautag/munchy-mumbai/pkg/llm"
)

// historyWindow is how many recent turns are rendered into the prompt.
const historyWindow = 5

// Generator produces the final natural-language reply. This is the only
// stage whose failure is not masked: with no data-backed answer available
// there is no sensible default text, so errors propagate to the caller.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Generate answers from the merged retrieval context plus recent history.
func (g *Generator) Generate(
	ctx context.Context,
	resolved intent.Intent,
	history []llm.Message,
	mergedContext string,
	query string,
) (string, error) {

	systemPrompt := g.buildSystemPrompt(resolved, history, mergedContext)

	reply, err := g.llmProvider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: query},
	})
	if err != nil {
		g.logger.Printf("[GENERATION] failed: %v", err)
		return "", fmt.Errorf("generate reply: %w", err)
	}
	return reply, nil
}

// Generalist handles greetings and blocks off-topic queries. Cheap and
// fast: no retrieval data is involved at all.
func (g *Generator) Generalist(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf(`You are Munchy Mumbai, a food guide AI.
User said: %q

If it's a greeting, say hello and ask what they want to eat.
If it's off-topic (coding, politics, etc.), politely refuse and say you only know Mumbai food.
Keep it short.`, query)

	reply, err := g.llmProvider.Generate(ctx, prompt)
	if err != nil {
		g.logger.Printf("[GENERATION] generalist failed: %v", err)
		return "", fmt.Errorf("generate reply: %w", err)
	}
	return reply, nil
}

func (g *Generator) buildSystemPrompt(resolved intent.Intent, history []llm.Message, mergedContext string) string {
	var prompt strings.Builder

	prompt.WriteString("You are 'Mr. Munchy Mumbai', a charming food guide.\n")
	prompt.WriteString(fmt.Sprintf("INTENT: %s\n", resolved))
	prompt.WriteString(fmt.Sprintf("HISTORY:\n%s\n", renderHistory(history)))
	prompt.WriteString(fmt.Sprintf("DATA:\n%s\n\n", mergedContext))

	prompt.WriteString("RULES:\n")
	prompt.WriteString("1. The OFFICIAL DB section is truth. Never apologize for missing data.\n")
	prompt.WriteString("2. Be confident and concise.\n")
	prompt.WriteString("3. Format: **Name** ([Area]) ⭐ **Rating** | ₹[Cost]\n")
	prompt.WriteString("4. Verdict 🍛 (Summary) -> Vibe ✨ (Atmosphere/Food).")

	return prompt.String()
}

func renderHistory(history []llm.Message) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", strings.ToUpper(m.Role), m.Content))
	}
	return strings.Join(lines, "\n")
}
