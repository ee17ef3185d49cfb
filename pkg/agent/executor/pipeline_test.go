package executor

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kanishkautag/munchy-mumbai/pkg/agent/intent"
	"github.com/kanishkautag/munchy-mumbai/pkg/agent/retrieval"
	"github.com/kanishkautag/munchy-mumbai/pkg/llm"
	"github.com/kanishkautag/munchy-mumbai/pkg/store"
)

// scriptedLLM answers Generate calls from a queue and Chat calls with a
// fixed reply, which is enough to steer classification, name extraction,
// and generation independently.
type scriptedLLM struct {
	generateQueue []string
	generateIdx   int32
	chatReply     string
	chatErr       error
	chatHistory   [][]llm.Message
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	i := int(atomic.AddInt32(&s.generateIdx, 1)) - 1
	if i < len(s.generateQueue) {
		return s.generateQueue[i], nil
	}
	return "", errors.New("unexpected Generate call")
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.chatHistory = append(s.chatHistory, history)
	return s.chatReply, s.chatErr
}

type countingStructured struct {
	calls int32
}

func (c *countingStructured) Lookup(ctx context.Context, query string) (string, *store.Coordinates) {
	atomic.AddInt32(&c.calls, 1)
	return "name: X", &store.Coordinates{Lat: 1, Lng: 2}
}

func (c *countingStructured) LookupByName(ctx context.Context, name string) (string, *store.Coordinates, bool) {
	atomic.AddInt32(&c.calls, 1)
	return "", nil, false
}

func (c *countingStructured) Stats(ctx context.Context, query string) string {
	atomic.AddInt32(&c.calls, 1)
	return "• X - 4.2⭐"
}

type countingSearch struct {
	text  string
	calls int32
}

func (c *countingSearch) Search(ctx context.Context, query string) string {
	atomic.AddInt32(&c.calls, 1)
	return c.text
}

func newTestExecutor(provider llm.LLMProvider, structured *countingStructured, semantic, web, video *countingSearch) *PipelineExecutor {
	logger := log.New(io.Discard, "", 0)
	retriever := retrieval.NewRetriever(structured, semantic, web, video, provider, logger)
	return NewPipelineExecutor(provider, retriever, logger)
}

func TestExecuteGeneralShortCircuits(t *testing.T) {
	provider := &scriptedLLM{generateQueue: []string{"GENERAL", "Hello! What do you want to eat?"}}
	structured := &countingStructured{}
	semantic := &countingSearch{}
	web := &countingSearch{}
	video := &countingSearch{}

	p := newTestExecutor(provider, structured, semantic, web, video)
	result, err := p.Execute(context.Background(), "hi there", nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Intent != intent.IntentGeneral {
		t.Errorf("Intent = %s", result.Intent)
	}
	if result.Response != "Hello! What do you want to eat?" {
		t.Errorf("Response = %q", result.Response)
	}
	if result.SQLData != nil || result.Coordinates != nil || result.YouTubeData != nil || result.Discovery != nil || result.Videos != nil {
		t.Error("general reply carried retrieval fields")
	}
	if structured.calls != 0 || semantic.calls != 0 || web.calls != 0 || video.calls != 0 {
		t.Errorf("general intent consulted providers: structured=%d semantic=%d web=%d video=%d",
			structured.calls, semantic.calls, web.calls, video.calls)
	}
}

func TestExecuteSpecificCarriesBagFields(t *testing.T) {
	provider := &scriptedLLM{
		generateQueue: []string{"SPECIFIC"},
		chatReply:     "**X** (Fort) ⭐ 4.2",
	}
	structured := &countingStructured{}
	semantic := &countingSearch{text: "• X (Fort) | Seafood | 4.2⭐"}
	web := &countingSearch{text: "- reddit likes X (https://reddit.com/a)"}
	video := &countingSearch{text: "🎥 X review mumbai - https://youtube.com/watch?v=z"}

	p := newTestExecutor(provider, structured, semantic, web, video)
	result, err := p.Execute(context.Background(), "rating of X mumbai", nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Intent != intent.IntentSpecific {
		t.Errorf("Intent = %s", result.Intent)
	}
	if result.SQLData == nil || *result.SQLData != "name: X" {
		t.Errorf("SQLData = %v", result.SQLData)
	}
	if result.Coordinates == nil || result.Coordinates.Lat != 1 {
		t.Errorf("Coordinates = %v", result.Coordinates)
	}
	if result.YouTubeData == nil {
		t.Error("YouTubeData missing")
	}
	if len(result.Videos) != 1 {
		t.Errorf("Videos = %v, want the matching line kept", result.Videos)
	}
	if result.LatencySeconds < 0 {
		t.Errorf("LatencySeconds = %f", result.LatencySeconds)
	}

	// The merged context must reach the generation prompt.
	if len(provider.chatHistory) != 1 {
		t.Fatalf("Chat called %d times", len(provider.chatHistory))
	}
	system := provider.chatHistory[0][0].Content
	if !strings.Contains(system, "🔥 OFFICIAL DB:") || !strings.Contains(system, "🌍 WEB RESULTS:") {
		t.Errorf("system prompt missing merged sections:\n%s", system)
	}
}

func TestExecuteGenerationFailurePropagates(t *testing.T) {
	provider := &scriptedLLM{
		generateQueue: []string{"STATS"},
		chatErr:       errors.New("model down"),
	}

	p := newTestExecutor(provider, &countingStructured{}, &countingSearch{}, &countingSearch{}, &countingSearch{})
	_, err := p.Execute(context.Background(), "top 5 cafes", nil)
	if err == nil {
		t.Fatal("Execute() succeeded despite generation failure")
	}
	if !strings.Contains(err.Error(), "generate reply") {
		t.Errorf("err = %v", err)
	}
}

func TestExecuteClassificationFailureStillAnswers(t *testing.T) {
	// No queued responses: classification errors, defaults to DISCOVERY,
	// and name extraction degrades. Generation still succeeds over Chat.
	provider := &scriptedLLM{chatReply: "Try the seafood at Gajalee."}
	web := &countingSearch{text: "- results (https://reddit.com/b)"}

	p := newTestExecutor(provider, &countingStructured{}, &countingSearch{}, web, &countingSearch{})
	result, err := p.Execute(context.Background(), "somewhere romantic", nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Intent != intent.IntentDiscovery {
		t.Errorf("Intent = %s, want DISCOVERY fallback", result.Intent)
	}
	if result.Response == "" {
		t.Error("empty response")
	}
}
