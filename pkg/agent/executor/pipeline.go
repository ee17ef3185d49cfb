package executor

import (
	"context"
	"log"
	"time"

	"github.com/kanishkautag/munchy-mumbai/pkg/agent/intent"
	"github.com/kanishkautag/munchy-mumbai/pkg/agent/response"
	"github.com/kanishkautag/munchy-mumbai/pkg/agent/retrieval"
	"github.com/kanishkautag/munchy-mumbai/pkg/agent/verify"
	"github.com/kanishkautag/munchy-mumbai/pkg/llm"
	"github.com/kanishkautag/munchy-mumbai/pkg/store"
)

// PipelineExecutor wires the fixed topology:
// classify → route → retrieve → verify/merge → generate.
// It holds no per-request state; everything lives in the ResultBag created
// for each Execute call.
type PipelineExecutor struct {
	classifier *intent.Classifier
	retriever  *retrieval.Retriever
	generator  *response.Generator
	logger     *log.Logger
}

func NewPipelineExecutor(
	llmProvider llm.LLMProvider,
	retriever *retrieval.Retriever,
	logger *log.Logger,
) *PipelineExecutor {
	return &PipelineExecutor{
		classifier: intent.NewClassifier(llmProvider, logger),
		retriever:  retriever,
		generator:  response.NewGenerator(llmProvider, logger),
		logger:     logger,
	}
}

// Result is the full outcome of one pipeline run, including the auxiliary
// fields a client UI renders alongside the reply.
type Result struct {
	Response       string
	Intent         intent.Intent
	LatencySeconds float64

	SQLData     *string
	Coordinates *store.Coordinates
	YouTubeData *string
	Discovery   []string
	Videos      []string
}

// Execute runs one query through the pipeline. Only generation failure
// surfaces as an error; every other stage degrades internally.
func (p *PipelineExecutor) Execute(ctx context.Context, query string, history []llm.Message) (*Result, error) {
	start := time.Now()

	resolved := p.classifier.Classify(ctx, query)

	// GENERAL skips retrieval and merge entirely: a short prompt with no
	// data produces the greeting/refusal reply.
	if resolved == intent.IntentGeneral {
		reply, err := p.generator.Generalist(ctx, query)
		if err != nil {
			return nil, err
		}
		return &Result{
			Response:       reply,
			Intent:         resolved,
			LatencySeconds: time.Since(start).Seconds(),
		}, nil
	}

	bag := p.retriever.Retrieve(ctx, resolved, query)

	mergedContext, videos := verify.Merge(bag, query)
	p.logger.Printf("[PIPELINE] intent=%s context=%dB videos=%d", resolved, len(mergedContext), len(videos))

	reply, err := p.generator.Generate(ctx, resolved, history, mergedContext, query)
	if err != nil {
		return nil, err
	}

	return &Result{
		Response:       reply,
		Intent:         resolved,
		LatencySeconds: time.Since(start).Seconds(),
		SQLData:        bag.SQLData,
		Coordinates:    bag.Coordinates,
		YouTubeData:    bag.YouTubeData,
		Discovery:      bag.Discovery,
		Videos:         videos,
	}, nil
}
