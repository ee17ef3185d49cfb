package service

import (
	"context"

	"github.com/kanishkautag/munchy-mumbai/internal/dto"
	"github.com/kanishkautag/munchy-mumbai/internal/pkg/logger"
	"github.com/kanishkautag/munchy-mumbai/internal/repository/memory"
	"github.com/kanishkautag/munchy-mumbai/pkg/agent/executor"
	"github.com/kanishkautag/munchy-mumbai/pkg/llm"
	"github.com/kanishkautag/munchy-mumbai/pkg/lookup"
	"github.com/kanishkautag/munchy-mumbai/pkg/store"
)

const (
	defaultSessionId = "default"
	suggestLimit     = 3
)

type IChatService interface {
	SendChat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	Suggest(ctx context.Context, req *dto.SuggestRequest) (*dto.SuggestResponse, error)
}

type chatService struct {
	pipeline    *executor.PipelineExecutor
	sessionRepo *memory.SessionRepository
	structured  *lookup.StructuredSearch
	logger      logger.ILogger
}

func NewChatService(
	pipeline *executor.PipelineExecutor,
	sessionRepo *memory.SessionRepository,
	structured *lookup.StructuredSearch,
	log logger.ILogger,
) IChatService {
	return &chatService{
		pipeline:    pipeline,
		sessionRepo: sessionRepo,
		structured:  structured,
		logger:      log,
	}
}

func (c *chatService) SendChat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionId := req.SessionId
	if sessionId == "" {
		sessionId = defaultSessionId
	}

	session, found := c.sessionRepo.Get(sessionId)
	if !found {
		session = &store.Session{ID: sessionId}
	}

	result, err := c.pipeline.Execute(ctx, req.Query, session.Tail(store.HistoryWindow))
	if err != nil {
		c.logger.Error("ChatService", "pipeline execution failed", map[string]interface{}{
			"session": sessionId,
			"error":   err.Error(),
		})
		return nil, err
	}

	c.logger.Info("ChatService", "chat handled", map[string]interface{}{
		"session":         sessionId,
		"intent":          string(result.Intent),
		"latency_seconds": result.LatencySeconds,
	})

	session.History = append(session.History,
		llm.Message{Role: llm.RoleUser, Content: req.Query},
		llm.Message{Role: llm.RoleAssistant, Content: result.Response},
	)
	c.sessionRepo.Save(session)

	return &dto.ChatResponse{
		Response:    result.Response,
		Intent:      string(result.Intent),
		Metrics:     dto.ChatMetrics{LatencySeconds: result.LatencySeconds},
		Sql:         result.SQLData,
		Coordinates: result.Coordinates,
		Youtube:     result.YouTubeData,
		Discovery:   result.Discovery,
		Videos:      result.Videos,
	}, nil
}

func (c *chatService) Suggest(ctx context.Context, req *dto.SuggestRequest) (*dto.SuggestResponse, error) {
	entries := c.structured.Suggest(ctx, req.Query, suggestLimit)

	suggestions := make([]dto.SuggestionDTO, 0, len(entries))
	for _, e := range entries {
		suggestions = append(suggestions, dto.SuggestionDTO{
			Name:        e.Name,
			Area:        e.Area,
			Coordinates: e.Coordinates,
		})
	}

	return &dto.SuggestResponse{Suggestions: suggestions}, nil
}
