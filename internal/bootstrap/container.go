package bootstrap

import (
	"log"
	"os"

	"github.com/kanishkautag/munchy-mumbai/internal/config"
	"github.com/kanishkautag/munchy-mumbai/internal/controller"
	"github.com/kanishkautag/munchy-mumbai/internal/pkg/logger"
	"github.com/kanishkautag/munchy-mumbai/internal/repository/implementation"
	"github.com/kanishkautag/munchy-mumbai/internal/repository/memory"
	"github.com/kanishkautag/munchy-mumbai/internal/service"
	"github.com/kanishkautag/munchy-mumbai/pkg/agent/executor"
	"github.com/kanishkautag/munchy-mumbai/pkg/agent/retrieval"
	"github.com/kanishkautag/munchy-mumbai/pkg/embedding"
	"github.com/kanishkautag/munchy-mumbai/pkg/llm/factory"
	"github.com/kanishkautag/munchy-mumbai/pkg/lookup"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Shared infrastructure (exposed for the ingest tooling)
	PublisherService service.IPublisherService
	SysLogger        logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	restaurantRepo := implementation.NewRestaurantRepository(db)
	sessionRepo := memory.NewSessionRepository()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	pipelineLog := log.New(os.Stdout, "[PIPELINE] ", log.LstdFlags)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.Groq,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Retrieval Providers
	geocoder := lookup.NewGeocoder(cfg.Keys.Geoapify)
	structured := lookup.NewStructuredSearch(llmProvider, restaurantRepo, geocoder, pipelineLog)
	semantic := lookup.NewSemanticSearch(restaurantRepo, embeddingProvider, pipelineLog)
	web := lookup.NewWebSearch(cfg.Keys.Tavily, pipelineLog)
	video := lookup.NewVideoSearch(cfg.Keys.YouTube, pipelineLog)

	retriever := retrieval.NewRetriever(structured, semantic, web, video, llmProvider, pipelineLog)
	pipeline := executor.NewPipelineExecutor(llmProvider, retriever, pipelineLog)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopic,
		restaurantRepo,
		embeddingProvider,
	)

	chatService := service.NewChatService(pipeline, sessionRepo, structured, sysLogger)

	// 6. Controllers
	return &Container{
		ChatController:   controller.NewChatController(chatService),
		ConsumerService:  consumerService,
		PublisherService: publisherService,
		SysLogger:        sysLogger,
	}
}
