package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/kanishkautag/munchy-mumbai/internal/dto"
	"github.com/kanishkautag/munchy-mumbai/internal/model"
	"github.com/kanishkautag/munchy-mumbai/internal/repository/contract"
	"github.com/kanishkautag/munchy-mumbai/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pgvector/pgvector-go"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	restaurantRepo    contract.RestaurantRepository
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	restaurantRepo contract.RestaurantRepository,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		restaurantRepo:    restaurantRepo,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedRestaurantMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing embedding for restaurant %s", payload.RestaurantId)

	restaurant, err := cs.restaurantRepo.FindById(ctx, payload.RestaurantId)
	if err != nil {
		log.Printf("[ERROR] Failed to get restaurant %s: %v", payload.RestaurantId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if restaurant == nil {
		log.Printf("[ERROR] Restaurant not found: %s", payload.RestaurantId)
		msg.Ack() // Row deleted? Ack.
		return
	}

	content := EmbeddingDocument(restaurant)

	res, err := cs.embeddingProvider.Generate(content, "RETRIEVAL_DOCUMENT")
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for restaurant %s: %v", payload.RestaurantId, err)
		msg.Nack()
		return
	}

	vec := pgvector.NewVector(res.Embedding.Values)
	if err := cs.restaurantRepo.UpdateEmbedding(ctx, restaurant.Id, vec); err != nil {
		log.Printf("[ERROR] Failed to store embedding for restaurant %s: %v", payload.RestaurantId, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Restaurant embedded: %s (%s)", restaurant.Name, restaurant.Id)
	msg.Ack()
}

// EmbeddingDocument flattens a restaurant row into the text that gets
// embedded, so vector matches can pick up cuisine and vibe keywords.
func EmbeddingDocument(r *model.Restaurant) string {
	tags := ""
	if len(r.Tags) > 0 {
		var parsed []string
		if err := json.Unmarshal(r.Tags, &parsed); err == nil {
			for i, t := range parsed {
				if i > 0 {
					tags += ", "
				}
				tags += t
			}
		}
	}

	return fmt.Sprintf(`Restaurant: %s
Cuisine: %s
Area: %s, Mumbai
Rating: %.1f
Cost for two: %d
Tags: %s`,
		r.Name, r.Cuisine, r.Area, r.Rating, r.Cost, tags)
}
