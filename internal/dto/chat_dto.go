package dto

import (
	"github.com/google/uuid"

	"github.com/kanishkautag/munchy-mumbai/pkg/store"
)

type ChatRequest struct {
	Query     string `json:"query" validate:"required"`
	SessionId string `json:"session_id,omitempty"`
}

type ChatMetrics struct {
	LatencySeconds float64 `json:"latency_seconds"`
}

type ChatResponse struct {
	Response    string             `json:"response"`
	Intent      string             `json:"intent"`
	Metrics     ChatMetrics        `json:"metrics"`
	Sql         *string            `json:"sql"`
	Coordinates *store.Coordinates `json:"coordinates"`
	Youtube     *string            `json:"youtube"`
	Discovery   []string           `json:"discovery"`
	Videos      []string           `json:"videos,omitempty"`
}

type SuggestRequest struct {
	Query string `json:"query" validate:"required"`
}

type SuggestResponse struct {
	Suggestions []SuggestionDTO `json:"suggestions"`
}

type SuggestionDTO struct {
	Name        string             `json:"name"`
	Area        string             `json:"area"`
	Coordinates *store.Coordinates `json:"coordinates,omitempty"`
}

// PublishEmbedRestaurantMessage is the payload of an embedding event
// emitted after a restaurant row is written without a vector.
type PublishEmbedRestaurantMessage struct {
	RestaurantId uuid.UUID `json:"restaurant_id"`
}
