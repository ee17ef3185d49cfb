package store

// Coordinates is a geocoded point for the map view.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ResultBag accumulates provider output for one in-flight request.
// Every field is optional: a nil pointer means the source was never
// consulted, a pointer to an empty or explanatory string means it was
// consulted and degraded. The bag is created empty by the retrieval
// stage, read-only afterwards, and dropped when the request completes.
type ResultBag struct {
	SQLData     *string
	RAGData     *string
	WebData     *string
	YouTubeData *string

	Coordinates *Coordinates
	Discovery   []string
}

// SuggestionEntry is one autocomplete hit for the suggest endpoint.
type SuggestionEntry struct {
	Name        string       `json:"name"`
	Area        string       `json:"area"`
	Coordinates *Coordinates `json:"coordinates"`
}
