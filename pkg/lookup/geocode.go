package lookup

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/kanishkautag/munchy-mumbai/pkg/store"
)

const geoapifyBaseURL = "https://api.geoapify.com/v1/geocode/search"

// Geocoder resolves free-text addresses via Geoapify. Results are cached
// for 24h since restaurant addresses almost never move.
type Geocoder struct {
	apiKey string
	client *http.Client
	cache  sync.Map
}

type cachedCoords struct {
	coords    *store.Coordinates
	expiresAt time.Time
}

func NewGeocoder(apiKey string) *Geocoder {
	return &Geocoder{
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Locate returns coordinates for the address, or nil when the key is
// missing, the lookup fails, or nothing matches. Geocoding is best-effort
// map garnish; it never produces an error.
func (g *Geocoder) Locate(ctx context.Context, address string) *store.Coordinates {
	if g.apiKey == "" || address == "" {
		return nil
	}

	if val, ok := g.cache.Load(address); ok {
		item := val.(cachedCoords)
		if time.Now().Before(item.expiresAt) {
			return item.coords
		}
		g.cache.Delete(address)
	}

	params := url.Values{}
	params.Add("text", address)
	params.Add("limit", "1")
	params.Add("apiKey", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", geoapifyBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var result struct {
		Features []struct {
			Properties struct {
				Lat float64 `json:"lat"`
				Lon float64 `json:"lon"`
			} `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(body, &result); err != nil || len(result.Features) == 0 {
		return nil
	}

	coords := &store.Coordinates{
		Lat: result.Features[0].Properties.Lat,
		Lng: result.Features[0].Properties.Lon,
	}
	g.cache.Store(address, cachedCoords{coords: coords, expiresAt: time.Now().Add(24 * time.Hour)})

	return coords
}
