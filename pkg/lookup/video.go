package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	youtubeSearchURL = "https://www.googleapis.com/youtube/v3/search"
	videoResultLimit = 3
)

// VideoSearch finds food-review videos via the YouTube Data API. A missing
// key yields a distinct degraded string rather than an error, so the
// pipeline can keep going without video coverage.
type VideoSearch struct {
	apiKey string
	client *http.Client
	logger *log.Logger
}

func NewVideoSearch(apiKey string, logger *log.Logger) *VideoSearch {
	return &VideoSearch{
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

func (v *VideoSearch) Search(ctx context.Context, query string) string {
	if v.apiKey == "" {
		return "YouTube API key is not configured."
	}

	params := url.Values{}
	params.Add("part", "snippet")
	params.Add("maxResults", fmt.Sprintf("%d", videoResultLimit))
	params.Add("q", query+" food review mumbai")
	params.Add("type", "video")
	params.Add("key", v.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", youtubeSearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Sprintf("YouTube API error: %v", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Printf("[VIDEO] request failed: %v", err)
		return fmt.Sprintf("YouTube API error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Sprintf("YouTube API error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		v.logger.Printf("[VIDEO] status %d: %s", resp.StatusCode, string(body))
		return fmt.Sprintf("YouTube API error: status %d", resp.StatusCode)
	}

	var apiResponse struct {
		Items []struct {
			Id struct {
				VideoId string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return fmt.Sprintf("YouTube API error: %v", err)
	}
	if len(apiResponse.Items) == 0 {
		return "No video reviews found."
	}

	lines := make([]string, 0, len(apiResponse.Items))
	for _, item := range apiResponse.Items {
		videoURL := "https://www.youtube.com/watch?v=" + item.Id.VideoId
		lines = append(lines, fmt.Sprintf("🎥 %s - %s", item.Snippet.Title, videoURL))
	}
	return strings.Join(lines, "\n")
}
