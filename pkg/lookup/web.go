package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	tavilyBaseURL  = "https://api.tavily.com"
	duckDuckGoURL  = "https://html.duckduckgo.com/html/"
	webResultLimit = 3
)

// WebSearch pulls review chatter from the open web. Tavily is the primary
// engine; when no key is configured or the call fails we fall back to
// DuckDuckGo's HTML endpoint, which needs no key. Both failing degrades to
// an explanatory string, never an error.
type WebSearch struct {
	tavilyKey string
	tavilyURL string
	client    *http.Client
	logger    *log.Logger
}

func NewWebSearch(tavilyKey string, logger *log.Logger) *WebSearch {
	return &WebSearch{
		tavilyKey: tavilyKey,
		tavilyURL: tavilyBaseURL,
		client:    &http.Client{Timeout: 30 * time.Second},
		logger:    logger,
	}
}

func (w *WebSearch) Search(ctx context.Context, query string) string {
	if w.tavilyKey != "" {
		result, err := w.searchTavily(ctx, query+" reviews reddit mumbai")
		if err == nil {
			return result
		}
		w.logger.Printf("[WEB] tavily failed, switching to duckduckgo: %v", err)
	}

	result, err := w.searchDuckDuckGo(ctx, "site:reddit.com/r/mumbai "+query+" review")
	if err != nil {
		return fmt.Sprintf("Web search error (both providers failed): %v", err)
	}
	return result
}

func (w *WebSearch) searchTavily(ctx context.Context, query string) (string, error) {
	requestBody := map[string]interface{}{
		"api_key":        w.tavilyKey,
		"query":          query,
		"search_depth":   "basic",
		"include_answer": false,
		"include_images": false,
		"max_results":    webResultLimit,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.tavilyURL+"/search", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tavily status %d: %s", resp.StatusCode, string(body))
	}

	var apiResponse struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return "", fmt.Errorf("parse tavily response: %w", err)
	}
	if len(apiResponse.Results) == 0 {
		return "No web results found.", nil
	}

	lines := make([]string, 0, len(apiResponse.Results))
	for _, r := range apiResponse.Results {
		lines = append(lines, fmt.Sprintf("- %s (%s)", r.Content, r.URL))
	}
	return strings.Join(lines, "\n"), nil
}

func (w *WebSearch) searchDuckDuckGo(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Add("q", query)

	req, err := http.NewRequestWithContext(ctx, "GET", duckDuckGoURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; MunchyMumbai/1.0)")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 200*1024))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("duckduckgo status %d", resp.StatusCode)
	}

	text := extractTextFromHTML(string(body))
	if text == "" {
		return "No web results found.", nil
	}
	if len(text) > 1500 {
		text = text[:1500]
	}
	return text, nil
}

var (
	scriptRe = regexp.MustCompile(`(?s)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

func extractTextFromHTML(html string) string {
	text := scriptRe.ReplaceAllString(html, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
