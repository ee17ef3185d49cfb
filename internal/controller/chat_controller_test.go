package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/kanishkautag/munchy-mumbai/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatService struct {
	lastChat *dto.ChatRequest
}

func (s *stubChatService) SendChat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	s.lastChat = req
	return &dto.ChatResponse{Response: "hello!", Intent: "GENERAL"}, nil
}

func (s *stubChatService) Suggest(ctx context.Context, req *dto.SuggestRequest) (*dto.SuggestResponse, error) {
	return &dto.SuggestResponse{Suggestions: []dto.SuggestionDTO{{Name: "A", Area: "Fort"}}}, nil
}

func newTestApp(svc *stubChatService) *fiber.App {
	app := fiber.New()
	NewChatController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func postJSON(app *fiber.App, path string, payload any) (*httptest.ResponseRecorder, error) {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		return nil, err
	}
	rec := httptest.NewRecorder()
	rec.Code = resp.StatusCode
	_, err = rec.Body.ReadFrom(resp.Body)
	return rec, err
}

func TestSendChatEndpoint(t *testing.T) {
	svc := &stubChatService{}
	app := newTestApp(svc)

	rec, err := postJSON(app, "/api/chat", dto.ChatRequest{Query: "hi", SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, rec.Code)

	var res dto.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "hello!", res.Response)
	assert.Equal(t, "GENERAL", res.Intent)

	require.NotNil(t, svc.lastChat)
	assert.Equal(t, "s1", svc.lastChat.SessionId)
}

func TestSendChatRejectsMissingQuery(t *testing.T) {
	app := newTestApp(&stubChatService{})

	rec, err := postJSON(app, "/api/chat", dto.ChatRequest{SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, rec.Code)
}

func TestSuggestEndpoint(t *testing.T) {
	app := newTestApp(&stubChatService{})

	rec, err := postJSON(app, "/api/suggest", dto.SuggestRequest{Query: "ga"})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, rec.Code)

	var res dto.SuggestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, "A", res.Suggestions[0].Name)
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(&stubChatService{})

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
