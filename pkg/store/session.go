package store

import "github.com/kanishkautag/munchy-mumbai/pkg/llm"

// Session holds the rolling conversation for one chat session in memory.
// The pipeline never mutates it; the service layer appends turns after
// each completed request.
type Session struct {
	ID      string        `json:"id"`
	History []llm.Message `json:"history"`
}

// HistoryWindow is how many recent turns the service keeps per session.
const HistoryWindow = 6

// Tail returns the last n turns without copying the backing array.
func (s *Session) Tail(n int) []llm.Message {
	if len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}
