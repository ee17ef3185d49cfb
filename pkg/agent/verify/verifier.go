// Package verify derives the merged generation context and the filtered
// video list from a ResultBag. Everything here is a pure function of its
// inputs: no I/O, no failure modes.
package verify

import (
	"fmt"
	"strings"

	"github.com/kanishkautag/munchy-mumbai/pkg/store"
)

// minSharedWordLen is the exclusive lower bound for a query word to count
// as evidence that a video title is about the query.
const minSharedWordLen = 3

// Merge assembles the labeled context sections in fixed priority order
// (structured, semantic, web) and filters the raw video lines against the
// query. Fields absent from the bag produce no section.
func Merge(bag *store.ResultBag, query string) (string, []string) {
	var context strings.Builder

	if sql := deref(bag.SQLData); sql != "" {
		context.WriteString(fmt.Sprintf("🔥 OFFICIAL DB:\n%s\n\n", sql))
	}
	if rag := deref(bag.RAGData); rag != "" {
		context.WriteString(fmt.Sprintf("✨ VIBE MATCHES:\n%s\n\n", rag))
	}
	if web := deref(bag.WebData); web != "" {
		context.WriteString(fmt.Sprintf("🌍 WEB RESULTS:\n%s\n", web))
	}

	return context.String(), FilterVideos(deref(bag.YouTubeData), query)
}

// FilterVideos keeps only lines that carry a link and share at least one
// sufficiently long query word, case-insensitive. Provider order is
// preserved, and filtering an already-filtered list is a no-op.
func FilterVideos(raw string, query string) []string {
	valid := []string{}
	if raw == "" {
		return valid
	}

	queryWords := []string{}
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if len(word) > minSharedWordLen {
			queryWords = append(queryWords, word)
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		if !strings.Contains(line, "http") {
			continue
		}
		lower := strings.ToLower(line)
		for _, word := range queryWords {
			if strings.Contains(lower, word) {
				valid = append(valid, line)
				break
			}
		}
	}
	return valid
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
