package response

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kanishkautag/munchy-mumbai/pkg/llm"
)

func TestRenderHistoryWindows(t *testing.T) {
	var history []llm.Message
	for i := 0; i < 8; i++ {
		history = append(history, llm.Message{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf("turn-%d", i),
		})
	}

	rendered := renderHistory(history)

	if strings.Contains(rendered, "turn-2") {
		t.Error("turn outside the window was rendered")
	}
	for i := 3; i < 8; i++ {
		if !strings.Contains(rendered, fmt.Sprintf("turn-%d", i)) {
			t.Errorf("turn-%d missing from rendered history", i)
		}
	}
	if !strings.Contains(rendered, "USER: turn-7") {
		t.Errorf("roles not uppercased:\n%s", rendered)
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	if got := renderHistory(nil); got != "" {
		t.Errorf("renderHistory(nil) = %q", got)
	}
}
