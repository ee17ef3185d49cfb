package lookup

import (
	"context"
	"io"
	"log"
	"testing"
)

func TestVideoSearchWithoutKey(t *testing.T) {
	v := NewVideoSearch("", log.New(io.Discard, "", 0))

	got := v.Search(context.Background(), "biryani")
	if got != "YouTube API key is not configured." {
		t.Errorf("Search() = %q", got)
	}
}
