package memory

import (
	"testing"

	"github.com/kanishkautag/munchy-mumbai/pkg/llm"
	"github.com/kanishkautag/munchy-mumbai/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestSessionRepositoryRoundTrip(t *testing.T) {
	repo := NewSessionRepository()

	_, found := repo.Get("missing")
	assert.False(t, found)

	session := &store.Session{
		ID:      "abc",
		History: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	}
	repo.Save(session)

	got, found := repo.Get("abc")
	assert.True(t, found)
	assert.Equal(t, session, got)

	repo.Delete("abc")
	_, found = repo.Get("abc")
	assert.False(t, found)
}

func TestSessionRepositorySaveOverwrites(t *testing.T) {
	repo := NewSessionRepository()

	repo.Save(&store.Session{ID: "s"})
	repo.Save(&store.Session{ID: "s", History: []llm.Message{{Role: llm.RoleUser, Content: "second"}}})

	got, found := repo.Get("s")
	assert.True(t, found)
	assert.Len(t, got.History, 1)
}
