package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewChatSession(t *testing.T) {
	session := NewChatSession("session-1")

	assert.Equal(t, "session-1", session.ID)
	assert.False(t, session.StartedAt.IsZero())
	assert.Zero(t, session.Len())
}

func TestChatSession_AddTurn_PreservesOrder(t *testing.T) {
	session := NewChatSession("session-1")

	session.AddTurn(ChatTurn{ID: "turn-1", Question: "first?", Answer: "one"})
	session.AddTurn(ChatTurn{ID: "turn-2", Question: "second?", Answer: "two"})

	assert.Equal(t, 2, session.Len())
	assert.Equal(t, "turn-1", session.Turns[0].ID)
	assert.Equal(t, "turn-2", session.Turns[1].ID)
}

func TestChatTurn_CarriesMetadata(t *testing.T) {
	turn := ChatTurn{
		ID:       "turn-1",
		Question: "what is alpha?",
		Answer:   "Alpha is first.",
		Sources: []Citation{
			{Source: "alpha.md", ChunkIndex: 0},
		},
		Model:         "llama-3.1-8b-instant",
		Elapsed:       1200 * time.Millisecond,
		LowConfidence: true,
		AskedAt:       time.Now(),
	}

	assert.Len(t, turn.Sources, 1)
	assert.True(t, turn.LowConfidence)
	assert.Equal(t, 1200*time.Millisecond, turn.Elapsed)
}
