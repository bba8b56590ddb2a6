package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationID(t *testing.T) {
	assert.Equal(t, "u1_u2", ConversationID("u1", "u2"))
	assert.Equal(t, "u1_u2", ConversationID("u2", "u1"))
	assert.Equal(t, "abc_xyz", ConversationID("xyz", "abc"))
	assert.Equal(t, "a_a", ConversationID("a", "a"))
}
