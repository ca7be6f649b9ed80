package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationDecode(t *testing.T) {
	payload := []byte(`{
		"_id": "n1",
		"type": "comment",
		"user": {"_id": "u2", "username": "bob"},
		"target": {"type": "debate", "id": "e1", "title": "Tabs vs spaces"},
		"comment": {"text": "spaces, obviously"},
		"read": false,
		"createdAt": "2024-06-15T12:00:00Z"
	}`)

	var n Notification
	require.NoError(t, json.Unmarshal(payload, &n))
	assert.Equal(t, NotificationComment, n.Type)
	require.NotNil(t, n.Comment)
	assert.Equal(t, "spaces, obviously", n.Comment.Text)
	require.NotNil(t, n.Target)
	assert.Equal(t, "e1", n.Target.Id)
	assert.False(t, n.Read)
}
