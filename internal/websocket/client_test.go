package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nextReply pops the next queued frame without a connection
func nextReply(t *testing.T, c *Client) controlReply {
	t.Helper()
	select {
	case data := <-c.send:
		var reply controlReply
		require.NoError(t, json.Unmarshal(data, &reply))
		return reply
	default:
		t.Fatal("expected a queued reply")
		return controlReply{}
	}
}

func TestClient_StartsSubscribedToEverything(t *testing.T) {
	c := NewClient(nil, "anonymous", NewHub())

	for _, entity := range FeedEntities {
		assert.True(t, c.Wants(entity), entity)
	}
}

func TestClient_HandleFrame_Subscribe(t *testing.T) {
	c := NewClient(nil, "auth0|1", NewHub())

	c.handleFrame([]byte(`{"action":"subscribe","entities":["Transaction"," budget ",""]}`))

	reply := nextReply(t, c)
	assert.Equal(t, "subscribed", reply.Type)
	assert.Equal(t, []EntityType{EntityTypeBudget, EntityTypeTransaction}, reply.Entities)
	assert.True(t, c.Wants(EntityTypeBudget))
	assert.True(t, c.Wants(EntityTypeTransaction))
	assert.False(t, c.Wants(EntityTypeCategory))
	assert.False(t, c.Wants(EntityTypeMonthlySummary))

	// An empty list goes back to every entity
	c.handleFrame([]byte(`{"action":"subscribe","entities":[]}`))
	reply = nextReply(t, c)
	assert.Equal(t, "subscribed", reply.Type)
	assert.Empty(t, reply.Entities)
	assert.True(t, c.Wants(EntityTypeCategory))
}

func TestClient_HandleFrame_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		frame   string
		wantErr string
	}{
		{"malformed", `{"action":`, "malformed frame"},
		{"unknown entity", `{"action":"subscribe","entities":["budget","wishlist"]}`, "unknown entities: wishlist"},
		{"unknown action", `{"action":"shout"}`, "unknown action shout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(nil, "anonymous", NewHub())
			c.Subscribe(NewSubscription(EntityTypeBudget))

			c.handleFrame([]byte(tt.frame))

			reply := nextReply(t, c)
			assert.Equal(t, "error", reply.Type)
			assert.Equal(t, tt.wantErr, reply.Error)
			// The previous subscription survives a rejected frame
			assert.True(t, c.Wants(EntityTypeBudget))
			assert.False(t, c.Wants(EntityTypeTransaction))
		})
	}
}

func TestClient_HandleFrame_Ping(t *testing.T) {
	c := NewClient(nil, "anonymous", NewHub())

	c.handleFrame([]byte(`{"action":"ping"}`))

	assert.Equal(t, "pong", nextReply(t, c).Type)
}

func TestClient_SendAfterClose(t *testing.T) {
	c := NewClient(nil, "anonymous", NewHub())

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	assert.True(t, c.IsClosed())
	assert.ErrorIs(t, c.Send([]byte("x")), ErrClientClosed)
}

func TestParseSubscription(t *testing.T) {
	sub, err := ParseSubscription([]string{"monthly_summary", "CATEGORY"})
	require.NoError(t, err)
	assert.Equal(t, []EntityType{EntityTypeCategory, EntityTypeMonthlySummary}, sub.Entities())

	all, err := ParseSubscription(nil)
	require.NoError(t, err)
	assert.Nil(t, all.Entities())
	assert.True(t, all.Includes(EntityTypeSnapshot))

	_, err = ParseSubscription([]string{"loans"})
	assert.EqualError(t, err, "unknown entities: loans")
}
