package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	sub      Subscription
	messages [][]byte
	mu       sync.Mutex
	closed   bool
}

func newMockClient(id string) *mockClient {
	return &mockClient{
		id:       id,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) Subject() string {
	return "anonymous"
}

func (m *mockClient) Wants(entity EntityType) bool {
	return m.sub.Includes(entity)
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	client1 := newMockClient("client-1")
	client2 := newMockClient("client-2")

	hub.Register(client1)
	hub.Register(client2)
	assert.Equal(t, 2, hub.ClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(client2)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Broadcast_FanOut(t *testing.T) {
	hub := NewHub()

	clients := make([]*mockClient, 5)
	for i := range clients {
		clients[i] = newMockClient(fmt.Sprintf("client-%d", i))
		hub.Register(clients[i])
	}

	hub.Broadcast(Updated(EntityTypeBudget, map[string]interface{}{"id": float64(1)}))

	// Sends are asynchronous
	require.Eventually(t, func() bool {
		for _, c := range clients {
			if len(c.GetMessages()) != 1 {
				return false
			}
		}
		return true
	}, time.Second, 5*time.Millisecond)
}

func TestHub_Broadcast_SkipsUnregistered(t *testing.T) {
	hub := NewHub()

	stays := newMockClient("stays")
	leaves := newMockClient("leaves")
	hub.Register(stays)
	hub.Register(leaves)
	hub.Unregister(leaves)

	hub.Broadcast(Deleted(EntityTypeCategory, 7))

	require.Eventually(t, func() bool {
		return len(stays.GetMessages()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, leaves.GetMessages())
}

func TestHub_Broadcast_FiltersBySubscription(t *testing.T) {
	hub := NewHub()

	everything := newMockClient("everything")
	budgets := newMockClient("budgets")
	budgets.sub = NewSubscription(EntityTypeBudget)
	ledger := newMockClient("ledger")
	ledger.sub = NewSubscription(EntityTypeTransaction, EntityTypeMonthlySummary)
	for _, c := range []*mockClient{everything, budgets, ledger} {
		hub.Register(c)
	}

	hub.Broadcast(Created(EntityTypeBudget, map[string]interface{}{"id": float64(1)}))
	hub.Broadcast(Updated(EntityTypeTransaction, map[string]interface{}{"id": float64(2)}))
	hub.Broadcast(Deleted(EntityTypeMonthlySummary, 3))
	hub.Broadcast(Deleted(EntityTypeCategory, 4))

	require.Eventually(t, func() bool {
		return len(everything.GetMessages()) == 4 &&
			len(budgets.GetMessages()) == 1 &&
			len(ledger.GetMessages()) == 2
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"budget.created"}, eventTypes(t, budgets.GetMessages()))
	assert.ElementsMatch(t, []string{"transaction.updated", "monthly_summary.deleted"}, eventTypes(t, ledger.GetMessages()))
}

func TestHub_Broadcast_NoSubscriberForEntity(t *testing.T) {
	hub := NewHub()
	budgets := newMockClient("budgets")
	budgets.sub = NewSubscription(EntityTypeBudget)
	hub.Register(budgets)

	hub.Broadcast(Created(EntityTypeSnapshot, map[string]string{"id": "abc"}))

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, budgets.GetMessages())
}

func eventTypes(t *testing.T, messages [][]byte) []string {
	t.Helper()
	types := make([]string, 0, len(messages))
	for _, m := range messages {
		var event Event
		require.NoError(t, json.Unmarshal(m, &event))
		types = append(types, event.Type)
	}
	return types
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	clientCount := 50

	clients := make([]*mockClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = newMockClient(fmt.Sprintf("client-%d", i))
	}

	for i := 0; i < clientCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Register(clients[idx])
		}(i)
	}
	wg.Wait()
	assert.Equal(t, clientCount, hub.ClientCount())

	for i := 0; i < clientCount; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			hub.Broadcast(Created(EntityTypeTransaction, map[string]interface{}{"id": float64(idx)}))
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_UnregisterNonexistent(t *testing.T) {
	hub := NewHub()

	// Should not panic when unregistering a client that was never registered
	require.NotPanics(t, func() {
		hub.Unregister(newMockClient("client-1"))
	})
}

func TestHub_BroadcastWithNoClients(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Broadcast(Created(EntityTypeTransaction, map[string]interface{}{"id": float64(1)}))
	})
}
