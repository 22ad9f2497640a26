package notify

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YS8610/matcha-backend/internal/matching"
)

type fakePresence struct {
	mu     sync.Mutex
	states map[int64]bool
}

func newFakePresence() *fakePresence {
	return &fakePresence{states: make(map[int64]bool)}
}

func (p *fakePresence) SetOnline(_ context.Context, userID int64, online bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states[userID] = online
	return nil
}

func (p *fakePresence) online(userID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.states[userID]
}

func startHub(t *testing.T, presence PresenceStore) *Hub {
	t.Helper()
	hub := NewHub(presence)
	go hub.Run()
	t.Cleanup(hub.Shutdown)
	return hub
}

// connect registers a connection-less client and waits until the hub
// has picked it up.
func connect(t *testing.T, hub *Hub, userID int64) *Client {
	t.Helper()

	client := NewClient(hub, nil, userID)
	hub.register <- client

	require.Eventually(t, func() bool {
		return hub.IsUserOnline(userID)
	}, time.Second, 5*time.Millisecond)
	return client
}

func receive(t *testing.T, client *Client) WSMessage {
	t.Helper()

	select {
	case data := <-client.send:
		var msg WSMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return WSMessage{}
	}
}

func TestHubDeliversEventToRecipient(t *testing.T) {
	hub := startHub(t, nil)
	client := connect(t, hub, 2)

	hub.Notify(context.Background(), matching.Event{
		FromUserID: 1,
		ToUserID:   2,
		Type:       matching.EventLike,
	})

	msg := receive(t, client)
	assert.Equal(t, "like", msg.Type)
	assert.NotEmpty(t, msg.ID)

	var event matching.Event
	require.NoError(t, json.Unmarshal(msg.Data, &event))
	assert.Equal(t, int64(1), event.FromUserID)
	assert.Equal(t, int64(2), event.ToUserID)
}

func TestHubEventPayloadFieldNames(t *testing.T) {
	hub := startHub(t, nil)
	client := connect(t, hub, 2)

	hub.Notify(context.Background(), matching.Event{FromUserID: 1, ToUserID: 2, Type: matching.EventMatch})

	msg := receive(t, client)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Contains(t, payload, "fromUserId")
	assert.Contains(t, payload, "toUserId")
	assert.Contains(t, payload, "type")
}

func TestHubDropsEventsForOfflineUsers(t *testing.T) {
	hub := startHub(t, nil)

	// Must not panic or block.
	hub.Notify(context.Background(), matching.Event{FromUserID: 1, ToUserID: 99, Type: matching.EventLike})
	assert.False(t, hub.IsUserOnline(99))
}

func TestHubTracksPresence(t *testing.T) {
	presence := newFakePresence()
	hub := startHub(t, presence)

	client := connect(t, hub, 5)
	require.Eventually(t, func() bool {
		return presence.online(5)
	}, time.Second, 5*time.Millisecond)

	hub.disconnect(client)
	require.Eventually(t, func() bool {
		return !hub.IsUserOnline(5)
	}, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		return !presence.online(5)
	}, time.Second, 5*time.Millisecond)
}

// Delivery must never send on a channel that a concurrent disconnect
// has closed. Hammering Notify while the user's connection is replaced
// (which closes the previous send channel under the write lock) crashes
// the process if the send happens outside the read lock.
func TestHubNotifyRacesDisconnect(t *testing.T) {
	hub := startHub(t, nil)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			event := matching.Event{FromUserID: 1, ToUserID: 2, Type: matching.EventLike}
			for {
				select {
				case <-stop:
					return
				default:
					hub.Notify(context.Background(), event)
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		// Each registration closes the previous connection's send
		// channel while notifies are in flight.
		hub.register <- NewClient(hub, nil, 2)
	}

	close(stop)
	wg.Wait()
}

func TestHubReplacesDuplicateConnection(t *testing.T) {
	hub := startHub(t, nil)

	connect(t, hub, 9)
	connect(t, hub, 9)

	assert.Equal(t, 1, hub.ActiveConnections())
}
