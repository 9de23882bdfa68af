// Package websocket implements a WebSocket Hub for broadcasting real-time score
// updates. WebSockets are persistent two-way connections, so the server can push
// data to clients the moment an admin saves a week of scores — members watching
// the league page see the numbers change without polling.
//
// Connections are grouped by league slug: score updates for one league only go
// to the clients watching that league.
package websocket

import "sync" // sync provides synchronization primitives like mutexes for safe concurrent access

// Client represents a single connected WebSocket client.
// Each member watching a league has one Client instance on the server.
type Client struct {
	LeagueSlug string      // Which league this client is watching — routes messages to the right audience
	Send       chan []byte // Buffered channel of outgoing messages; the Hub sends data here, the WebSocket writes it to the client
}

// Message is a unit of data to broadcast to all clients watching a league.
type Message struct {
	LeagueSlug string
	Data       []byte // The raw bytes to send (typically JSON-encoded score data)
}

// Hub manages all active WebSocket connections, grouped by league slug.
// It runs in its own goroutine and processes registration, unregistration, and
// broadcast events through channels — this keeps all map mutation on a single
// goroutine, which avoids data races (concurrent map writes panic in Go).
type Hub struct {
	// clients is a nested map: leagueSlug -> set of Client pointers.
	// A map[*Client]bool as a "set" is a common Go idiom since Go has no set type.
	clients map[string]map[*Client]bool

	broadcast  chan *Message // Incoming messages to fan out to a league's watchers
	register   chan *Client  // A new client connected and should be tracked
	unregister chan *Client  // A client disconnected and should be removed

	// mu protects the clients map for the broadcast path's reads (RLock) while
	// the main loop mutates it (Lock). An RWMutex allows many concurrent readers
	// OR one writer — a fit since broadcasts only read the client list.
	mu sync.RWMutex
}

// NewHub creates and initializes a Hub with empty channels and maps.
// The broadcast channel has a buffer of 256 so writers don't block immediately
// if the Hub goroutine is briefly busy. register and unregister are unbuffered
// because those operations need to complete synchronously.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the Hub's main event loop. It must be called in a goroutine ("go hub.Run()").
// It blocks forever, processing one event at a time via a select statement.
func (h *Hub) Run() {
	for {
		select {

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.LeagueSlug] == nil {
				h.clients[client.LeagueSlug] = make(map[*Client]bool)
			}
			h.clients[client.LeagueSlug][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.LeagueSlug]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send) // Closing the channel signals the writer goroutine to stop
					// Drop the league's map entry when its last watcher leaves
					if len(clients) == 0 {
						delete(h.clients, client.LeagueSlug)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			clients := h.clients[msg.LeagueSlug]
			h.mu.RUnlock()

			for client := range clients {
				select {
				case client.Send <- msg.Data:
				// If the buffer is full, the client is too slow — unregister it
				// rather than blocking the broadcast loop for everyone else.
				default:
					h.unregister <- client
				}
			}
		}
	}
}

// BroadcastToLeague sends data to all clients currently watching the given
// league. This is the public API the score-entry handler calls after a save.
func (h *Hub) BroadcastToLeague(leagueSlug string, data []byte) {
	h.broadcast <- &Message{LeagueSlug: leagueSlug, Data: data}
}

// Register adds a client so it starts receiving broadcasts for its league.
// Called when a WebSocket connection is opened.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client when its WebSocket connection closes.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
