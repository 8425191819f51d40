package control

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/NodePath81/netpulse/internal/sample"
)

type liveMessage struct {
	Type      string         `json:"type"`
	Timestamp int64          `json:"timestamp"`
	Sample    *sample.Sample `json:"sample,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Hub fans emitted samples out to live websocket clients. Slow clients
// drop messages rather than block the monitor.
type Hub struct {
	mu        sync.Mutex
	clients   map[*liveClient]struct{}
	broadcast chan liveMessage
	ctxDone   <-chan struct{}
}

type liveClient struct {
	send      chan []byte
	closeOnce sync.Once
}

func NewHub(ctxDone <-chan struct{}) *Hub {
	h := &Hub{
		clients:   make(map[*liveClient]struct{}),
		broadcast: make(chan liveMessage, 128),
		ctxDone:   ctxDone,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.ctxDone:
			h.mu.Lock()
			for client := range h.clients {
				client.close()
			}
			h.clients = make(map[*liveClient]struct{})
			h.mu.Unlock()
			return
		case msg := <-h.broadcast:
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastSample publishes one emitted sample to all live clients.
func (h *Hub) BroadcastSample(smp sample.Sample, sendErr error) {
	msg := liveMessage{
		Type:      "sample",
		Timestamp: time.Now().UnixMilli(),
		Sample:    &smp,
	}
	if sendErr != nil {
		msg.Error = sendErr.Error()
	}
	select {
	case h.broadcast <- msg:
	default:
	}
}

func (h *Hub) register(client *liveClient) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(client *liveClient) {
	h.mu.Lock()
	delete(h.clients, client)
	h.mu.Unlock()
	client.close()
}

func (c *liveClient) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}
