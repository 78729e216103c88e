// Package stream broadcasts simulation frames to websocket viewers
package stream

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/lixenwraith/vi-cloth/cloth"
	"github.com/lixenwraith/vi-cloth/core"
	"github.com/lixenwraith/vi-cloth/parameter"
	"github.com/lixenwraith/vi-cloth/physics"
)

var ErrUnknownParam = errors.New("unknown parameter")

// ParamSink receives parameter changes from viewers, satisfied by *cloth.LiveParams
type ParamSink interface {
	Set(f cloth.Field, value float64) float64
	SetWind(on bool)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Local viewer tool
	},
}

// client is one connected viewer with its outbound queue
type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Hub fans simulation events out to websocket clients
// Observer methods run on the stepping goroutine and never block on the network
type Hub struct {
	params ParamSink

	mu            sync.RWMutex
	clients       map[*client]struct{}
	springs       map[physics.SpringID][2]physics.ParticleID
	topologyDirty bool
	frames        uint64
	closed        bool
}

// NewHub creates a hub applying inbound control messages to params, nil ignores them
func NewHub(params ParamSink) *Hub {
	return &Hub{
		params:  params,
		clients: make(map[*client]struct{}),
		springs: make(map[physics.SpringID][2]physics.ParticleID),
	}
}

// ClientCount returns the number of connected viewers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Reset forgets the tracked topology, call before attaching to a new simulation
func (h *Hub) Reset() {
	h.mu.Lock()
	clear(h.springs)
	h.topologyDirty = true
	h.frames = 0
	h.mu.Unlock()
}

func (h *Hub) SpringCreated(s physics.Spring) {
	h.mu.Lock()
	h.springs[s.ID] = [2]physics.ParticleID{s.A, s.B}
	h.topologyDirty = true
	h.mu.Unlock()
}

func (h *Hub) SpringRemoved(s physics.Spring, reason cloth.RemoveReason) {
	h.mu.Lock()
	delete(h.springs, s.ID)
	h.mu.Unlock()

	h.broadcast(SpringRemovedMessage{
		Type:   TypeSpringRemoved,
		ID:     int32(s.ID),
		A:      int32(s.A),
		B:      int32(s.B),
		Reason: reason.String(),
	})
}

func (h *Hub) SurfaceRemoved(physics.Surface) {}

// FrameDone sends topology if it changed since the last frame, then every StreamFrameEvery-th frame
func (h *Hub) FrameDone(f cloth.Frame) {
	h.mu.Lock()
	dirty := h.topologyDirty
	h.topologyDirty = false
	h.frames++
	send := (h.frames-1)%parameter.StreamFrameEvery == 0
	var topo TopologyMessage
	if dirty {
		topo = h.topologyLocked()
	}
	h.mu.Unlock()

	if dirty {
		h.broadcast(topo)
	}
	if !send {
		return
	}

	msg := FrameMessage{
		Type:      TypeFrame,
		Tick:      f.Tick,
		Positions: make([][3]float64, len(f.Positions)),
		Springs:   f.Springs,
		Surfaces:  f.Surfaces,
	}
	for i, p := range f.Positions {
		msg.Positions[i] = [3]float64{p.X, p.Y, p.Z}
	}
	h.broadcast(msg)
}

// topologyLocked builds the spring list ordered by id
func (h *Hub) topologyLocked() TopologyMessage {
	msg := TopologyMessage{Type: TypeTopology, Springs: make([][3]int32, 0, len(h.springs))}
	for id, ends := range h.springs {
		msg.Springs = append(msg.Springs, [3]int32{int32(id), int32(ends[0]), int32(ends[1])})
	}
	sort.Slice(msg.Springs, func(i, j int) bool { return msg.Springs[i][0] < msg.Springs[j][0] })
	return msg
}

// broadcast queues v on every client, dropping it for clients whose queue is full
func (h *Hub) broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("stream: marshal %T: %v", v, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// ServeHTTP upgrades the request to a websocket viewer connection
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("stream: upgrade: %v", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, parameter.StreamClientBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	// Initial topology goes ahead of any frame, the queue is empty so this never blocks
	if data, err := json.Marshal(h.topologyLocked()); err == nil {
		c.send <- data
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	core.Go(func() { h.writePump(c) })
	h.readPump(c)
}

// readPump applies control messages until the connection fails
func (h *Hub) readPump(c *client) {
	defer h.remove(c)

	c.conn.SetReadLimit(parameter.StreamMaxMessage)
	c.conn.SetReadDeadline(time.Now().Add(parameter.StreamPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(parameter.StreamPongWait))
	})

	for {
		var msg ControlMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("stream: read: %v", err)
			}
			return
		}
		if err := h.apply(msg); err != nil {
			log.Printf("stream: control: %v", err)
		}
	}
}

// apply routes a control message to the parameter sink
func (h *Hub) apply(msg ControlMessage) error {
	if h.params == nil {
		return nil
	}
	if msg.Wind != nil {
		h.params.SetWind(*msg.Wind)
	}
	if msg.Param == "" || msg.Value == nil {
		return nil
	}
	f, ok := cloth.ParseField(msg.Param)
	if !ok {
		return errors.Wrapf(ErrUnknownParam, "%q", msg.Param)
	}
	h.params.Set(f, *msg.Value)
	return nil
}

// writePump drains the client queue and keeps the connection alive
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(parameter.StreamPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(parameter.StreamWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(parameter.StreamWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}

// Close disconnects every viewer and rejects new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}

// Server returns an HTTP server routing the websocket endpoint to h
func (h *Hub) Server(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(parameter.StreamPath, h)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
