package parameter

import "time"

// Frame streaming to websocket viewers
const (
	// StreamFrameEvery sends one of every N simulation frames
	StreamFrameEvery = 3
	// StreamClientBuffer is the per-client queue depth, full queues drop frames
	StreamClientBuffer = 8
	// StreamWriteWait bounds a single websocket write
	StreamWriteWait = 2 * time.Second
	// StreamPongWait is how long a client may stay silent
	StreamPongWait = 30 * time.Second
	// StreamPingPeriod must be shorter than StreamPongWait
	StreamPingPeriod = StreamPongWait * 9 / 10
	// StreamMaxMessage caps inbound message size
	StreamMaxMessage = 4096
	// StreamPath is the websocket endpoint
	StreamPath = "/ws"
)
