package stream

// Message types sent to viewers
const (
	TypeTopology      = "topology"
	TypeFrame         = "frame"
	TypeSpringRemoved = "spring_removed"
)

// TopologyMessage lists every active spring, sent on connect and after a restart
type TopologyMessage struct {
	Type    string     `json:"type"`
	Springs [][3]int32 `json:"springs"` // id, a, b
}

// FrameMessage carries particle positions after a tick
type FrameMessage struct {
	Type      string       `json:"type"`
	Tick      uint64       `json:"tick"`
	Positions [][3]float64 `json:"positions"`
	Springs   int          `json:"springs"`
	Surfaces  int          `json:"surfaces"`
}

// SpringRemovedMessage reports a spring leaving the active set
type SpringRemovedMessage struct {
	Type   string `json:"type"`
	ID     int32  `json:"id"`
	A      int32  `json:"a"`
	B      int32  `json:"b"`
	Reason string `json:"reason"`
}

// ControlMessage is sent by viewers to adjust live parameters
// Param/Value set one parameter, Wind toggles wind when present
type ControlMessage struct {
	Param string   `json:"param,omitempty"`
	Value *float64 `json:"value,omitempty"`
	Wind  *bool    `json:"wind,omitempty"`
}
