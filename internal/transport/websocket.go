package transport

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/GoMudEngine/blightscript/internal/events"
	"github.com/GoMudEngine/blightscript/internal/model"
)

// WebSocketSession is the optional transport for MUDs that expose a
// websocket relay instead of raw telnet (new relative to spec.md's text,
// additive per SPEC_FULL.md §4.4 — not excluded by any Non-goal, and the
// donor's own dependency graph already carries gorilla/websocket for
// exactly this purpose).
type WebSocketSession struct {
	conn *websocket.Conn
	bus  chan<- events.Event
	done chan struct{}
}

// DialWebSocket connects to a ws:// or wss:// relay.
func DialWebSocket(rawURL string, bus chan<- events.Event) (*WebSocketSession, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	dialer := websocket.Dialer{HandshakeTimeout: connectTimeout}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return &WebSocketSession{conn: conn, bus: bus, done: make(chan struct{})}, nil
}

// IsWebSocketURL reports whether rawURL names a ws:// or wss:// relay
// rather than a bare host:port telnet target, the per-connection
// transport selector SPEC_FULL.md §4.4 describes.
func IsWebSocketURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == "ws" || u.Scheme == "wss"
}

// Run drives the read loop: each text frame is treated as one server
// line, mirroring the telnet transport's per-line ServerInput events.
// Binary frames carry telnet-style subnegotiation payloads framed as
// {code byte, payload...} so script-facing behavior (GMCP etc.) is
// identical across transports.
func (s *WebSocketSession) Run(connectionID uint16) {
	defer close(s.done)
	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			s.bus <- events.Disconnect()
			s.bus <- events.Info(fmt.Sprintf("connection %d: %v", connectionID, err))
			return
		}
		switch msgType {
		case websocket.TextMessage:
			s.bus <- events.ServerInput(model.FromString(string(data)))
		case websocket.BinaryMessage:
			if len(data) > 0 {
				s.bus <- events.ProtoSubnegRecv(data[0], data[1:])
			}
		}
	}
}

// Send writes one text frame.
func (s *WebSocketSession) Send(text string) {
	_ = s.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// SendSubneg writes one binary frame carrying {code, payload...}.
func (s *WebSocketSession) SendSubneg(code byte, payload []byte) {
	frame := append([]byte{code}, payload...)
	_ = s.conn.WriteMessage(websocket.BinaryMessage, frame)
}

// Close terminates the websocket connection.
func (s *WebSocketSession) Close() error {
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return s.conn.Close()
}
