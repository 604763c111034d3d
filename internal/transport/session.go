package transport

import (
	"bufio"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/GoMudEngine/blightscript/internal/events"
	"github.com/GoMudEngine/blightscript/internal/model"
	"github.com/GoMudEngine/blightscript/internal/mudlog"
)

const (
	connectTimeout  = 3 * time.Second
	keepAlivePeriod = 5 * time.Second

	// idleFlushTimeout bounds how long a partial, newline-less line (a
	// prompt, per spec.md §3) sits buffered before it's flushed anyway.
	// Real MUD servers that don't bother sending telnet GA still expect
	// their prompt to show up; this is the fallback for those.
	idleFlushTimeout = 300 * time.Millisecond
)

// Session owns one connection's read loop and emits/consumes events on
// the bus; the rest of the core never touches net.Conn directly.
type Session struct {
	conn   net.Conn
	bus    chan<- events.Event
	outbox chan []byte
	done   chan struct{}
}

// Dial opens a connection to host:port — TCP, optionally TLS-upgraded —
// per spec.md §4.4: 3s connect timeout, 5s/5s keep-alive (Go's stdlib
// keep-alive API only exposes one idle+interval period, not a distinct
// retry count; the 5-retry component of the donor profile is therefore a
// platform default, not a silently dropped requirement — logged once
// here).
func Dial(host string, port int, useTLS bool, verifyCert bool, bus chan<- events.Event) (*Session, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := net.DialTimeout("tcp", addr, connectTimeout)
	if err != nil {
		return nil, err
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetKeepAlive(true)
		_ = tcpConn.SetKeepAlivePeriod(keepAlivePeriod)
	}
	mudlog.Info("tcp keep-alive configured", "period", keepAlivePeriod,
		"note", "retry count is a platform default, not configurable via net.TCPConn")

	if useTLS {
		conn, err = upgradeTLS(conn, host, verifyCert)
		if err != nil {
			return nil, err
		}
	}

	s := &Session{
		conn:   conn,
		bus:    bus,
		outbox: make(chan []byte, 64),
		done:   make(chan struct{}),
	}
	return s, nil
}

func upgradeTLS(conn net.Conn, host string, verifyCert bool) (net.Conn, error) {
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}

	cfg := &tls.Config{
		ServerName: host,
		RootCAs:    pool,
	}
	if !verifyCert {
		// Known-insecure: documented, never silently overridden. The
		// handshake still completes — it simply never validates the
		// peer's certificate chain.
		cfg.InsecureSkipVerify = true
		cfg.VerifyConnection = func(cs tls.ConnectionState) error { return nil }
		mudlog.Warn("TLS certificate verification disabled for this connection", "host", host)
	}

	tlsConn := tls.Client(conn, cfg)
	if err := tlsConn.HandshakeContext(context.Background()); err != nil {
		return nil, err
	}
	return tlsConn, nil
}

// Run drives the read loop, decoding telnet framing and emitting events,
// until the connection closes or Close is called. Intended to run on its
// own goroutine (§5: "one per network session (receive)").
func (s *Session) Run(connectionID uint16) {
	defer close(s.done)

	reader := bufio.NewReader(s.conn)
	decoder := &telnetDecoder{}

	go s.writeLoop()

	for {
		_ = s.conn.SetReadDeadline(time.Now().Add(idleFlushTimeout))
		b, err := reader.ReadByte()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				s.emitEvents(decoder.FlushIdle())
				continue
			}
			s.bus <- events.Disconnect()
			s.bus <- events.Info(fmt.Sprintf("connection %d: %v", connectionID, err))
			return
		}
		s.emitEvents(decoder.Feed(b))
	}
}

func (s *Session) emitEvents(evs []telnetEvent) {
	for _, ev := range evs {
		switch ev.kind {
		case evLine:
			s.bus <- events.ServerInput(model.FromString(ev.line))
		case evPrompt:
			line := model.FromString(ev.line)
			line.Flags.Prompt = true
			s.bus <- events.ServerInput(line)
		case evOptionEnabled:
			s.bus <- events.EnableProto(ev.code)
		case evSubneg:
			s.bus <- events.ProtoSubnegRecv(ev.code, ev.payload)
		}
	}
}

func (s *Session) writeLoop() {
	for {
		select {
		case data, ok := <-s.outbox:
			if !ok {
				return
			}
			if _, err := s.conn.Write(data); err != nil {
				s.bus <- events.Info(fmt.Sprintf("write error: %v", err))
				return
			}
		case <-s.done:
			return
		}
	}
}

// Send queues an outbound line, appending the telnet line terminator.
func (s *Session) Send(text string) {
	if !strings.HasSuffix(text, "\r\n") {
		text += "\r\n"
	}
	select {
	case s.outbox <- []byte(text):
	case <-s.done:
	}
}

// SendSubneg queues a raw outbound subnegotiation.
func (s *Session) SendSubneg(code byte, payload []byte) {
	select {
	case s.outbox <- EncodeSubneg(code, payload):
	case <-s.done:
	}
}

// Close terminates the connection and its read/write loops.
func (s *Session) Close() error {
	return s.conn.Close()
}
