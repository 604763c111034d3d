package model

// Connection is the scripting host's view of connection lifecycle state.
// ConnectionID monotonically increases across reconnects (never repeats
// within a process) so that a script holding a stale id from a prior
// connection can detect that a reconnect happened.
type Connection struct {
	IsConnected  bool
	ConnectionID uint16
	Host         string
	Port         int
	TLS          bool
	VerifyCert   bool
}

// NewConnection builds a Connection describing a pending connect request (not yet
// established) — mirrors the donor's Connection::new(host, port, tls, verify).
func NewConnection(host string, port int, tls bool, verifyCert bool) Connection {
	return Connection{Host: host, Port: port, TLS: tls, VerifyCert: verifyCert}
}
