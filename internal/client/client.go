// Package client wires the event bus, the scripting host, the network
// session, the persistent store and the background workers into one
// main loop — the donor's worldManager/World wiring pattern
// (lostsnow-GoMud/main.go), adapted from "own the game world" to "own
// one MUD client connection".
package client

import (
	"time"

	"github.com/GoMudEngine/blightscript/internal/config"
	"github.com/GoMudEngine/blightscript/internal/events"
	"github.com/GoMudEngine/blightscript/internal/fswatch"
	"github.com/GoMudEngine/blightscript/internal/model"
	"github.com/GoMudEngine/blightscript/internal/mudlog"
	"github.com/GoMudEngine/blightscript/internal/scripting"
	"github.com/GoMudEngine/blightscript/internal/store"
	"github.com/GoMudEngine/blightscript/internal/transport"
	"github.com/GoMudEngine/blightscript/internal/versioncheck"
)

// Client is the single-goroutine owner of the scripting host, per §5:
// "The scripting host runs on the main loop thread only."
type Client struct {
	bus     *events.Bus
	host    *scripting.Host
	store   *store.Store
	session *transport.Session
	wsSess  *transport.WebSocketSession
	watcher *fswatch.Watcher

	nextConnectionID uint16
	lastTick         time.Time
	quit             bool
}

// New builds a Client from the given config, constructing its store and
// scripting host but not yet connecting anywhere.
func New(cfg config.Config) (*Client, error) {
	bus := events.NewBus(256)

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, err
	}

	host, err := scripting.NewHostBuilder(bus.Sender()).
		ReaderMode(cfg.Scripting.ReaderMode).
		TTSEnabled(cfg.Scripting.TTSEnabled).
		Build()
	if err != nil {
		return nil, err
	}

	c := &Client{bus: bus, host: host, store: st, lastTick: time.Now()}

	if cfg.Scripting.UserScriptPath != "" {
		if err := host.LoadScript(cfg.Scripting.UserScriptPath); err != nil {
			mudlog.Error("failed loading autoload script", "path", cfg.Scripting.UserScriptPath, "err", err)
		}
	}

	return c, nil
}

// Run drives the main loop: dequeue bus events, dispatch to the host or
// transport, advance timers, until Quit is requested.
func (c *Client) Run() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for !c.quit {
		select {
		case ev := <-c.bus.Receiver():
			c.dispatch(ev)
		case now := <-ticker.C:
			elapsed := now.Sub(c.lastTick).Milliseconds()
			c.lastTick = now
			c.host.Tick(elapsed)
			for _, due := range c.host.DrainDueTimers(now) {
				c.host.RunTimedFunction(due)
			}
		}
	}
}

func (c *Client) dispatch(ev events.Event) {
	switch ev.Kind {
	case events.KindServerInput:
		c.handleServerInput(ev.Line)
	case events.KindConnect:
		c.connect(ev.Connection)
	case events.KindDisconnect:
		c.disconnect()
	case events.KindReconnect:
		// Handled by a higher-level supervisor that remembers the last
		// connection's parameters; this package only reacts to an
		// explicit Connect.
	case events.KindQuit:
		c.OnQuit()
	case events.KindLoadScript:
		_ = c.host.LoadScript(ev.Text)
	case events.KindResetScript:
		_ = c.host.Reset(scripting.Dimensions{Width: 80, Height: 24})
	case events.KindEnableProto:
		c.host.ProtoEnabled(ev.Proto)
	case events.KindProtoSubnegRecv:
		c.host.ProtoSubneg(ev.Proto, ev.Bytes)
	case events.KindProtoSubnegSend:
		if c.session != nil {
			c.session.SendSubneg(ev.Proto, ev.Bytes)
		} else if c.wsSess != nil {
			c.wsSess.SendSubneg(ev.Proto, ev.Bytes)
		}
	case events.KindSetPromptInput, events.KindSetPromptInputCursor, events.KindSetPromptMask:
		// Renderer-facing; this module only originates these, it does
		// not need to react to its own output.
	case events.KindFSChange:
		c.host.HandleFSEvent(ev.FSPath, ev.FSOp)
	case events.KindInfo, events.KindStartLogging, events.KindStopLogging,
		events.KindShowHelp, events.KindFindBackward:
		// Surfaced to the renderer; nothing for the client loop to do.
	}
}

func (c *Client) handleServerInput(line model.Line) {
	c.host.OnMudOutput(&line)
}

// SendInput runs a user-typed line through on_mud_input and, unless a
// macro/alias/trigger marked it matched, forwards it to the server.
func (c *Client) SendInput(text string) {
	line := model.FromString(text)
	c.host.OnMudInput(&line)
	if !line.Flags.Matched && c.session != nil {
		c.session.Send(line.Content)
	} else if !line.Flags.Matched && c.wsSess != nil {
		c.wsSess.Send(line.Content)
	}
}

func (c *Client) connect(conn model.Connection) {
	if transport.IsWebSocketURL(conn.Host) {
		ws, err := transport.DialWebSocket(conn.Host, c.bus.Sender())
		if err != nil {
			c.bus.Send(events.Info("connect failed: " + err.Error()))
			return
		}
		c.wsSess = ws
		c.nextConnectionID++
		id := c.nextConnectionID
		go ws.Run(id)
		c.host.OnConnect(conn.Host, conn.Port, id)
		return
	}

	sess, err := transport.Dial(conn.Host, conn.Port, conn.TLS, conn.VerifyCert, c.bus.Sender())
	if err != nil {
		c.bus.Send(events.Info("connect failed: " + err.Error()))
		return
	}
	c.session = sess
	c.nextConnectionID++
	id := c.nextConnectionID
	go sess.Run(id)
	c.host.OnConnect(conn.Host, conn.Port, id)
}

func (c *Client) disconnect() {
	if c.session != nil {
		_ = c.session.Close()
		c.session = nil
	}
	if c.wsSess != nil {
		_ = c.wsSess.Close()
		c.wsSess = nil
	}
	c.host.OnDisconnect()
}

// OnQuit runs the script on_quit hook, persists the store, and stops Run.
func (c *Client) OnQuit() {
	c.host.OnQuit()
	if err := c.store.Save(); err != nil {
		mudlog.Error("failed saving store on quit", "err", err)
	}
	c.disconnect()
	if c.watcher != nil {
		_ = c.watcher.Close()
	}
	c.quit = true
}

// WatchScripts starts a filesystem watcher over dir, forwarding changes
// into the host via HandleFSEvent through the normal event bus path.
func (c *Client) WatchScripts(dir string) error {
	w, err := fswatch.Watch(dir, c.bus.Sender())
	if err != nil {
		return err
	}
	c.watcher = w
	return nil
}

// CheckForUpdate spawns the version-check background worker.
func (c *Client) CheckForUpdate(runningVersion, releasePageURL string) {
	versioncheck.Run(versioncheck.HTTPFetcher{ReleasesURL: releasePageURL}, runningVersion, releasePageURL, c.bus.Sender())
}

// Bus exposes the event sender for transports/UIs constructed outside
// this package (e.g. a renderer forwarding keypresses as input events).
func (c *Client) Bus() *events.Bus { return c.bus }

// Host exposes the scripting host for direct calls the main loop itself
// doesn't need to route through the bus (e.g. tab completion on keypress).
func (c *Client) Host() *scripting.Host { return c.host }
