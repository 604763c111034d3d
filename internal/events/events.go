// Package events implements the event bus (C1): a single multi-producer,
// multi-consumer channel carrying tagged messages between the network
// session, background workers, the scripting host and the main loop.
//
// Every producer is handed the same channel value (Go channels are
// natively safe for concurrent senders, so no cloned-Sender wrapper is
// needed the way a Rust mpsc::Sender would require one per thread).
package events

import "github.com/GoMudEngine/blightscript/internal/model"

// Kind tags the variant carried by an Event.
type Kind int

const (
	KindServerInput Kind = iota
	KindConnect
	KindDisconnect
	KindReconnect
	KindInfo
	KindSetPromptInput
	KindSetPromptInputCursor
	KindSetPromptMask
	KindLoadScript
	KindResetScript
	KindQuit
	KindEnableProto
	KindProtoSubnegSend
	KindProtoSubnegRecv
	KindFindBackward
	KindStartLogging
	KindStopLogging
	KindShowHelp
	KindFSChange
)

func (k Kind) String() string {
	switch k {
	case KindServerInput:
		return "ServerInput"
	case KindConnect:
		return "Connect"
	case KindDisconnect:
		return "Disconnect"
	case KindReconnect:
		return "Reconnect"
	case KindInfo:
		return "Info"
	case KindSetPromptInput:
		return "SetPromptInput"
	case KindSetPromptInputCursor:
		return "SetPromptInputCursor"
	case KindSetPromptMask:
		return "SetPromptMask"
	case KindLoadScript:
		return "LoadScript"
	case KindResetScript:
		return "ResetScript"
	case KindQuit:
		return "Quit"
	case KindEnableProto:
		return "EnableProto"
	case KindProtoSubnegSend:
		return "ProtoSubnegSend"
	case KindProtoSubnegRecv:
		return "ProtoSubnegRecv"
	case KindFindBackward:
		return "FindBackward"
	case KindStartLogging:
		return "StartLogging"
	case KindStopLogging:
		return "StopLogging"
	case KindShowHelp:
		return "ShowHelp"
	case KindFSChange:
		return "FSChange"
	default:
		return "Unknown"
	}
}

// QuitMethod records who asked the process to quit.
type QuitMethod int

const (
	QuitUser QuitMethod = iota
	QuitScript
	QuitSignal
)

// Event is a single tagged message on the bus. Only the fields relevant to
// Kind are meaningful; this mirrors the donor's single Rust enum with a
// payload per variant, expressed in Go as one struct with a Kind tag
// (the donor project's own events.Event-interface-plus-Type() convention,
// adapted so dispatch is a switch over Kind rather than a type switch).
type Event struct {
	Kind Kind

	Line       model.Line
	Connection model.Connection
	ID         uint16
	Text       string
	Cursor     uint32
	Mask       map[int]string
	Proto      uint8
	Bytes      []byte
	Append     bool
	FSPath     string
	FSOp       string
	QuitMethod QuitMethod
}

// Info builds an Info event, the uniform channel for surfacing
// diagnostics (script stack traces, transport errors, config problems)
// to the user without ever writing to stderr from inside a callback.
func Info(msg string) Event { return Event{Kind: KindInfo, Text: msg} }

// ServerInput builds a ServerInput event carrying a line either received
// from the server or destined for it, depending on direction of travel.
func ServerInput(l model.Line) Event { return Event{Kind: KindServerInput, Line: l} }

// Connect builds a Connect event requesting a new session.
func Connect(c model.Connection) Event { return Event{Kind: KindConnect, Connection: c} }

// Disconnect builds a Disconnect event.
func Disconnect() Event { return Event{Kind: KindDisconnect} }

// Reconnect builds a Reconnect event.
func Reconnect() Event { return Event{Kind: KindReconnect} }

// Quit builds a Quit event recording who requested it.
func Quit(m QuitMethod) Event { return Event{Kind: KindQuit, QuitMethod: m} }

// LoadScript builds a LoadScript event naming a script path to load.
func LoadScript(path string) Event { return Event{Kind: KindLoadScript, Text: path} }

// ResetScript builds a ResetScript event.
func ResetScript() Event { return Event{Kind: KindResetScript} }

// EnableProto builds an EnableProto event for the given telnet option code.
func EnableProto(code uint8) Event { return Event{Kind: KindEnableProto, Proto: code} }

// ProtoSubnegSend builds an outbound telnet subnegotiation event.
func ProtoSubnegSend(code uint8, payload []byte) Event {
	return Event{Kind: KindProtoSubnegSend, Proto: code, Bytes: payload}
}

// ProtoSubnegRecv builds an inbound telnet subnegotiation event.
func ProtoSubnegRecv(code uint8, payload []byte) Event {
	return Event{Kind: KindProtoSubnegRecv, Proto: code, Bytes: payload}
}

// SetPromptInput builds a SetPromptInput event carrying the new prompt text.
func SetPromptInput(text string) Event { return Event{Kind: KindSetPromptInput, Text: text} }

// SetPromptInputCursor builds a cursor-move event (0-indexed internally).
func SetPromptInputCursor(offset uint32) Event {
	return Event{Kind: KindSetPromptInputCursor, Cursor: offset}
}

// SetPromptMask builds a SetPromptMask event carrying the accepted mask.
func SetPromptMask(mask map[int]string) Event { return Event{Kind: KindSetPromptMask, Mask: mask} }

// StartLogging builds a StartLogging macro event.
func StartLogging(name string, appendFile bool) Event {
	return Event{Kind: KindStartLogging, Text: name, Append: appendFile}
}

// StopLogging builds a StopLogging macro event.
func StopLogging() Event { return Event{Kind: KindStopLogging} }

// ShowHelp builds a ShowHelp macro event.
func ShowHelp(topic string, fromUser bool) Event {
	return Event{Kind: KindShowHelp, Text: topic, Append: fromUser}
}

// FindBackward builds a search-scrollback event.
func FindBackward(pattern string) Event { return Event{Kind: KindFindBackward, Text: pattern} }

// FSChange builds a filesystem-watch event.
func FSChange(path, op string) Event { return Event{Kind: KindFSChange, FSPath: path, FSOp: op} }
