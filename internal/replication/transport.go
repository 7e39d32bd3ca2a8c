package replication

import (
	"encoding/json"
	"errors"
)

// ErrClosed is returned by Send/Receive once a Transport has been closed.
var ErrClosed = errors.New("replication: transport closed")

// Transport moves Messages between a master and one participant. Receive is
// called from a single goroutine in this package; Send may be called
// concurrently (Master.broadcast sends from one goroutine per target, and
// several sessions can broadcast at once), so implementations serialize
// their writes.
type Transport interface {
	Send(m Message) error
	Receive() (Message, error)
	Close() error
}

// Dial and Upgrade are implemented per concrete transport (see wsconn.go for
// the websocket transport); Transport itself only describes the frame-level
// contract so replication/master.go and replication/participant.go never
// import gorilla/websocket directly.

func encodePayload(v interface{}) (json.RawMessage, error) {
	return json.Marshal(v)
}
