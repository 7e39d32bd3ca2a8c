package replication

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsTransport adapts a *websocket.Conn to the Transport interface, framing
// each Message as one JSON text message. mu serializes Send, which
// Master.broadcast may call from several goroutines at once.
type wsTransport struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewWebSocketTransport wraps an already-established connection, e.g. one
// returned by websocket.Upgrader.Upgrade on the master side or
// websocket.Dial on the participant side.
func NewWebSocketTransport(conn *websocket.Conn) Transport {
	return &wsTransport{conn: conn}
}

func (t *wsTransport) Send(m Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return t.conn.WriteJSON(m)
}

func (t *wsTransport) Receive() (Message, error) {
	var m Message
	err := t.conn.ReadJSON(&m)
	if err != nil {
		return Message{}, err
	}
	return m, nil
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}

// upgrader is shared by every incoming master-side connection; origin
// checking is left to whatever reverse proxy terminates TLS in front of
// cmd/master.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Upgrade promotes an HTTP request to a websocket Transport.
func Upgrade(w http.ResponseWriter, r *http.Request) (Transport, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return NewWebSocketTransport(conn), nil
}

// Dial connects to a master's websocket endpoint as a participant.
func Dial(url string) (Transport, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return NewWebSocketTransport(conn), nil
}
