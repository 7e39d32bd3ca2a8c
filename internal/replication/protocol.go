// Package replication keeps every participant's copy of a tournament in
// sync with the master: a participant JOINs, receives a SYNC snapshot, and
// from then on applies the same ACTION/UNDO stream the master dispatches
// locally.
package replication

import (
	"encoding/json"
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/svendcsvendsen/judoassistant/internal/ids"
)

// Kind tags a Message's payload.
type Kind int

const (
	KindJoin Kind = iota
	KindSync
	KindAction
	KindUndo
	KindRedo
	KindQuit
)

func (k Kind) String() string {
	switch k {
	case KindJoin:
		return "JOIN"
	case KindSync:
		return "SYNC"
	case KindAction:
		return "ACTION"
	case KindUndo:
		return "UNDO"
	case KindRedo:
		return "REDO"
	case KindQuit:
		return "QUIT"
	default:
		return "UNKNOWN"
	}
}

// Message is one frame of the replication wire protocol. Payload carries
// the kind-specific body pre-encoded as JSON so Transport implementations
// never need to know about action types.
type Message struct {
	Kind           Kind            `json:"kind"`
	TournamentID   ids.ID          `json:"tournament_id"`
	ClientActionID string          `json:"client_action_id,omitempty"`
	SentAt         *timestamppb.Timestamp `json:"sent_at,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload is the body of a KindJoin message: a participant asking to
// attach to a tournament. Master.Serve does not read WebName; the
// tournament is the one the Master was created for.
type JoinPayload struct {
	WebName string `json:"web_name,omitempty"`
}

// SyncPayload is the body of a KindSync reply: the full serialized store
// state plus the depth of the master's undoable action log when the
// snapshot was taken. Join does not read LogDepth.
type SyncPayload struct {
	StoreSnapshot json.RawMessage `json:"store_snapshot"`
	LogDepth       int            `json:"log_depth"`
}

// ActionPayload is the body of a KindAction message: an action's tag plus
// its JSON-encoded fields, enough for the receiver to reconstruct the
// concrete actions.Action via the registry in internal/replication/codec.go.
type ActionPayload struct {
	Tag    string          `json:"tag"`
	Fields json.RawMessage `json:"fields"`
}

func now() *timestamppb.Timestamp {
	return timestamppb.New(time.Now())
}
