package tatami

import "github.com/svendcsvendsen/judoassistant/internal/ids"

// BlockSnapshot is one serializable block placement.
type BlockSnapshot struct {
	Category ids.ID    `json:"category"`
	Type     MatchType `json:"type"`
}

// SequentialGroupSnapshot is a serializable sequential group.
type SequentialGroupSnapshot struct {
	ID     ids.ID          `json:"id"`
	Blocks []BlockSnapshot `json:"blocks"`
}

// ConcurrentGroupSnapshot is a serializable concurrent group.
type ConcurrentGroupSnapshot struct {
	ID     ids.ID                    `json:"id"`
	Groups []SequentialGroupSnapshot `json:"groups"`
}

// TatamiSnapshot is a serializable tatami.
type TatamiSnapshot struct {
	ID     ids.ID                    `json:"id"`
	Groups []ConcurrentGroupSnapshot `json:"groups"`
}

// Snapshot serializes the full tatami list in schedule order, dropping the
// cached Status aggregates (store.Restore recomputes them from category
// match counts on load rather than carrying them over the wire).
func (l *List) Snapshot() []TatamiSnapshot {
	out := make([]TatamiSnapshot, 0, l.tatamis.Size())
	for _, tid := range l.tatamis.Ordered() {
		t, _ := l.tatamis.Value(tid)
		ts := TatamiSnapshot{ID: tid}
		for _, cgid := range t.Groups.Ordered() {
			cg, _ := t.Groups.Value(cgid)
			cgs := ConcurrentGroupSnapshot{ID: cgid}
			for _, sgid := range cg.Groups.Ordered() {
				sg, _ := cg.Groups.Value(sgid)
				sgs := SequentialGroupSnapshot{ID: sgid}
				for _, b := range sg.Blocks {
					sgs.Blocks = append(sgs.Blocks, BlockSnapshot{Category: b.Category, Type: b.Type})
				}
				cgs.Groups = append(cgs.Groups, sgs)
			}
			ts.Groups = append(ts.Groups, cgs)
		}
		out = append(out, ts)
	}
	return out
}

// FromSnapshot rebuilds a List from a Snapshot, e.g. after loading a
// tournament from disk or a replication SYNC message.
func FromSnapshot(snaps []TatamiSnapshot) *List {
	l := NewList()
	for _, ts := range snaps {
		th := l.AppendTatami(ts.ID)
		for ci, cgs := range ts.Groups {
			for si, sgs := range cgs.Groups {
				for i, b := range sgs.Blocks {
					loc := BlockLocation{
						Tatami:          th,
						ConcurrentGroup: Handle{ID: cgs.ID, Index: ci},
						SequentialGroup: Handle{ID: sgs.ID, Index: si},
						Index:           i,
					}
					_ = l.MoveBlock(Block{Category: b.Category, Type: b.Type}, nil, &loc)
				}
			}
		}
	}
	return l
}
