package tatami

import "github.com/svendcsvendsen/judoassistant/internal/ids"

// MaxGroupCount is the number of sequential groups a single concurrent group
// may hold, i.e. how many match streams can run in parallel on one mat.
// MoveBlock and store.SetTatamiLocation do not check it.
const MaxGroupCount = 8

// Status aggregates match-status counts over a set of matches, cached on
// each ConcurrentGroup so the UI/replication layer doesn't have to rescan
// every match to know whether a mat is idle, busy, or done.
type Status struct {
	NotStarted int
	Started    int
	Finished   int
}

func (s *Status) add(delta Status) {
	s.NotStarted += delta.NotStarted
	s.Started += delta.Started
	s.Finished += delta.Finished
}

// SequentialGroup holds an ordered run of blocks that play back-to-back.
type SequentialGroup struct {
	Blocks []Block
}

// ConcurrentGroup holds sequential groups that may run in parallel on one
// mat, plus the cached status aggregation over all matches it contains.
type ConcurrentGroup struct {
	Groups *PositionManager[*SequentialGroup]
	Status Status
}

// Tatami is one competition mat: an ordered list of concurrent groups.
type Tatami struct {
	Groups *PositionManager[*ConcurrentGroup]
}

func newConcurrentGroup() *ConcurrentGroup {
	return &ConcurrentGroup{Groups: NewPositionManager[*SequentialGroup]()}
}

func newSequentialGroup() *SequentialGroup {
	return &SequentialGroup{}
}

func newTatami() *Tatami {
	return &Tatami{Groups: NewPositionManager[*ConcurrentGroup]()}
}

// List is the ordered sequence of tatami handles for a tournament.
type List struct {
	tatamis *PositionManager[*Tatami]
}

// NewList returns an empty tatami list.
func NewList() *List {
	return &List{tatamis: NewPositionManager[*Tatami]()}
}

// Size returns the number of tatamis currently in the list.
func (l *List) Size() int { return l.tatamis.Size() }

// HandleAt returns the handle of the tatami at index i.
func (l *List) HandleAt(i int) Handle { return l.tatamis.HandleAt(i) }

// Contains reports whether a tatami with this id still exists.
func (l *List) Contains(id ids.ID) bool { return l.tatamis.Contains(id) }

// AppendTatami inserts a fresh tatami handle at the end of the list.
func (l *List) AppendTatami(id ids.ID) Handle {
	return l.tatamis.Insert(id, l.tatamis.Size(), newTatami())
}

// GenerateLocation inserts an empty tatami under id at position index and
// returns its handle — used by undo to reinsert a tatami id that
// SetTatamiCount had removed.
func (l *List) GenerateLocation(id ids.ID, index int) Handle {
	return l.tatamis.Insert(id, index, newTatami())
}

// EraseTatami removes a tatami and all the concurrent groups, sequential
// groups, and blocks it held. Callers are responsible for clearing the
// categories' recorded locations for every block that was inside it first.
func (l *List) EraseTatami(id ids.ID) {
	l.tatamis.Erase(id)
}

// Tatami returns the tatami for a handle, reinserting it (per Get's
// contract) if it had been erased and this is an undo replaying history.
func (l *List) Tatami(h Handle) *Tatami {
	t := l.tatamis.Get(h)
	if t == nil {
		t = newTatami()
		l.tatamis.Set(h.ID, t)
	}
	return t
}

// BlockAt returns the block stored at loc, if any.
func BlockAt(loc BlockLocation, group *SequentialGroup) (Block, bool) {
	if loc.Index < 0 || loc.Index >= len(group.Blocks) {
		return Block{}, false
	}
	return group.Blocks[loc.Index], true
}

// MoveBlock removes block from `from` (if set) and inserts it at `to`,
// creating the sequential group and/or concurrent group at the destination
// if they don't yet exist, and destroying any group left empty by the
// removal (its handle is retained so a later undo can still find it via
// Get's reinsertion semantics).
func (l *List) MoveBlock(block Block, from *BlockLocation, to *BlockLocation) error {
	if from != nil {
		if err := l.removeBlock(block, *from); err != nil {
			return err
		}
	}
	if to != nil {
		if err := l.insertBlock(block, *to); err != nil {
			return err
		}
	}
	return nil
}

func (l *List) removeBlock(block Block, loc BlockLocation) error {
	t := l.Tatami(loc.Tatami)
	cg := t.Groups.Get(loc.ConcurrentGroup)
	if cg == nil {
		return nil
	}
	sg := cg.Groups.Get(loc.SequentialGroup)
	if sg == nil {
		return nil
	}
	idx := -1
	for i, b := range sg.Blocks {
		if b == block {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	sg.Blocks = append(sg.Blocks[:idx], sg.Blocks[idx+1:]...)

	if len(sg.Blocks) == 0 {
		cg.Groups.Erase(loc.SequentialGroup.ID)
	}
	if cg.Groups.Size() == 0 {
		t.Groups.Erase(loc.ConcurrentGroup.ID)
	}
	return nil
}

func (l *List) insertBlock(block Block, loc BlockLocation) error {
	t := l.Tatami(loc.Tatami)

	cg := t.Groups.Get(loc.ConcurrentGroup)
	if cg == nil {
		cg = newConcurrentGroup()
		t.Groups.Set(loc.ConcurrentGroup.ID, cg)
	}

	sg := cg.Groups.Get(loc.SequentialGroup)
	if sg == nil {
		sg = newSequentialGroup()
		cg.Groups.Set(loc.SequentialGroup.ID, sg)
	}

	idx := loc.Index
	if idx > len(sg.Blocks) {
		idx = len(sg.Blocks)
	}
	if idx < 0 {
		idx = 0
	}
	sg.Blocks = append(sg.Blocks, Block{})
	copy(sg.Blocks[idx+1:], sg.Blocks[idx:])
	sg.Blocks[idx] = block
	return nil
}

// RecomputeBlock revisits the concurrent group owning loc and recomputes its
// cached Status from the per-match statuses given by statusOf.
func (l *List) RecomputeBlock(loc BlockLocation, statusOf func(Block) Status) {
	t := l.Tatami(loc.Tatami)
	cg := t.Groups.Get(loc.ConcurrentGroup)
	if cg == nil {
		return
	}
	var total Status
	for _, sgID := range cg.Groups.Ordered() {
		sg, ok := cg.Groups.Value(sgID)
		if !ok || sg == nil {
			continue
		}
		for _, b := range sg.Blocks {
			total.add(statusOf(b))
		}
	}
	cg.Status = total
}

// ConcurrentGroupSize returns how many sequential groups loc's concurrent
// group currently holds.
func (l *List) ConcurrentGroupSize(tatamiHandle, concurrentHandle Handle) int {
	t := l.tatamis.Get(tatamiHandle)
	if t == nil {
		return 0
	}
	cg := t.Groups.Get(concurrentHandle)
	if cg == nil {
		return 0
	}
	return cg.Groups.Size()
}
