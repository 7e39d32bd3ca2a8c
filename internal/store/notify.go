package store

import "github.com/svendcsvendsen/judoassistant/internal/ids"

// ChangeListener receives change notifications from a Tournament. The
// manager and replication layers subscribe to forward changes to the UI and
// to connected participants; nothing in this package depends on them.
type ChangeListener interface {
	ChangePlayers(changed []ids.ID)
	ChangeCategories(changed []ids.ID)
	ChangeMatches(category ids.ID, changed []ids.ID)
	ChangeTatamis(changed []ids.ID)
	ResetCategoryResults(category ids.ID)
}

// notifier batches change notifications so a bulk mutation wrapped in a
// begin/end pair fires one notification instead of one per entity. A
// begin/end pair nested inside an in-progress resetMatches for the same
// category is swallowed: only the outer reset's notification fires.
type notifier struct {
	listeners []ChangeListener

	playersDepth int
	playersSet   map[ids.ID]struct{}

	categoriesDepth int
	categoriesSet   map[ids.ID]struct{}

	matchesDepth map[ids.ID]int
	matchesSet   map[ids.ID]map[ids.ID]struct{}
	resetDepth   map[ids.ID]int

	tatamisDepth int
	tatamisSet   map[ids.ID]struct{}
}

func newNotifier() *notifier {
	return &notifier{
		playersSet:    make(map[ids.ID]struct{}),
		categoriesSet: make(map[ids.ID]struct{}),
		matchesDepth:  make(map[ids.ID]int),
		matchesSet:    make(map[ids.ID]map[ids.ID]struct{}),
		resetDepth:    make(map[ids.ID]int),
		tatamisSet:    make(map[ids.ID]struct{}),
	}
}

// Subscribe registers l to receive future notifications.
func (n *notifier) Subscribe(l ChangeListener) {
	n.listeners = append(n.listeners, l)
}

func setKeys(m map[ids.ID]struct{}) []ids.ID {
	out := make([]ids.ID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

// BeginAddPlayers / EndAddPlayers bracket player creation or field changes.
func (n *notifier) BeginAddPlayers() { n.playersDepth++ }

func (n *notifier) NotePlayer(id ids.ID) { n.playersSet[id] = struct{}{} }

func (n *notifier) EndAddPlayers() {
	n.playersDepth--
	if n.playersDepth > 0 {
		return
	}
	if len(n.playersSet) == 0 {
		return
	}
	changed := setKeys(n.playersSet)
	n.playersSet = make(map[ids.ID]struct{})
	for _, l := range n.listeners {
		l.ChangePlayers(changed)
	}
}

// BeginErasePlayers / EndErasePlayers bracket player removal.
func (n *notifier) BeginErasePlayers() { n.BeginAddPlayers() }
func (n *notifier) EndErasePlayers()   { n.EndAddPlayers() }

// BeginAddCategories / EndAddCategories bracket category creation, field
// changes, and removal.
func (n *notifier) BeginAddCategories() { n.categoriesDepth++ }

func (n *notifier) NoteCategory(id ids.ID) { n.categoriesSet[id] = struct{}{} }

func (n *notifier) EndAddCategories() {
	n.categoriesDepth--
	if n.categoriesDepth > 0 {
		return
	}
	if len(n.categoriesSet) == 0 {
		return
	}
	changed := setKeys(n.categoriesSet)
	n.categoriesSet = make(map[ids.ID]struct{})
	for _, l := range n.listeners {
		l.ChangeCategories(changed)
	}
}

// BeginEraseCategories / EndEraseCategories bracket category removal.
func (n *notifier) BeginEraseCategories() { n.BeginAddCategories() }
func (n *notifier) EndEraseCategories()   { n.EndAddCategories() }

// BeginResetMatches / EndResetMatches bracket a full redraw of a category:
// every AddMatch/EraseMatch notification nested inside is swallowed, and a
// single ResetCategoryResults notification fires instead.
func (n *notifier) BeginResetMatches(category ids.ID) {
	n.resetDepth[category]++
	n.matchesDepth[category]++
}

func (n *notifier) NoteMatch(category, match ids.ID) {
	if n.matchesSet[category] == nil {
		n.matchesSet[category] = make(map[ids.ID]struct{})
	}
	n.matchesSet[category][match] = struct{}{}
}

func (n *notifier) EndResetMatches(category ids.ID) {
	n.matchesDepth[category]--
	n.resetDepth[category]--
	if n.matchesDepth[category] > 0 {
		return
	}
	delete(n.matchesSet, category)
	if n.resetDepth[category] <= 0 {
		delete(n.resetDepth, category)
		for _, l := range n.listeners {
			l.ResetCategoryResults(category)
		}
	}
}

// BeginAddMatches / EndAddMatches bracket incremental match creation that is
// not part of a full reset (e.g. an undo reinserting a single erased match).
func (n *notifier) BeginAddMatches(category ids.ID) { n.matchesDepth[category]++ }

func (n *notifier) EndAddMatches(category ids.ID) {
	n.matchesDepth[category]--
	if n.matchesDepth[category] > 0 {
		return
	}
	if n.resetDepth[category] > 0 {
		// A reset further up the stack owns the notification.
		return
	}
	changed, ok := n.matchesSet[category]
	delete(n.matchesSet, category)
	if !ok || len(changed) == 0 {
		return
	}
	list := make([]ids.ID, 0, len(changed))
	for id := range changed {
		list = append(list, id)
	}
	for _, l := range n.listeners {
		l.ChangeMatches(category, list)
	}
}

// BeginAddTatamis / EndAddTatamis bracket tatami/block-layout mutation.
func (n *notifier) BeginAddTatamis() { n.tatamisDepth++ }

func (n *notifier) NoteTatami(id ids.ID) { n.tatamisSet[id] = struct{}{} }

func (n *notifier) EndAddTatamis() {
	n.tatamisDepth--
	if n.tatamisDepth > 0 {
		return
	}
	if len(n.tatamisSet) == 0 {
		return
	}
	changed := setKeys(n.tatamisSet)
	n.tatamisSet = make(map[ids.ID]struct{})
	for _, l := range n.listeners {
		l.ChangeTatamis(changed)
	}
}

// BeginEraseTatamis / EndEraseTatamis bracket tatami removal.
func (n *notifier) BeginEraseTatamis() { n.BeginAddTatamis() }
func (n *notifier) EndEraseTatamis()   { n.EndAddTatamis() }
