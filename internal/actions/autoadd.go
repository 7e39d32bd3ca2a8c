package actions

import (
	"fmt"
	"sort"

	"github.com/svendcsvendsen/judoassistant/internal/ids"
	"github.com/svendcsvendsen/judoassistant/internal/store"
)

// AutoAddPlayer is one ungrouped player AutoAddCategories considers, sorted
// by weight before the partition is computed.
type AutoAddPlayer struct {
	ID     ids.ID
	Weight float64
}

// AutoAddCategories partitions a list of players into newly created weight
// categories. It sorts players by weight and finds the partition into
// contiguous weight bands that minimizes the total squared deviation from
// TargetSize, via the prefix dynamic-programming recurrence cost(i) = min
// over every j<i of cost(j) + (i-j-TargetSize)^2, which prefers evenly
// sized bands over lots of tiny or oversized ones.
type AutoAddCategories struct {
	Players    []AutoAddPlayer
	TargetSize int
	RulesetTag int
	DrawTag    int
	NamePrefix string
	CategoryIDs []ids.ID // one per resulting band, in weight order, supplied by the client

	applied    bool
	createdIDs []ids.ID
}

func (a *AutoAddCategories) Apply(t *store.Tournament) error {
	if a.TargetSize < 1 {
		return store.NewValidationError("AutoAddCategories target size must be >= 1")
	}
	players := append([]AutoAddPlayer(nil), a.Players...)
	sort.Slice(players, func(i, j int) bool { return players[i].Weight < players[j].Weight })

	bands := partitionByTargetSize(len(players), a.TargetSize)
	if len(a.CategoryIDs) < len(bands) {
		return store.NewValidationError("AutoAddCategories needs %d category ids, got %d", len(bands), len(a.CategoryIDs))
	}

	a.createdIDs = a.createdIDs[:0]
	start := 0
	for i, band := range bands {
		catID := a.CategoryIDs[i]
		name := bandName(a.NamePrefix, players, start, start+band)
		if err := t.AddCategory(catID, name, a.RulesetTag, a.DrawTag); err != nil {
			return err
		}
		for _, p := range players[start : start+band] {
			if err := t.AddPlayerToCategory(p.ID, catID); err != nil {
				return err
			}
		}
		a.createdIDs = append(a.createdIDs, catID)
		start += band
	}
	a.applied = true
	return nil
}

func bandName(prefix string, players []AutoAddPlayer, lo, hi int) string {
	max := players[hi-1].Weight
	return fmt.Sprintf("%s-%gkg", prefix, max)
}

// partitionByTargetSize returns band sizes summing to n that minimize
// total squared deviation from target, computed bottom-up over prefixes.
func partitionByTargetSize(n, target int) []int {
	if n == 0 {
		return nil
	}
	const inf = 1 << 30
	cost := make([]int, n+1)
	prev := make([]int, n+1)
	for i := 1; i <= n; i++ {
		cost[i] = inf
		for j := 0; j < i; j++ {
			size := i - j
			d := size - target
			c := cost[j] + d*d
			if c < cost[i] {
				cost[i] = c
				prev[i] = j
			}
		}
	}
	var bands []int
	for i := n; i > 0; i = prev[i] {
		bands = append([]int{i - prev[i]}, bands...)
	}
	return bands
}

func (a *AutoAddCategories) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	for i := len(a.createdIDs) - 1; i >= 0; i-- {
		id := a.createdIDs[i]
		cat := t.Category(id)
		if cat == nil {
			continue
		}
		for _, pid := range cat.PlayerIDs() {
			if err := t.ErasePlayerFromCategory(pid, id); err != nil {
				return err
			}
		}
		if err := t.EraseCategory(id); err != nil {
			return err
		}
	}
	return nil
}

func (a *AutoAddCategories) FreshClone() Action {
	return &AutoAddCategories{
		Players:     append([]AutoAddPlayer(nil), a.Players...),
		TargetSize:  a.TargetSize,
		RulesetTag:  a.RulesetTag,
		DrawTag:     a.DrawTag,
		NamePrefix:  a.NamePrefix,
		CategoryIDs: append([]ids.ID(nil), a.CategoryIDs...),
	}
}
func (a *AutoAddCategories) Description() string { return "Auto add categories" }
func (a *AutoAddCategories) Tag() string         { return "AutoAddCategories" }
