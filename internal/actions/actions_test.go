package actions_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/svendcsvendsen/judoassistant/internal/actions"
	"github.com/svendcsvendsen/judoassistant/internal/draw"
	"github.com/svendcsvendsen/judoassistant/internal/ruleset/judo"
	"github.com/svendcsvendsen/judoassistant/internal/store"
)

func TestAddPlayerApplyAndUndo(t *testing.T) {
	tr := store.NewTournament(uuid.New(), "Test Open", "salt")
	pid := uuid.New()

	add := &actions.AddPlayer{ID: pid, Fields: store.PlayerFields{FirstName: "Ada"}}
	require.NoError(t, add.Apply(tr))
	require.NotNil(t, tr.Player(pid))

	require.NoError(t, add.Undo(tr))
	require.Nil(t, tr.Player(pid))
}

func TestDrawCategoryKnockoutByeAdvancesAutomatically(t *testing.T) {
	tr := store.NewTournament(uuid.New(), "Test Open", "salt")
	catID := uuid.New()

	addCat := &actions.AddCategory{ID: catID, Name: "-73kg", RulesetTag: judo.Tag, DrawTag: draw.KnockoutTag}
	require.NoError(t, addCat.Apply(tr))

	playerIDs := make([]uuid.UUID, 3)
	for i := range playerIDs {
		playerIDs[i] = uuid.New()
		addP := &actions.AddPlayer{ID: playerIDs[i], Fields: store.PlayerFields{FirstName: "Player"}}
		require.NoError(t, addP.Apply(tr))
	}

	addToCat := &actions.AddPlayersToCategory{PlayerIDs: playerIDs, CategoryID: catID}
	require.NoError(t, addToCat.Apply(tr))

	drawAction := &actions.DrawCategory{CategoryID: catID, PlayerOrder: playerIDs, Seed: 42}
	require.NoError(t, drawAction.Apply(tr))

	cat := tr.Category(catID)
	require.NotNil(t, cat)
	require.NotEmpty(t, cat.Matches)

	var byeFound bool
	for _, m := range cat.MatchObjects() {
		if m.Bye {
			byeFound = true
			require.Equal(t, store.Finished, m.Status)
		}
	}
	require.True(t, byeFound, "odd player count should produce a bye in round one")

	require.NoError(t, drawAction.Undo(tr))
	require.Empty(t, tr.Category(catID).Matches)
}

func TestAwardIpponFinishesMatchAndUndoReverts(t *testing.T) {
	tr := store.NewTournament(uuid.New(), "Test Open", "salt")
	catID := uuid.New()

	addCat := &actions.AddCategory{ID: catID, Name: "-73kg", RulesetTag: judo.Tag, DrawTag: draw.PoolTag}
	require.NoError(t, addCat.Apply(tr))

	white, blue := uuid.New(), uuid.New()
	for _, pid := range []uuid.UUID{white, blue} {
		addP := &actions.AddPlayer{ID: pid, Fields: store.PlayerFields{FirstName: "Player"}}
		require.NoError(t, addP.Apply(tr))
	}
	addToCat := &actions.AddPlayersToCategory{PlayerIDs: []uuid.UUID{white, blue}, CategoryID: catID}
	require.NoError(t, addToCat.Apply(tr))

	drawAction := &actions.DrawCategory{CategoryID: catID, PlayerOrder: []uuid.UUID{white, blue}, Seed: 7}
	require.NoError(t, drawAction.Apply(tr))

	matches := tr.Category(catID).MatchObjects()
	require.Len(t, matches, 1)
	matchID := matches[0].ID

	ippon := &actions.AwardIppon{CategoryID: catID, MatchID: matchID, Side: store.White}
	require.NoError(t, ippon.Apply(tr))

	m := tr.Match(catID, matchID)
	require.Equal(t, store.Finished, m.Status)
	require.Equal(t, 1, m.WhiteScore.Ippon)

	require.NoError(t, ippon.Undo(tr))
	m = tr.Match(catID, matchID)
	require.NotEqual(t, store.Finished, m.Status)
	require.Equal(t, 0, m.WhiteScore.Ippon)
}

func TestKnockoutFivePlayerBracketAdvancesAndRanks(t *testing.T) {
	tr := store.NewTournament(uuid.New(), "Test Open", "salt")
	catID := uuid.New()

	addCat := &actions.AddCategory{ID: catID, Name: "-66kg", RulesetTag: judo.Tag, DrawTag: draw.KnockoutTag}
	require.NoError(t, addCat.Apply(tr))

	players := make([]uuid.UUID, 5)
	for i := range players {
		players[i] = uuid.New()
		addP := &actions.AddPlayer{ID: players[i], Fields: store.PlayerFields{FirstName: "Player"}}
		require.NoError(t, addP.Apply(tr))
	}
	addToCat := &actions.AddPlayersToCategory{PlayerIDs: players, CategoryID: catID}
	require.NoError(t, addToCat.Apply(tr))

	drawAction := &actions.DrawCategory{CategoryID: catID, PlayerOrder: players, Seed: 1}
	require.NoError(t, drawAction.Apply(tr))

	matches := tr.Category(catID).MatchObjects()
	require.Len(t, matches, 7)

	// Seeding puts seed 4 (players[3]) against seed 5 (players[4]) as the
	// bracket's only round-one match; seeds 1-3 draw byes.
	firstRound := matches[1]
	require.False(t, firstRound.Bye)
	require.Equal(t, players[3], *firstRound.WhitePlayer)
	require.Equal(t, players[4], *firstRound.BluePlayer)

	semiA, semiB, final := matches[4], matches[5], matches[6]
	require.Equal(t, players[0], *semiA.WhitePlayer)
	require.Nil(t, semiA.BluePlayer, "waiting on the only real round-one match")
	require.Equal(t, players[1], *semiB.WhitePlayer)
	require.Equal(t, players[2], *semiB.BluePlayer)

	award := func(matchID uuid.UUID, side store.Side) {
		a := &actions.AwardIppon{CategoryID: catID, MatchID: matchID, Side: side}
		require.NoError(t, a.Apply(tr))
	}

	award(firstRound.ID, store.White) // players[3] beats players[4]
	semiA = tr.Match(catID, semiA.ID)
	require.Equal(t, players[3], *semiA.BluePlayer, "winner must advance into the waiting semi-final slot")

	award(semiA.ID, store.White) // players[0] beats players[3]
	award(semiB.ID, store.Blue)  // players[2] beats players[1]

	final = tr.Match(catID, final.ID)
	require.Equal(t, players[0], *final.WhitePlayer)
	require.Equal(t, players[2], *final.BluePlayer)

	finalAction := &actions.AwardIppon{CategoryID: catID, MatchID: final.ID, Side: store.White}
	require.NoError(t, finalAction.Apply(tr))

	final = tr.Match(catID, final.ID)
	require.Equal(t, store.Finished, final.Status)

	system, ok := draw.ByTag(draw.KnockoutTag)
	require.True(t, ok)

	results := make([]draw.MatchResult, len(matches))
	for i, m := range matches {
		m = tr.Match(catID, m.ID)
		results[i] = draw.MatchResult{
			White:       m.WhitePlayer,
			Blue:        m.BluePlayer,
			Bye:         m.Bye,
			Finished:    m.Status == store.Finished,
			WinnerWhite: m.WhiteScore.Ippon > m.BlueScore.Ippon,
		}
	}
	require.True(t, system.IsFinished(results))

	places := make(map[uuid.UUID]int)
	for _, s := range system.Results(results) {
		places[s.Player] = s.Place
	}
	require.Equal(t, 1, places[players[0]])
	require.Equal(t, 2, places[players[2]])
	require.Equal(t, 3, places[players[1]])
	require.Equal(t, 3, places[players[3]])
	require.Equal(t, 5, places[players[4]])

	require.NoError(t, finalAction.Undo(tr))
	final = tr.Match(catID, final.ID)
	require.NotEqual(t, store.Finished, final.Status)
}

func TestKnockoutWinnerAdvancementUndoesForwardWiring(t *testing.T) {
	tr := store.NewTournament(uuid.New(), "Test Open", "salt")
	catID := uuid.New()

	addCat := &actions.AddCategory{ID: catID, Name: "-81kg", RulesetTag: judo.Tag, DrawTag: draw.KnockoutTag}
	require.NoError(t, addCat.Apply(tr))

	players := make([]uuid.UUID, 4)
	for i := range players {
		players[i] = uuid.New()
		addP := &actions.AddPlayer{ID: players[i], Fields: store.PlayerFields{FirstName: "Player"}}
		require.NoError(t, addP.Apply(tr))
	}
	addToCat := &actions.AddPlayersToCategory{PlayerIDs: players, CategoryID: catID}
	require.NoError(t, addToCat.Apply(tr))

	drawAction := &actions.DrawCategory{CategoryID: catID, PlayerOrder: players, Seed: 1}
	require.NoError(t, drawAction.Apply(tr))

	matches := tr.Category(catID).MatchObjects()
	require.Len(t, matches, 3) // two semis, one final, no byes with 4 players

	semi := matches[0]
	final := matches[2]
	require.NotNil(t, semi.NextMatch)
	require.Equal(t, final.ID, *semi.NextMatch)

	ippon := &actions.AwardIppon{CategoryID: catID, MatchID: semi.ID, Side: store.White}
	require.NoError(t, ippon.Apply(tr))

	winner := *tr.Match(catID, semi.ID).WhitePlayer
	final = tr.Match(catID, final.ID)
	require.NotNil(t, final.WhitePlayer)
	require.Equal(t, winner, *final.WhitePlayer)

	require.NoError(t, ippon.Undo(tr))
	final = tr.Match(catID, final.ID)
	require.Nil(t, final.WhitePlayer, "undoing the deciding action must retract the forwarded winner")
}

func TestSetTatamiCountGrowAndShrinkUndo(t *testing.T) {
	tr := store.NewTournament(uuid.New(), "Test Open", "salt")

	grow := &actions.SetTatamiCount{Count: 3, IDs: []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}}
	require.NoError(t, grow.Apply(tr))
	require.Equal(t, 3, tr.TatamiCount())

	require.NoError(t, grow.Undo(tr))
	require.Equal(t, 0, tr.TatamiCount())

	grow2 := &actions.SetTatamiCount{Count: 3, IDs: []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}}
	require.NoError(t, grow2.Apply(tr))
	shrink := &actions.SetTatamiCount{Count: 1}
	require.NoError(t, shrink.Apply(tr))
	require.Equal(t, 1, tr.TatamiCount())

	require.NoError(t, shrink.Undo(tr))
	require.Equal(t, 3, tr.TatamiCount())
}
