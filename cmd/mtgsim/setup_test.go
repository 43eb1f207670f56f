package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/deckfile"
	"github.com/mtgsim/mtgsim/pkg/types"
)

func testDecklist(t *testing.T, db *card.CardDB, count int, name string) *deckfile.Decklist {
	t.Helper()
	def, ok := db.Get(name)
	require.True(t, ok)
	return &deckfile.Decklist{Main: []deckfile.Entry{{Def: def, Quantity: count}}}
}

func TestBuildFreshGameShufflesAndDealsSeven(t *testing.T) {
	db := card.NewCardDB(card.Builtins())
	deckA := testDecklist(t, db, 40, "Mountain")
	deckB := testDecklist(t, db, 40, "Forest")

	g, err := buildFreshGame([2]*deckfile.Decklist{deckA, deckB}, 42, [2][]string{nil, nil})
	require.NoError(t, err)

	require.Equal(t, 7, g.Zones.Count(types.Hand, types.PlayerA))
	require.Equal(t, 33, g.Zones.Count(types.Library, types.PlayerA))
	require.Equal(t, 7, g.Zones.Count(types.Hand, types.PlayerB))
}

func TestBuildFreshGameSameDeckSeedSameOpeningHandMultiset(t *testing.T) {
	db := card.NewCardDB(card.Builtins())
	deckA := &deckfile.Decklist{Main: []deckfile.Entry{
		{Def: mustGet(t, db, "Mountain"), Quantity: 20},
		{Def: mustGet(t, db, "Lightning Bolt"), Quantity: 20},
	}}
	deckB := testDecklist(t, db, 40, "Forest")

	g1, err := buildFreshGame([2]*deckfile.Decklist{deckA, deckB}, 7, [2][]string{nil, nil})
	require.NoError(t, err)
	g2, err := buildFreshGame([2]*deckfile.Decklist{deckA, deckB}, 7, [2][]string{nil, nil})
	require.NoError(t, err)

	names1 := handNames(t, g1.Zones.Cards(types.Hand, types.PlayerA), g1)
	names2 := handNames(t, g2.Zones.Cards(types.Hand, types.PlayerA), g2)
	require.ElementsMatch(t, names1, names2)
}

func handNames(t *testing.T, ids []types.CardId, g interface {
	Card(types.CardId) (*card.Card, error)
}) []string {
	t.Helper()
	names := make([]string, len(ids))
	for i, id := range ids {
		c, err := g.Card(id)
		require.NoError(t, err)
		names[i] = c.Def.Name
	}
	return names
}

func TestDealOpeningHandPlacesNamedCardsFirst(t *testing.T) {
	db := card.NewCardDB(card.Builtins())
	deck := testDecklist(t, db, 3, "Lightning Bolt")
	deck.Main = append(deck.Main, deckfile.Entry{Def: mustGet(t, db, "Mountain"), Quantity: 10})

	g, err := buildFreshGame([2]*deckfile.Decklist{deck, deck}, 1, [2][]string{{"Lightning Bolt"}, nil})
	require.NoError(t, err)

	found := false
	for _, id := range g.Zones.Cards(types.Hand, types.PlayerA) {
		c, err := g.Card(id)
		require.NoError(t, err)
		if c.Def.Name == "Lightning Bolt" {
			found = true
		}
	}
	require.True(t, found)

	first, err := g.Card(g.Zones.Cards(types.Hand, types.PlayerA)[0])
	require.NoError(t, err)
	require.Equal(t, "Lightning Bolt", first.Def.Name)
}

func mustGet(t *testing.T, db *card.CardDB, name string) *card.CardDefinition {
	t.Helper()
	def, ok := db.Get(name)
	require.True(t, ok)
	return def
}

func TestSplitListAndTokens(t *testing.T) {
	require.Equal(t, []string{"Mountain", "Forest"}, splitList("Mountain, Forest"))
	require.Nil(t, splitList(""))
	require.Equal(t, []string{"Play Swamp", "0", "Pass"}, splitTokens("Play Swamp;0;Pass"))
}

func TestParseSeed(t *testing.T) {
	n, err := parseSeed("42")
	require.NoError(t, err)
	require.Equal(t, uint64(42), n)

	_, err = parseSeed("not-a-number")
	require.Error(t, err)

	n1, err := parseSeed("clock")
	require.NoError(t, err)
	require.NotZero(t, n1)
}
