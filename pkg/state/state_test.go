package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/types"
	"github.com/mtgsim/mtgsim/pkg/undo"
)

func TestViewHidesOpponentHandByDefault(t *testing.T) {
	g := New()
	def := &card.CardDefinition{Name: "Mountain", Types: []card.CardType{card.TypeLand}}
	id := g.Cards.Allocate(*card.NewCard(types.CardId{}, def, types.PlayerB))
	g.Zones.Append(types.Hand, types.PlayerB, id)

	v := g.View(types.PlayerA, false)
	require.Nil(t, v.Players[types.PlayerB].Hand)
	require.Equal(t, 1, v.Players[types.PlayerB].HandCount)
}

func TestViewOmniscientRevealsBothHands(t *testing.T) {
	g := New()
	def := &card.CardDefinition{Name: "Mountain", Types: []card.CardType{card.TypeLand}}
	id := g.Cards.Allocate(*card.NewCard(types.CardId{}, def, types.PlayerB))
	g.Zones.Append(types.Hand, types.PlayerB, id)

	v := g.View(types.PlayerA, true)
	require.Equal(t, []types.CardId{id}, v.Players[types.PlayerB].Hand)
}

func TestUndoMoveCardReversesZoneTransfer(t *testing.T) {
	g := New()
	def := &card.CardDefinition{Name: "Mountain", Types: []card.CardType{card.TypeLand}}
	id := g.Cards.Allocate(*card.NewCard(types.CardId{}, def, types.PlayerA))
	g.Zones.Append(types.Library, types.PlayerA, id)

	g.Undo.Append(undo.Entry{
		Kind:      undo.MoveCard,
		Card:      id,
		FromZone:  types.Library,
		FromOwner: types.PlayerA,
		ToZone:    types.Hand,
		ToOwner:   types.PlayerA,
	})
	require.NoError(t, g.Zones.Move(types.Library, types.PlayerA, types.Hand, types.PlayerA, id))
	require.Equal(t, 1, g.Zones.Count(types.Hand, types.PlayerA))

	require.NoError(t, g.Undo.Rewind(1, g))
	require.Equal(t, 0, g.Zones.Count(types.Hand, types.PlayerA))
	require.Equal(t, 1, g.Zones.Count(types.Library, types.PlayerA))
}

func TestUndoDrawCardRestoresLibraryTopNotBottom(t *testing.T) {
	// A single-card library can't distinguish top from bottom; this needs
	// at least two, with the drawn card NOT at the back, to catch a
	// Move-based (bottom-append) undo silently reordering the library.
	g := New()
	def := &card.CardDefinition{Name: "Mountain", Types: []card.CardType{card.TypeLand}}
	top := g.Cards.Allocate(*card.NewCard(types.CardId{}, def, types.PlayerA))
	rest := g.Cards.Allocate(*card.NewCard(types.CardId{}, def, types.PlayerA))
	g.Zones.Append(types.Library, types.PlayerA, top)
	g.Zones.Append(types.Library, types.PlayerA, rest)
	before := append([]types.CardId(nil), g.Zones.Cards(types.Library, types.PlayerA)...)

	g.Undo.Append(undo.Entry{Kind: undo.DrawCardEntry, Card: top, Player: types.PlayerA})
	require.NoError(t, g.Zones.Move(types.Library, types.PlayerA, types.Hand, types.PlayerA, top))

	require.NoError(t, g.Undo.Rewind(1, g))
	require.Equal(t, before, g.Zones.Cards(types.Library, types.PlayerA))
}
