package snapshot_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/controller"
	"github.com/mtgsim/mtgsim/pkg/exec"
	"github.com/mtgsim/mtgsim/pkg/snapshot"
	"github.com/mtgsim/mtgsim/pkg/stack"
	"github.com/mtgsim/mtgsim/pkg/state"
	"github.com/mtgsim/mtgsim/pkg/types"
	"github.com/mtgsim/mtgsim/pkg/undo"
)

// TestSaveRewindsAndResumeRebuilds drives scenario S4's save leg: make a
// choice after the turn boundary, save, and confirm the saved state is
// back at the boundary (the draw undone) while the choice survives in the
// log, then confirm Resume reconstructs an equivalent live game from it.
func TestSaveRewindsAndResumeRebuilds(t *testing.T) {
	g := state.New()
	s := stack.New()
	x := exec.New(g, s)
	db := card.NewCardDB(card.Builtins())

	bearsDef, ok := db.Get("Grizzly Bears")
	require.True(t, ok)

	bears := card.NewCard(types.CardId{}, bearsDef, types.PlayerA)
	id := g.Cards.Allocate(*bears)
	stored := g.Cards.GetMut(id)
	stored.ID = id
	stored.Zone = types.Library
	g.Zones.Append(types.Library, types.PlayerA, id)

	x.MarkTurnStart()

	drawn, err := x.DrawCard(types.PlayerA)
	require.NoError(t, err)
	require.Equal(t, id, drawn)
	require.Equal(t, 1, g.Zones.Count(types.Hand, types.PlayerA))
	x.RecordChoice(undo.ReplayChoice{Kind: "spell_ability", Chosen: 0})

	snap, err := snapshot.Save(g, s)
	require.NoError(t, err)

	// Save rewinds the live game back to the turn boundary: the draw is
	// undone, the card is back in the library.
	require.Equal(t, 0, g.Zones.Count(types.Hand, types.PlayerA))
	require.Equal(t, 1, g.Zones.Count(types.Library, types.PlayerA))
	require.Len(t, snap.Choices, 1)
	require.Equal(t, 0, snap.Choices[0].Chosen)

	var buf bytes.Buffer
	require.NoError(t, snap.WriteTo(&buf))

	loaded, err := snapshot.Load(&buf)
	require.NoError(t, err)
	require.Len(t, loaded.Choices, 1)
	require.Equal(t, snap.Choices[0].Kind, loaded.Choices[0].Kind)
	require.Equal(t, snap.Choices[0].Chosen, loaded.Choices[0].Chosen)

	g2, _, _, wrapped, err := snapshot.Resume(loaded, db, [2]controller.Controller{controller.FirstChoice{}, controller.FirstChoice{}})
	require.NoError(t, err)
	require.Equal(t, 0, g2.Zones.Count(types.Hand, types.PlayerA))
	require.Equal(t, 1, g2.Zones.Count(types.Library, types.PlayerA))
	require.Equal(t, g.Turn, g2.Turn)
	require.Equal(t, g.Active, g2.Active)

	restoredCard, err := g2.Card(id)
	require.NoError(t, err)
	require.Equal(t, "Grizzly Bears", restoredCard.Def.Name)

	require.NotNil(t, wrapped[0])
	actions := []controller.Action{{Kind: controller.ActionPass}, {Kind: controller.ActionPlayLand}}
	require.Equal(t, 0, wrapped[0].ChooseSpellAbilityToPlay(g2.View(types.PlayerA, false), actions))
}
