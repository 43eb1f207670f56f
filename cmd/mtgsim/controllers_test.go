package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/controller"
	"github.com/mtgsim/mtgsim/pkg/state"
	"github.com/mtgsim/mtgsim/pkg/types"
)

func singleCardGame(t *testing.T, name string) (*state.GameState, types.CardId) {
	t.Helper()
	db := card.NewCardDB(card.Builtins())
	def, ok := db.Get(name)
	require.True(t, ok)

	g := state.New()
	c := card.NewCard(types.CardId{}, def, types.PlayerA)
	id := g.Cards.Allocate(*c)
	g.Cards.GetMut(id).ID = id
	return g, id
}

func TestDescriptorControllerMatchesTextualDescriptor(t *testing.T) {
	g, mountainID := singleCardGame(t, "Mountain")
	dc := newDescriptorController([]string{"Play Mountain"}, controller.FirstChoice{}, g)

	actions := []controller.Action{
		{Kind: controller.ActionPass},
		{Kind: controller.ActionPlayLand, Card: mountainID},
	}
	idx := dc.ChooseSpellAbilityToPlay(state.View{}, actions)
	require.Equal(t, 1, idx)
	require.True(t, dc.Exhausted())
}

func TestDescriptorControllerAcceptsIntegerToken(t *testing.T) {
	g, _ := singleCardGame(t, "Mountain")
	dc := newDescriptorController([]string{"0"}, controller.FirstChoice{}, g)

	actions := []controller.Action{{Kind: controller.ActionPass}}
	idx := dc.ChooseSpellAbilityToPlay(state.View{}, actions)
	require.Equal(t, 0, idx)
}

func TestDescriptorControllerFallsBackWhenExhausted(t *testing.T) {
	g, _ := singleCardGame(t, "Mountain")
	dc := newDescriptorController([]string{"Pass"}, controller.FirstChoice{}, g)

	actions := []controller.Action{{Kind: controller.ActionPass}}
	dc.ChooseSpellAbilityToPlay(state.View{}, actions)
	require.True(t, dc.Exhausted())

	// Second call has no tokens left — falls through to FirstChoice, which
	// always returns index 0.
	idx := dc.ChooseSpellAbilityToPlay(state.View{}, actions)
	require.Equal(t, 0, idx)
}

func TestDescriptorControllerUnmatchedTextFallsBack(t *testing.T) {
	g, _ := singleCardGame(t, "Mountain")
	dc := newDescriptorController([]string{"Play Swamp"}, controller.FirstChoice{}, g)

	actions := []controller.Action{{Kind: controller.ActionPass}}
	idx := dc.ChooseSpellAbilityToPlay(state.View{}, actions)
	require.Equal(t, 0, idx) // FirstChoice fallback, since no "Swamp" action exists
}

func TestDescriptorControllerDelegatesOtherMethods(t *testing.T) {
	g, _ := singleCardGame(t, "Mountain")
	dc := newDescriptorController([]string{"Pass"}, controller.FirstChoice{}, g)

	// Untouched by the wrapper: behaves exactly like the embedded fallback.
	require.True(t, dc.ConfirmTrigger(state.View{}, "anything"))
}
