package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/controller"
	"github.com/mtgsim/mtgsim/pkg/exec"
	"github.com/mtgsim/mtgsim/pkg/stack"
	"github.com/mtgsim/mtgsim/pkg/state"
	"github.com/mtgsim/mtgsim/pkg/types"
)

func newTestGame() (*state.GameState, *stack.Stack, *exec.Executor) {
	g := state.New()
	s := stack.New()
	return g, s, exec.New(g, s)
}

func putInHand(g *state.GameState, def *card.CardDefinition, owner types.PlayerId) types.CardId {
	c := card.NewCard(types.CardId{}, def, owner)
	id := g.Cards.Allocate(*c)
	stored := g.Cards.GetMut(id)
	stored.ID = id
	stored.Zone = types.Hand
	g.Zones.Append(types.Hand, owner, id)
	return id
}

func putInPlay(g *state.GameState, def *card.CardDefinition, owner types.PlayerId) types.CardId {
	c := card.NewCard(types.CardId{}, def, owner)
	id := g.Cards.Allocate(*c)
	stored := g.Cards.GetMut(id)
	stored.ID = id
	stored.Zone = types.Battlefield
	stored.SummoningSick = false
	g.Zones.Append(types.Battlefield, owner, id)
	return id
}

// TestLightningBoltEndsGameAtZeroLife drives scenario S1: casting Lightning
// Bolt at the opponent's face for lethal ends the game on the caster's
// turn, entirely through the priority/stack/SBA machinery rather than a
// direct life-total assertion.
func TestLightningBoltEndsGameAtZeroLife(t *testing.T) {
	g, s, x := newTestGame()
	g.Players[types.PlayerB].Life = 3

	// Floating mana empties after every step, so the Bolt is paid for by
	// tapping a red source during the upkeep priority round.
	mountain := &card.CardDefinition{Name: "Mountain", Types: []card.CardType{card.TypeLand}, Abilities: []card.AbilitySpec{
		{Name: "Add R", Kind: card.ManaAbility, Cost: card.Cost{Tap: true}, ManaProduced: []types.ManaType{types.Red}},
	}}
	land := putInPlay(g, mountain, types.PlayerA)

	bolt := card.Builtins()[3] // Lightning Bolt
	require.Equal(t, "Lightning Bolt", bolt.Name)
	putInHand(g, bolt, types.PlayerA)

	castAndTargetFace := &controller.FixedScript{Choices: []controller.Choice{
		{Index: 1}, // cast Lightning Bolt (index 0 is always pass)
		{Mana: map[types.CardId]types.ManaType{land: types.Red}},
		{Targets: []stack.Target{{Player: types.PlayerB, IsPlayer: true}}},
	}}
	e := New(g, s, x, [2]controller.Controller{castAndTargetFace, controller.FirstChoice{}})

	res, err := e.Run()
	require.NoError(t, err)
	require.NotNil(t, res.Winner)
	require.Equal(t, types.PlayerA, *res.Winner)
	require.LessOrEqual(t, g.Players[types.PlayerB].Life, 0)
}

// TestRoyalAssassinDestroysTappedCreature drives scenario S3: activating
// Royal Assassin's ability to destroy a tapped creature.
func TestRoyalAssassinDestroysTappedCreature(t *testing.T) {
	g, s, x := newTestGame()
	defs := card.Builtins()
	assassinDef := defs[5]
	require.Equal(t, "Royal Assassin", assassinDef.Name)
	bearsDef := defs[4]
	require.Equal(t, "Grizzly Bears", bearsDef.Name)

	putInPlay(g, assassinDef, types.PlayerA)
	victim := putInPlay(g, bearsDef, types.PlayerB)
	victimCard, err := g.Card(victim)
	require.NoError(t, err)
	victimCard.Tapped = true

	activateAndTarget := &controller.FixedScript{Choices: []controller.Choice{
		{Index: 1}, // activate Royal Assassin's ability
		{Targets: []stack.Target{{Card: victim}}},
	}}
	e := New(g, s, x, [2]controller.Controller{activateAndTarget, controller.FirstChoice{}})

	require.NoError(t, e.priorityRound())

	_, _, found := g.Zones.Find(victim)
	require.True(t, found)
	kind, _, _ := g.Zones.Find(victim)
	require.Equal(t, types.Graveyard, kind)
}

// TestLegalActionsElidesToSoloPass confirms the choice-elision invariant's
// precondition: with an empty hand and no activatable permanents, the only
// legal action offered is pass.
func TestLegalActionsElidesToSoloPass(t *testing.T) {
	g, s, x := newTestGame()
	e := New(g, s, x, [2]controller.Controller{controller.FirstChoice{}, controller.FirstChoice{}})
	g.Step = types.StepMain1
	g.Phase = types.Main1Phase

	actions := e.legalActions(types.PlayerA)
	require.Len(t, actions, 1)
	require.True(t, actions[0].IsPass())
}

// TestRunStepEmptiesManaPools covers spec invariant 6 / testable property
// 7: floating mana never survives a step boundary, even if it was never
// spent.
func TestRunStepEmptiesManaPools(t *testing.T) {
	g, s, x := newTestGame()
	e := New(g, s, x, [2]controller.Controller{controller.FirstChoice{}, controller.FirstChoice{}})
	g.Players[types.PlayerA].Mana.Add(types.Red, 3)
	g.Players[types.PlayerB].Mana.Add(types.Any, 2)

	require.NoError(t, e.runStep(types.StepMain1))

	require.Equal(t, 0, g.Players[types.PlayerA].Mana.Total())
	require.Equal(t, 0, g.Players[types.PlayerB].Mana.Total())
}
