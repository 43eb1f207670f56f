package exec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/stack"
	"github.com/mtgsim/mtgsim/pkg/state"
	"github.com/mtgsim/mtgsim/pkg/types"
)

func newGame() (*state.GameState, *stack.Stack, *Executor) {
	g := state.New()
	s := stack.New()
	return g, s, New(g, s)
}

func putOnBattlefield(g *state.GameState, def *card.CardDefinition, owner types.PlayerId) types.CardId {
	c := card.NewCard(types.CardId{}, def, owner)
	id := g.Cards.Allocate(*c)
	stored := g.Cards.GetMut(id)
	stored.ID = id
	stored.Zone = types.Battlefield
	g.Zones.Append(types.Battlefield, owner, id)
	return id
}

func TestPlayLandEnforcesOncePerTurn(t *testing.T) {
	g, _, x := newGame()
	def := &card.CardDefinition{Name: "Mountain", Types: []card.CardType{card.TypeLand}}
	c := card.NewCard(types.CardId{}, def, types.PlayerA)
	id := g.Cards.Allocate(*c)
	g.Zones.Append(types.Hand, types.PlayerA, id)

	require.NoError(t, x.PlayLand(types.PlayerA, id))
	require.Equal(t, 1, g.Zones.Count(types.Battlefield, types.PlayerA))

	def2 := &card.CardDefinition{Name: "Forest", Types: []card.CardType{card.TypeLand}}
	c2 := card.NewCard(types.CardId{}, def2, types.PlayerA)
	id2 := g.Cards.Allocate(*c2)
	g.Zones.Append(types.Hand, types.PlayerA, id2)

	err := x.PlayLand(types.PlayerA, id2)
	require.Error(t, err)
	require.Equal(t, 1, g.Zones.Count(types.Hand, types.PlayerA))
}

func TestApplyEffectDealDamageLethal(t *testing.T) {
	g, _, x := newGame()
	def := &card.CardDefinition{Name: "Grizzly Bears", Types: []card.CardType{card.TypeCreature}, BasePower: 2, BaseToughness: 2}
	id := putOnBattlefield(g, def, types.PlayerB)

	err := x.ApplyEffect(card.EffectSpec{Kind: card.EffectDealDamage, Value: 3}, types.PlayerA, []stack.Target{{Card: id}})
	require.NoError(t, err)

	c, err := g.Card(id)
	require.NoError(t, err)
	require.True(t, c.HasLethalDamage())
}

func TestDestroySkipsIndestructible(t *testing.T) {
	g, _, x := newGame()
	def := &card.CardDefinition{Name: "Darksteel Colossus", Types: []card.CardType{card.TypeCreature}, Keywords: []card.Keyword{card.Indestructible}, BasePower: 11, BaseToughness: 11}
	id := putOnBattlefield(g, def, types.PlayerA)

	require.NoError(t, x.destroy(id))
	require.Equal(t, 1, g.Zones.Count(types.Battlefield, types.PlayerA))
}

func TestTransactionRollsBackOnFailedManaPayment(t *testing.T) {
	g, _, x := newGame()
	def := &card.CardDefinition{Name: "Lightning Bolt", Types: []card.CardType{card.TypeInstant}, ManaCost: "{R}"}
	c := card.NewCard(types.CardId{}, def, types.PlayerA)
	id := g.Cards.Allocate(*c)
	g.Zones.Append(types.Hand, types.PlayerA, id)

	err := x.CastSpell(types.PlayerA, id, nil, map[types.ManaType]int{types.Red: 1})
	require.Error(t, err)
	require.Equal(t, 1, g.Zones.Count(types.Hand, types.PlayerA))
	require.Equal(t, 0, g.Zones.Count(types.Stack, types.PlayerA))
}

func TestCastSpellSucceedsWithMana(t *testing.T) {
	g, _, x := newGame()
	g.Players[types.PlayerA].Mana.Add(types.Red, 1)
	def := &card.CardDefinition{
		Name: "Lightning Bolt", Types: []card.CardType{card.TypeInstant}, ManaCost: "{R}",
		Abilities: []card.AbilitySpec{{Kind: card.SpellEffectAbility, Effects: []card.EffectSpec{{Kind: card.EffectDealDamage, Value: 3}}}},
	}
	c := card.NewCard(types.CardId{}, def, types.PlayerA)
	id := g.Cards.Allocate(*c)
	g.Zones.Append(types.Hand, types.PlayerA, id)

	err := x.CastSpell(types.PlayerA, id, nil, map[types.ManaType]int{types.Red: 1})
	require.NoError(t, err)
	require.Equal(t, 1, len(g.Stack))
}

func TestEmptyManaDrainsPoolAndRewindRestoresIt(t *testing.T) {
	g, _, x := newGame()
	g.Players[types.PlayerA].Mana.Add(types.Red, 2)
	g.Players[types.PlayerA].Mana.Add(types.Any, 1)

	mark := g.Undo.Len()
	x.EmptyMana(types.PlayerA)
	require.Equal(t, 0, g.Players[types.PlayerA].Mana.Total())

	require.NoError(t, g.Undo.Rewind(g.Undo.Len()-mark, g))
	require.Equal(t, 2, g.Players[types.PlayerA].Mana.Get(types.Red))
	require.Equal(t, 3, g.Players[types.PlayerA].Mana.Total())
}

func TestEmptyManaOnAlreadyEmptyPoolRecordsNothing(t *testing.T) {
	g, _, x := newGame()
	mark := g.Undo.Len()
	x.EmptyMana(types.PlayerA)
	require.Equal(t, mark, g.Undo.Len())
}

// TestResolveTopOfStackRollbackRestoresPoppedObject covers the general
// Rewind contract for PopStackEntry (spec §4.D "reverse thousands of
// actions cheaply"): if applying a resolved object's effects fails
// partway through, rolling back must put the popped *stack.Object back
// on the live stack, not just its id in the GameState.Stack mirror.
func TestResolveTopOfStackRollbackRestoresPoppedObject(t *testing.T) {
	g, s, x := newGame()
	def := &card.CardDefinition{Name: "Mystery Spell", Types: []card.CardType{card.TypeInstant}}
	c := card.NewCard(types.CardId{}, def, types.PlayerA)
	id := g.Cards.Allocate(*c)
	stored := g.Cards.GetMut(id)
	stored.ID = id
	stored.Zone = types.Stack
	g.Zones.Append(types.Stack, types.PlayerA, id)

	obj := &stack.Object{
		Kind:       stack.SpellObject,
		Source:     id,
		Controller: types.PlayerA,
		Effects:    []card.EffectSpec{{Kind: card.EffectKind(999)}}, // unimplemented: always errors
	}
	x.PushStack(obj)
	require.Equal(t, 1, s.Size())

	err := x.ResolveTopOfStack()
	require.Error(t, err)

	require.Equal(t, 1, s.Size(), "popped object must be restored to the live stack on rollback")
	require.Equal(t, 1, len(g.Stack), "id mirror must be restored alongside the real object")
	require.Equal(t, obj.ID, s.Peek().ID)
}
