package stack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/state"
	"github.com/mtgsim/mtgsim/pkg/types"
)

func TestPushPopIsLIFO(t *testing.T) {
	s := New()
	s.Push(&Object{Source: types.CardId{Index: 1, Gen: 1}})
	s.Push(&Object{Source: types.CardId{Index: 2, Gen: 1}})
	require.Equal(t, 2, s.Size())

	top := s.Pop()
	require.Equal(t, types.CardId{Index: 2, Gen: 1}, top.Source)
	require.Equal(t, 1, s.Size())
}

func TestResolveTopFizzlesWhenAllTargetsIllegal(t *testing.T) {
	g := state.New()
	s := New()
	missing := types.CardId{Index: 99, Gen: 1}
	s.Push(&Object{
		Targets:     []Target{{Card: missing}},
		TargetSpecs: []card.TargetSpec{{Kind: card.TargetCreature, Required: true, Count: 1}},
	})

	res, err := s.ResolveTop(g)
	require.NoError(t, err)
	require.True(t, res.Fizzled)
}

func TestResolveTopCounteredSkipsTargetChecks(t *testing.T) {
	g := state.New()
	s := New()
	obj := &Object{}
	s.Push(obj)
	require.NoError(t, s.Counter(obj.ID))

	res, err := s.ResolveTop(g)
	require.NoError(t, err)
	require.True(t, res.Object.Countered)
}

func TestResolveTopKeepsLegalTargetsOnly(t *testing.T) {
	g := state.New()
	def := &card.CardDefinition{Name: "Grizzly Bears", Types: []card.CardType{card.TypeCreature}, BasePower: 2, BaseToughness: 2}
	c := card.NewCard(types.CardId{}, def, types.PlayerA)
	c.Zone = types.Battlefield
	id := g.Cards.Allocate(*c)
	g.Zones.Append(types.Battlefield, types.PlayerA, id)

	missing := types.CardId{Index: 123, Gen: 1}
	s := New()
	s.Push(&Object{
		Targets: []Target{{Card: id}, {Card: missing}},
		TargetSpecs: []card.TargetSpec{
			{Kind: card.TargetCreature, Required: true, Count: 1},
			{Kind: card.TargetCreature, Required: false, Count: 1},
		},
	})

	res, err := s.ResolveTop(g)
	require.NoError(t, err)
	require.False(t, res.Fizzled)
	require.Len(t, res.LegalTargets, 1)
	require.Equal(t, id, res.LegalTargets[0].Card)
}
