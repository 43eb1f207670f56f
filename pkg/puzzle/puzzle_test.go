package puzzle_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/puzzle"
	"github.com/mtgsim/mtgsim/pkg/types"
)

// TestParseRoyalAssassinScenario builds scenario S3's starting state: P2
// controls an untapped Royal Assassin, P1 has a tapped Grizzly Bears (the
// puzzle records it as tapped only; no combat state is parsed).
func TestParseRoyalAssassinScenario(t *testing.T) {
	db := card.NewCardDB(card.Builtins())
	src := `[metadata]
name = Assassinate
goal = Kill the attacker before damage
turns = 1
difficulty = easy

[state]
turn = 3
active = 0
phase = Combat
step = DeclareBlockers

[player0]
life = 20
battlefield = Grizzly Bears|Tapped

[player1]
life = 18
battlefield = Royal Assassin
`
	g, meta, err := puzzle.Parse(strings.NewReader(src), db)
	require.NoError(t, err)

	require.Equal(t, "Assassinate", meta.Name)
	require.Equal(t, "easy", meta.Difficulty)

	require.Equal(t, 3, g.Turn)
	require.Equal(t, types.PlayerA, g.Active)
	require.Equal(t, types.CombatPhase, g.Phase)
	require.Equal(t, types.StepDeclareBlockers, g.Step)
	require.Equal(t, 20, g.Players[types.PlayerA].Life)
	require.Equal(t, 18, g.Players[types.PlayerB].Life)

	require.Equal(t, 1, g.Zones.Count(types.Battlefield, types.PlayerA))
	bearsID := g.Zones.Cards(types.Battlefield, types.PlayerA)[0]
	bears, err := g.Card(bearsID)
	require.NoError(t, err)
	require.Equal(t, "Grizzly Bears", bears.Def.Name)
	require.True(t, bears.Tapped)

	assassinID := g.Zones.Cards(types.Battlefield, types.PlayerB)[0]
	assassin, err := g.Card(assassinID)
	require.NoError(t, err)
	require.Equal(t, "Royal Assassin", assassin.Def.Name)
	require.False(t, assassin.Tapped)
}

func TestParseCountersAndDamageAndAttachment(t *testing.T) {
	db := card.NewCardDB(card.Builtins())
	src := `[state]
turn = 1
active = 0

[player0]
battlefield = Grizzly Bears|Counters:P1P1=2|Damage:1;Royal Assassin|AttachedTo:1
`
	g, _, err := puzzle.Parse(strings.NewReader(src), db)
	require.NoError(t, err)

	ids := g.Zones.Cards(types.Battlefield, types.PlayerA)
	require.Len(t, ids, 2)

	bears, err := g.Card(ids[0])
	require.NoError(t, err)
	require.Equal(t, 2, bears.Counters[types.PlusOnePlusOne])
	require.Equal(t, 1, bears.DamageMarked)

	assassin, err := g.Card(ids[1])
	require.NoError(t, err)
	require.Equal(t, ids[0], assassin.AttachedTo)
}

func TestParseUnknownCardIsError(t *testing.T) {
	db := card.NewCardDB(card.Builtins())
	src := "[player0]\nhand = Not A Real Card\n"
	_, _, err := puzzle.Parse(strings.NewReader(src), db)
	require.Error(t, err)
}
