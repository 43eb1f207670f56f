package state

import "github.com/mtgsim/mtgsim/pkg/types"

// PlayerView is the read-only per-player projection exposed to a
// controller (spec §4.H): the controller's own hand is fully visible, the
// opponent's is visible only as a count unless the view is omniscient.
type PlayerView struct {
	Life                int
	Hand                []types.CardId // nil for a hidden opponent hand
	HandCount           int
	Library             []types.CardId // nil for an opponent's library unless the view is omniscient
	LibraryCount        int
	Battlefield         []types.CardId
	Graveyard           []types.CardId
	Exile               []types.CardId
	LandsPlayedThisTurn int
}

// View is the non-owning, lifetime-scoped snapshot of GameState a
// controller receives (spec §4.H). It never aliases mutable engine state —
// every slice is a copy — so a controller cannot accidentally mutate the
// game by holding onto a View.
type View struct {
	Turn           int
	Active         types.PlayerId
	Phase          types.Phase
	Step           types.Step
	PriorityHolder types.PlayerId

	ForPlayer  types.PlayerId
	Omniscient bool

	Players [2]PlayerView

	Stack  []types.StackObjectId
	Combat CombatState
}

// View builds a View for forPlayer. When omniscient is true (puzzle/test
// tooling only, per spec §4.H) both hands and both libraries are fully
// visible; otherwise only forPlayer's own hand and library contents are,
// the opponent's being reduced to a count.
func (g *GameState) View(forPlayer types.PlayerId, omniscient bool) View {
	v := View{
		Turn:           g.Turn,
		Active:         g.Active,
		Phase:          g.Phase,
		Step:           g.Step,
		PriorityHolder: g.PriorityHolder,
		ForPlayer:      forPlayer,
		Omniscient:     omniscient,
		Stack:          append([]types.StackObjectId(nil), g.Stack...),
		Combat:         g.Combat,
	}

	for p := types.PlayerId(0); p <= types.PlayerB; p++ {
		reveal := omniscient || p == forPlayer
		hand := g.Zones.Cards(types.Hand, p)
		lib := g.Zones.Cards(types.Library, p)

		pv := PlayerView{
			Life:                g.Players[p].Life,
			HandCount:           len(hand),
			LibraryCount:        len(lib),
			Battlefield:         append([]types.CardId(nil), g.Zones.Cards(types.Battlefield, p)...),
			Graveyard:           append([]types.CardId(nil), g.Zones.Cards(types.Graveyard, p)...),
			Exile:               append([]types.CardId(nil), g.Zones.Cards(types.Exile, p)...),
			LandsPlayedThisTurn: g.Players[p].LandsPlayedThisTurn,
		}
		if reveal {
			pv.Hand = append([]types.CardId(nil), hand...)
			pv.Library = append([]types.CardId(nil), lib...)
		}
		v.Players[p] = pv
	}

	return v
}
