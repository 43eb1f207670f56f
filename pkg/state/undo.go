package state

import (
	"github.com/mtgsim/mtgsim/pkg/types"
	"github.com/mtgsim/mtgsim/pkg/undo"
)

// The methods below implement undo.Mutator: each reverses the mutation
// its Entry kind describes (UndoMoveCard notes the card fields it leaves
// alone), never touching anything else. The
// Executor (component E) is the only caller of Append; GameState never
// appends to its own log, keeping "every write path records its inverse
// first" (spec §4.D) a property of the Executor alone.

// UndoMoveCard restores the card's zone membership and its Zone field.
// The Controller, SummoningSick and TurnEnteredBattlefield values a
// forward move sets are not recorded in the entry and are not restored.
func (g *GameState) UndoMoveCard(e undo.Entry) error {
	var err error
	if e.FromZone == types.Library {
		// The forward move removed id from the library's top (every
		// removal in pkg/exec draws/mills off Zones.Top); reversing it
		// must restore that same top position, not Move's bottom-append,
		// or the library's order permanently shifts across a rewind.
		err = g.Zones.MoveToFront(e.ToZone, e.ToOwner, e.FromZone, e.FromOwner, e.Card)
	} else {
		err = g.Zones.Move(e.ToZone, e.ToOwner, e.FromZone, e.FromOwner, e.Card)
	}
	if c, cerr := g.Card(e.Card); err == nil && cerr == nil {
		c.Zone = e.FromZone
	}
	return err
}

func (g *GameState) UndoSetTapped(e undo.Entry) {
	if c, err := g.Card(e.Card); err == nil {
		c.Tapped = e.TappedBefore
	}
}

func (g *GameState) UndoAddCounter(e undo.Entry) {
	if c, err := g.Card(e.Card); err == nil {
		c.Counters[e.CounterKind] -= e.Delta
	}
}

func (g *GameState) UndoSetLife(e undo.Entry) {
	g.Players[e.Player].Life = e.LifeBefore
}

func (g *GameState) UndoMoveMana(e undo.Entry) {
	pool := g.Players[e.Player].Mana
	pool.Add(e.ManaType, e.ManaBefore-pool.Get(e.ManaType))
}

func (g *GameState) UndoSetPhaseStep(e undo.Entry) {
	g.Phase = e.PhaseBefore
	g.Step = e.StepBefore
}

func (g *GameState) UndoSetActivePlayer(e undo.Entry) {
	g.Active = e.PlayerBefore
}

func (g *GameState) UndoSetPriorityHolder(e undo.Entry) {
	g.PriorityHolder = e.PlayerBefore
}

func (g *GameState) UndoPushStack(e undo.Entry) {
	if n := len(g.Stack); n > 0 && g.Stack[n-1] == e.StackObject {
		g.Stack = g.Stack[:n-1]
	}
}

func (g *GameState) UndoPopStack(e undo.Entry) {
	g.Stack = append(g.Stack, e.StackObject)
}

func (g *GameState) UndoDrawCard(e undo.Entry) error {
	// DrawCard always removes from the library's top (Zones.Top); putting
	// the card back anywhere but the top would reorder the library across
	// a rewind even though the card count is restored.
	if err := g.Zones.MoveToFront(types.Hand, e.Player, types.Library, e.Player, e.Card); err != nil {
		return err
	}
	if c, err := g.Card(e.Card); err == nil {
		c.Zone = types.Library
	}
	return nil
}

func (g *GameState) UndoChangeTurn(e undo.Entry) {
	g.Turn = e.TurnBefore
}

func (g *GameState) UndoSetDamageMarked(e undo.Entry) {
	if c, err := g.Card(e.Card); err == nil {
		c.DamageMarked = e.DamageBefore
	}
}

func (g *GameState) UndoEmptyMana(e undo.Entry) {
	g.Players[e.Player].Mana.Restore(e.ManaColoredBefore, e.ManaGenericBefore)
}
