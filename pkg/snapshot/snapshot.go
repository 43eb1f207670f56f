// Package snapshot implements Snapshot / Replay (spec component I): saving
// a game as the turn-boundary state that precedes "now" plus the ordered
// intra-turn choice log, and resuming by reconstructing that state and
// replaying the choices back through a pair of controllers (spec.md
// §4.I). There is no teacher equivalent — built in the teacher's
// package-per-concern idiom, one file per concern the way pkg/stack and
// pkg/exec are each a single small package.
package snapshot

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mtgsim/mtgsim/internal/handle"
	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/controller"
	"github.com/mtgsim/mtgsim/pkg/exec"
	"github.com/mtgsim/mtgsim/pkg/stack"
	"github.com/mtgsim/mtgsim/pkg/state"
	"github.com/mtgsim/mtgsim/pkg/types"
	"github.com/mtgsim/mtgsim/pkg/undo"
	"github.com/mtgsim/mtgsim/pkg/zone"
)

// CardRecord is one card.Card instance, serialized with its Def resolved
// to a printed name rather than a pointer — CardDefinitions are shared,
// immutable singletons the caller's CardDB re-resolves at Resume, not
// state this package owns (spec.md §4.I "Determinism requires... the
// CardDefinition content [is] identical between save and load").
type CardRecord struct {
	Index                  uint32
	Gen                    uint32
	DefName                string
	Owner                  types.PlayerId
	Controller             types.PlayerId
	Zone                   types.ZoneKind
	Tapped                 bool
	SummoningSick          bool
	DamageMarked           int
	Counters               map[types.CounterKind]int
	AttachedTo             types.CardId
	TurnEnteredBattlefield int
	Modifiers              []card.Modifier
}

// PlayerRecord is one player's life/mana/turn-scoped state.
type PlayerRecord struct {
	Life                int
	ManaColored         map[types.ManaType]int
	ManaGeneric         int
	LandsPlayedThisTurn int
}

// Snapshot is a complete, self-describing save point: the GameState at
// the turn boundary preceding the save, the choices made since, and the
// RNG state at that boundary (spec.md §4.I).
type Snapshot struct {
	Turn           int
	Active         types.PlayerId
	Phase          types.Phase
	Step           types.Step
	PriorityHolder types.PlayerId
	HasPriority    bool
	Players        [2]PlayerRecord
	Cards          []CardRecord
	Zones          []zone.Entry
	RNGState       uint64
	Choices        []undo.ReplayChoice
}

// Save rewinds g's undo log to the most recent TurnMarker — mutating g in
// place back to that turn-boundary state, per spec.md §4.I's definition
// of what a snapshot captures — collects the ChoicePoints passed over
// along the way, and serializes the result. stk is reset to empty: the
// stack is always empty at a turn boundary (every priority round in this
// engine runs until the stack drains, spec.md §4.G), so nothing on it
// needs to survive the rewind; whatever was on it gets regenerated when
// Resume replays the choices that put it there.
func Save(g *state.GameState, stk *stack.Stack) (*Snapshot, error) {
	choices, err := g.Undo.RewindToTurnStart(exec.NewMutator(g, stk))
	if err != nil {
		return nil, errors.Wrap(err, "rewinding to turn start")
	}
	stk.Restore(nil)

	snap := &Snapshot{
		Turn:           g.Turn,
		Active:         g.Active,
		Phase:          g.Phase,
		Step:           g.Step,
		PriorityHolder: g.PriorityHolder,
		HasPriority:    g.HasPriority,
		RNGState:       g.RNGState(),
		Choices:        choices,
		Zones:          g.Zones.Snapshot(),
	}

	for i, p := range g.Players {
		colored, generic := p.Mana.Snapshot()
		snap.Players[i] = PlayerRecord{
			Life:                p.Life,
			ManaColored:         colored,
			ManaGeneric:         generic,
			LandsPlayedThisTurn: p.LandsPlayedThisTurn,
		}
	}

	for _, e := range g.Cards.Snapshot() {
		c := e.Value
		snap.Cards = append(snap.Cards, CardRecord{
			Index:                  e.Index,
			Gen:                    e.Gen,
			DefName:                c.Def.Name,
			Owner:                  c.Owner,
			Controller:             c.Controller,
			Zone:                   c.Zone,
			Tapped:                 c.Tapped,
			SummoningSick:          c.SummoningSick,
			DamageMarked:           c.DamageMarked,
			Counters:               c.Counters,
			AttachedTo:             c.AttachedTo,
			TurnEnteredBattlefield: c.TurnEnteredBattlefield,
			Modifiers:              c.Modifiers,
		})
	}
	return snap, nil
}

// WriteTo serializes the snapshot as self-describing YAML (spec.md §4.I
// "format is opaque... self-describing or compact-binary"; this system
// uses YAML, as pkg/stack uses github.com/google/uuid and pkg/undo uses
// go-spew — small, focused libraries per concern).
func (s *Snapshot) WriteTo(w io.Writer) error {
	return errors.Wrap(yaml.NewEncoder(w).Encode(s), "encoding snapshot")
}

// Load deserializes a Snapshot previously written by WriteTo.
func Load(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decoding snapshot")
	}
	return &s, nil
}

// Resume rebuilds a GameState/Stack/Executor from snap, resolving every
// card's definition through db, and wraps controllers in a shared
// controller.Replaying pair so the resumed game first exhausts snap's
// choice log before asking controllers for anything new (spec.md §4.I
// Resume).
func Resume(snap *Snapshot, db *card.CardDB, controllers [2]controller.Controller) (*state.GameState, *stack.Stack, *exec.Executor, [2]controller.Controller, error) {
	g := state.New()
	g.Turn = snap.Turn
	g.Active = snap.Active
	g.Phase = snap.Phase
	g.Step = snap.Step
	g.PriorityHolder = snap.PriorityHolder
	g.HasPriority = snap.HasPriority
	g.SetRNGState(snap.RNGState)

	entries := make([]handle.Entry[card.Card], 0, len(snap.Cards))
	for _, cr := range snap.Cards {
		def, ok := db.Get(cr.DefName)
		if !ok {
			return nil, nil, nil, controllers, errors.Errorf("snapshot: unknown card definition %q", cr.DefName)
		}
		counters := cr.Counters
		if counters == nil {
			counters = make(map[types.CounterKind]int)
		}
		entries = append(entries, handle.Entry[card.Card]{
			Index: cr.Index,
			Gen:   cr.Gen,
			Value: card.Card{
				ID:                     types.CardId{Index: cr.Index, Gen: cr.Gen},
				Def:                    def,
				Owner:                  cr.Owner,
				Controller:             cr.Controller,
				Zone:                   cr.Zone,
				Tapped:                 cr.Tapped,
				SummoningSick:          cr.SummoningSick,
				DamageMarked:           cr.DamageMarked,
				Counters:               counters,
				AttachedTo:             cr.AttachedTo,
				TurnEnteredBattlefield: cr.TurnEnteredBattlefield,
				Modifiers:              cr.Modifiers,
			},
		})
	}
	g.Cards = handle.Restore(entries)
	g.Zones.Restore(snap.Zones)

	for i, pr := range snap.Players {
		g.Players[i].Life = pr.Life
		g.Players[i].LandsPlayedThisTurn = pr.LandsPlayedThisTurn
		g.Players[i].Mana.Restore(pr.ManaColored, pr.ManaGeneric)
	}

	stk := stack.New()
	x := exec.New(g, stk)
	wrapped := controller.NewReplayingPair(snap.Choices, controllers)
	return g, stk, x, wrapped, nil
}
