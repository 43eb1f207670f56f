// Package state implements the Game State (spec component C): the single
// aggregate of turn/phase/priority, zones, life, mana, combat and RNG
// state, generalized from the teacher's cmd/mtgsim/game.go Player/Game
// struct shape (per-type slices like Creatures/Lands/Artifacts) onto the
// zone store of component A and the undo log of component D.
package state

import (
	"github.com/pkg/errors"

	"github.com/mtgsim/mtgsim/internal/handle"
	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/types"
	"github.com/mtgsim/mtgsim/pkg/undo"
	"github.com/mtgsim/mtgsim/pkg/zone"
)

var errCardNotFound = errors.New("card handle not present in arena")

// CombatState holds the current combat assignment, cleared at the end of
// combat damage (spec §4.G DeclareAttackers/DeclareBlockers/CombatDamage).
type CombatState struct {
	Attackers       []types.CardId
	Blockers        map[types.CardId][]types.CardId // attacker -> ordered blockers
	DamageOrder     map[types.CardId][]types.CardId // attacker -> damage assignment order among its blockers
	FirstStrikeDone bool
}

// PlayerState is the per-player slice of GameState: life, mana, and
// turn-scoped counters. Zone contents live in the shared zone.Store, not
// here, so moving a card never requires touching two structs.
type PlayerState struct {
	Life            int
	Mana            *card.ManaPool
	LandsPlayedThisTurn int
}

// GameState is the single mutable aggregate every other engine component
// reads and writes through (spec §4.C).
type GameState struct {
	Turn           int
	Active         types.PlayerId
	Phase          types.Phase
	Step           types.Step
	PriorityHolder types.PlayerId
	HasPriority    bool // false while SBAs/triggers are being resolved, no one holds priority

	Cards *handle.Arena[card.Card]
	Zones *zone.Store
	Stack []types.StackObjectId // index 0 = bottom; resolution pops the end

	Players [2]PlayerState

	Combat CombatState

	Undo *undo.Log

	rngState uint64
}

// New returns a GameState initialized for a fresh two-player game at turn
// 1, both players at 20 life with empty mana pools.
func New() *GameState {
	return &GameState{
		Turn:   1,
		Active: types.PlayerA,
		Phase:  types.BeginningPhase,
		Step:   types.StepUntap,
		Cards:  handle.NewArena[card.Card](),
		Zones:  zone.NewStore(),
		Players: [2]PlayerState{
			{Life: 20, Mana: card.NewManaPool()},
			{Life: 20, Mana: card.NewManaPool()},
		},
		Undo: undo.NewLog(),
	}
}

// Player returns the PlayerState for p.
func (g *GameState) Player(p types.PlayerId) *PlayerState { return &g.Players[p] }

// Card returns the live *card.Card for id, or an error if the handle is
// unknown or has been freed.
func (g *GameState) Card(id types.CardId) (*card.Card, error) {
	c := g.Cards.GetMut(id)
	if c == nil {
		return nil, errors.Wrapf(errCardNotFound, "%v", id)
	}
	return c, nil
}

// RNGState / SetRNGState expose the engine's deterministic RNG seed
// material for Snapshot/Replay (spec §4.I, §9 "explicit seeded RNG,
// never a global").
func (g *GameState) RNGState() uint64     { return g.rngState }
func (g *GameState) SetRNGState(v uint64) { g.rngState = v }
