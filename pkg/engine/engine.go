// Package engine implements the Turn/Phase Engine (spec component G): the
// phase/step state machine, state-based actions, combat, and priority
// rounds, grounded on the teacher's src/turn.go step table and
// cmd/mtgsim/game.go's executeTurn/combatPhase/resolveCombatDamage/
// checkStateBasedActions, generalized from a fixed "always attack, always
// block" heuristic into controller-driven decisions (component H).
package engine

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mtgsim/mtgsim/internal/logger"
	"github.com/mtgsim/mtgsim/pkg/controller"
	"github.com/mtgsim/mtgsim/pkg/exec"
	"github.com/mtgsim/mtgsim/pkg/stack"
	"github.com/mtgsim/mtgsim/pkg/state"
	"github.com/mtgsim/mtgsim/pkg/types"
	"github.com/mtgsim/mtgsim/pkg/undo"
)

// ErrStopCondition is returned by Run when a configured StopCondition
// fires (spec §4.G "Cancellation/termination", spec §6 stop-every /
// stop-when-fixed-exhausted). It is not a rules violation — the game is
// left in a suspended, snapshot-valid state (spec §5).
var ErrStopCondition = errors.New("engine: stop condition met")

// StopCondition is polled between legal-action computation and
// controller invocation, never mid-mutation (spec §4.G/§5).
type StopCondition func(g *state.GameState) bool

// Result is the outcome of Run.
type Result struct {
	Winner   *types.PlayerId // nil on a draw or an externally requested stop
	Reason   string
	Stopped  bool
}

// Engine drives the turn/phase state machine over a GameState, Stack and
// Executor, asking a pair of Controllers for every nondeterministic
// decision (spec §4.G/§4.H).
type Engine struct {
	State          *state.GameState
	Stack          *stack.Stack
	Exec           *exec.Executor
	Controllers    [2]controller.Controller
	StopConditions []StopCondition
}

// New returns an Engine wired to g/s/x, asking controllers[p] for player
// p's decisions.
func New(g *state.GameState, s *stack.Stack, x *exec.Executor, controllers [2]controller.Controller) *Engine {
	return &Engine{State: g, Stack: s, Exec: x, Controllers: controllers}
}

// stepOrder is the full linear step sequence of one turn (spec §4.G
// States), kept in the exact order src/turn.go's turnOrder table names.
var stepOrder = []types.Step{
	types.StepUntap,
	types.StepUpkeep,
	types.StepDraw,
	types.StepMain1,
	types.StepBeginCombat,
	types.StepDeclareAttackers,
	types.StepDeclareBlockers,
	types.StepCombatDamageFirstStrike,
	types.StepCombatDamage,
	types.StepEndCombat,
	types.StepMain2,
	types.StepEnd,
	types.StepCleanup,
}

// Run drives turns to completion: a player at 0 or negative life, a
// draw-from-an-empty-library, or a configured StopCondition all end the
// loop (spec §4.G Cancellation/termination).
func (e *Engine) Run() (Result, error) {
	for {
		if res, done := e.checkGameOver(); done {
			return res, nil
		}
		if e.stopConditionsMet() {
			return Result{Stopped: true, Reason: "stop condition"}, nil
		}
		if err := e.RunTurn(); err != nil {
			if errors.Is(err, ErrStopCondition) {
				return Result{Stopped: true, Reason: "stop condition"}, nil
			}
			if loser, ok := asLibraryOut(err); ok {
				winner := loser.Other()
				return Result{Winner: &winner, Reason: "decked out"}, nil
			}
			return Result{}, err
		}
	}
}

// RunTurn executes one complete turn for the current active player,
// stepping through stepOrder and incrementing the turn/active player at
// Cleanup.
func (e *Engine) RunTurn() error {
	e.Exec.MarkTurnStart()
	logger.LogGame("turn %d begins — active player %d", e.State.Turn, e.State.Active)

	for _, step := range stepOrder {
		e.State.Phase = step.Phase()
		e.State.Step = step

		if err := e.runStep(step); err != nil {
			return err
		}
		if res, done := e.checkGameOver(); done {
			_ = res
			return nil
		}
	}

	e.State.Turn++
	e.State.Active = e.State.Active.Other()
	return nil
}

func (e *Engine) runStep(step types.Step) error {
	if err := e.stepActions(step); err != nil {
		return err
	}
	if err := e.runSBAsToFixpoint(); err != nil {
		return err
	}
	if err := e.queueTriggeredAbilities(step); err != nil {
		return err
	}
	if stepGrantsPriority(step) {
		if err := e.priorityRound(); err != nil {
			return err
		}
	}
	e.emptyManaPools()
	return nil
}

// emptyManaPools drains both players' floating mana at the end of every
// step (spec §3 invariant 6, spec §8 testable property 7) — mana never
// carries over a step or phase boundary.
func (e *Engine) emptyManaPools() {
	e.Exec.EmptyMana(types.PlayerA)
	e.Exec.EmptyMana(types.PlayerB)
}

// stepGrantsPriority reports whether step enters a priority round. Untap
// never does (spec §4.G lists it only as producing the untap turn-based
// action); Cleanup only does when it has triggers to put on the stack,
// which queueTriggeredAbilities already pushed before this is checked —
// simplified here to "never", since no effect in this card set triggers
// at cleanup.
func stepGrantsPriority(step types.Step) bool {
	return step != types.StepUntap && step != types.StepCleanup
}

// stepActions performs the turn-based action associated with step (spec
// §4.G "(i) emit the step's turn-based actions"), grounded on the
// teacher's untapStep/upkeepStep/drawStep/endStep.
func (e *Engine) stepActions(step types.Step) error {
	p := e.State.Active
	switch step {
	case types.StepUntap:
		for _, id := range e.State.Zones.Cards(types.Battlefield, p) {
			c, err := e.State.Card(id)
			if err != nil {
				continue
			}
			if c.Tapped {
				if err := e.Exec.Untap(id); err != nil {
					return err
				}
			}
			if c.TurnEnteredBattlefield < e.State.Turn {
				c.SummoningSick = false
			}
		}
		e.State.Players[p].LandsPlayedThisTurn = 0

	case types.StepDraw:
		if e.State.Turn == 1 && p == types.PlayerA {
			break // first player skips their first draw (spec §4.G)
		}
		if _, err := e.Exec.DrawCard(p); err != nil {
			return libraryOutError{player: p, cause: err}
		}

	case types.StepDeclareAttackers:
		return e.declareAttackersStep()

	case types.StepDeclareBlockers:
		return e.declareBlockersStep()

	case types.StepCombatDamageFirstStrike:
		return e.combatDamageStep(true)

	case types.StepCombatDamage:
		return e.combatDamageStep(false)

	case types.StepEnd:
		for _, pl := range [2]types.PlayerId{types.PlayerA, types.PlayerB} {
			for _, id := range e.State.Zones.Cards(types.Battlefield, pl) {
				if c, err := e.State.Card(id); err == nil {
					c.ClearEndOfTurnModifiers()
				}
			}
		}

	case types.StepCleanup:
		hand := e.State.Zones.Cards(types.Hand, p)
		if excess := len(hand) - 7; excess > 0 {
			discard := e.Controllers[p].ChooseCardsToDiscard(e.State.View(p, false), hand, excess)
			e.Exec.RecordChoice(undo.ReplayChoice{Kind: "discard", Chosen: len(discard), Targets: discard})
			for _, id := range discard {
				if err := e.Exec.MoveCard(types.Hand, p, types.Graveyard, p, id); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// runSBAsToFixpoint resolves state-based actions until none apply (spec
// §4.G "checked whenever a player would get priority"). Scope: lethal
// damage / non-positive toughness and counter-annihilation (already eager
// in card.Card.AddCounter); legend-rule, aura-legality and token-cessation
// SBAs are not modeled since the card model here carries no
// legendary-supertype or aura-target-link fields to check them against.
func (e *Engine) runSBAsToFixpoint() error {
	for {
		changed := false
		for _, pl := range [2]types.PlayerId{types.PlayerA, types.PlayerB} {
			for _, id := range append([]types.CardId(nil), e.State.Zones.Cards(types.Battlefield, pl)...) {
				c, err := e.State.Card(id)
				if err != nil || !c.Def.IsCreature() {
					continue
				}
				if c.HasLethalDamage() {
					before := e.State.Zones.Count(types.Battlefield, pl)
					if err := e.Exec.Destroy(id); err != nil {
						return err
					}
					if e.State.Zones.Count(types.Battlefield, pl) != before {
						changed = true
					}
				}
			}
		}
		if !changed {
			return nil
		}
	}
}

// checkGameOver reports whether either player has lost (spec §4.G
// termination: "a player's life is <= 0").
func (e *Engine) checkGameOver() (Result, bool) {
	for _, p := range [2]types.PlayerId{types.PlayerA, types.PlayerB} {
		if e.State.Players[p].Life <= 0 {
			winner := p.Other()
			return Result{Winner: &winner, Reason: "life total"}, true
		}
	}
	return Result{}, false
}

func (e *Engine) stopConditionsMet() bool {
	for _, sc := range e.StopConditions {
		if sc(e.State) {
			return true
		}
	}
	return false
}

type libraryOutError struct {
	player types.PlayerId
	cause  error
}

func (e libraryOutError) Error() string {
	return fmt.Sprintf("player %d cannot draw: %v", e.player, e.cause)
}
func (e libraryOutError) Unwrap() error { return e.cause }

func asLibraryOut(err error) (types.PlayerId, bool) {
	var loe libraryOutError
	if errors.As(err, &loe) {
		return loe.player, true
	}
	return 0, false
}
