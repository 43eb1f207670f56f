package controller

import (
	"github.com/mtgsim/mtgsim/pkg/stack"
	"github.com/mtgsim/mtgsim/pkg/state"
	"github.com/mtgsim/mtgsim/pkg/types"
	"github.com/mtgsim/mtgsim/pkg/undo"
)

// replayCursor is the single shared position into a snapshot's choice log,
// consumed regardless of which player's Replaying wrapper is asked next —
// the log's order already interleaves both players' decisions exactly as
// the engine made them (spec.md §4.I Resume).
type replayCursor struct {
	choices []undo.ReplayChoice
	pos     int
}

func (c *replayCursor) next() (undo.ReplayChoice, bool) {
	if c == nil || c.pos >= len(c.choices) {
		return undo.ReplayChoice{}, false
	}
	ch := c.choices[c.pos]
	c.pos++
	return ch, true
}

// Replaying wraps a live Controller so that every decision whose full
// shape was captured in the turn's choice log is reproduced verbatim
// instead of asked again; once the log is exhausted (or for a decision
// kind the log records only as a diagnostic count, not its full value —
// see below), it falls through to Inner (spec.md §4.I Resume: "delegate
// to the underlying controller").
//
// undo.ReplayChoice is deliberately compact (Kind, Chosen, Targets), not
// a per-method tagged union, so only the decisions that store their full
// answer in those three fields replay exactly: which action/index was
// picked (ChooseSpellAbilityToPlay), which cards were chosen from a
// card-id list (ChooseAttackers, ChooseCardsToDiscard). Decisions whose
// log entry only records a count for diagnostics — target selection,
// mana payment, blocker assignment, damage assignment — fall through to
// Inner; this reproduces correctly whenever Inner is itself deterministic
// (a SeededRandom at the same seed, a FixedScript at the same position),
// which is how Resume is expected to be driven.
type Replaying struct {
	Inner  Controller
	cursor *replayCursor
}

// NewReplayingPair returns a [2]Controller sharing one choice-log cursor,
// wrapping inner[0]/inner[1] as the fallback once the log runs out.
func NewReplayingPair(choices []undo.ReplayChoice, inner [2]Controller) [2]Controller {
	cur := &replayCursor{choices: choices}
	return [2]Controller{
		&Replaying{Inner: inner[0], cursor: cur},
		&Replaying{Inner: inner[1], cursor: cur},
	}
}

func (r *Replaying) ChooseSpellAbilityToPlay(view state.View, actions []Action) int {
	if c, ok := r.cursor.next(); ok && c.Chosen >= 0 && c.Chosen < len(actions) {
		return c.Chosen
	}
	return r.Inner.ChooseSpellAbilityToPlay(view, actions)
}

func (r *Replaying) ChooseTargets(view state.View, source types.CardId, req TargetRequest, legal []stack.Target) []stack.Target {
	r.cursor.next() // consume the diagnostic count entry; value isn't replayable (see type doc)
	return r.Inner.ChooseTargets(view, source, req, legal)
}

func (r *Replaying) ChooseManaPayment(view state.View, cost map[types.ManaType]int, sources []ManaSource) map[types.CardId]types.ManaType {
	r.cursor.next()
	return r.Inner.ChooseManaPayment(view, cost, sources)
}

func (r *Replaying) ChooseAttackers(view state.View, legal []types.CardId) []types.CardId {
	if c, ok := r.cursor.next(); ok {
		return append([]types.CardId(nil), c.Targets...)
	}
	return r.Inner.ChooseAttackers(view, legal)
}

func (r *Replaying) ChooseBlockers(view state.View, attackers, legal []types.CardId) map[types.CardId][]types.CardId {
	r.cursor.next()
	return r.Inner.ChooseBlockers(view, attackers, legal)
}

func (r *Replaying) ChooseDamageAssignmentOrder(view state.View, attacker types.CardId, blockers []types.CardId) []types.CardId {
	return r.Inner.ChooseDamageAssignmentOrder(view, attacker, blockers)
}

func (r *Replaying) AssignDamage(view state.View, attacker types.CardId, orderedBlockers []types.CardId, total int) []DamageAssignment {
	r.cursor.next()
	return r.Inner.AssignDamage(view, attacker, orderedBlockers, total)
}

func (r *Replaying) ChooseCardsToDiscard(view state.View, hand []types.CardId, count int) []types.CardId {
	if c, ok := r.cursor.next(); ok {
		return append([]types.CardId(nil), c.Targets...)
	}
	return r.Inner.ChooseCardsToDiscard(view, hand, count)
}

func (r *Replaying) ConfirmTrigger(view state.View, description string) bool {
	return r.Inner.ConfirmTrigger(view, description)
}

func (r *Replaying) ChooseMode(view state.View, description string, modes int) int {
	return r.Inner.ChooseMode(view, description, modes)
}

func (r *Replaying) ChooseNumber(view state.View, description string, min, max int) int {
	return r.Inner.ChooseNumber(view, description, min, max)
}
