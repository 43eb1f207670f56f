// Package controller implements the Controller Protocol (spec component H):
// the choose_* interface table as concrete typed Go methods, generalized
// from the teacher's pkg/ability/engine.go AbilityPlayer/GameState
// interfaces (interface{}-typed placeholder methods) into one decision
// type per operation, plus the standard controller variants named in
// spec.md §4.H.
package controller

import (
	"github.com/mtgsim/mtgsim/pkg/stack"
	"github.com/mtgsim/mtgsim/pkg/state"
	"github.com/mtgsim/mtgsim/pkg/types"
)

// ActionKind enumerates the shapes of action offered to
// ChooseSpellAbilityToPlay, mirroring spec.md §4.H's table entry exactly
// ("play-land i, cast-spell i, activate-ability (card,index), pass").
type ActionKind int

const (
	ActionPlayLand ActionKind = iota
	ActionCastSpell
	ActionActivateAbility
	ActionPass
)

// Action is one legal action a priority round offers a player.
type Action struct {
	Kind         ActionKind
	Card         types.CardId
	AbilityIndex int // meaningful only for ActionActivateAbility
}

// IsPass reports whether a is the "pass priority" action, the shape
// the engine's choice-elision invariant checks for (spec.md §4.G).
func (a Action) IsPass() bool { return a.Kind == ActionPass }

// ManaSource is one mana-producing permanent offered to ChooseManaPayment.
type ManaSource struct {
	Card     types.CardId
	Produces []types.ManaType
}

// DamageAssignment is one blocker's share of an attacker's combat damage,
// returned by AssignDamage in blocker order with the minimum-lethal rule
// already satisfied (spec.md §4.H).
type DamageAssignment struct {
	Blocker types.CardId
	Amount  int
}

// Controller is anything that can make the game's nondeterministic
// decisions (spec §4.H). Every method is synchronous from the engine's
// viewpoint: the controller runs to completion before the engine resumes
// (spec §5 "the controller call is the only suspension point").
//
// A controller must be a pure function of (view, inputs, its own internal
// RNG state) — the engine never re-derives a choice, only externalizes
// it as one ChoicePoint undo entry per call (spec §4.H determinism
// contract). ChooseDamageAssignmentOrder is the exception: the engine
// asks it but records no ChoicePoint for it. The engine never calls
// ConfirmTrigger, ChooseMode or ChooseNumber.
type Controller interface {
	ChooseSpellAbilityToPlay(view state.View, actions []Action) int
	ChooseTargets(view state.View, source types.CardId, spec TargetRequest, legal []stack.Target) []stack.Target
	ChooseManaPayment(view state.View, cost map[types.ManaType]int, sources []ManaSource) map[types.CardId]types.ManaType
	ChooseAttackers(view state.View, legal []types.CardId) []types.CardId
	ChooseBlockers(view state.View, attackers []types.CardId, legal []types.CardId) map[types.CardId][]types.CardId
	ChooseDamageAssignmentOrder(view state.View, attacker types.CardId, blockers []types.CardId) []types.CardId
	AssignDamage(view state.View, attacker types.CardId, orderedBlockers []types.CardId, total int) []DamageAssignment
	ChooseCardsToDiscard(view state.View, hand []types.CardId, count int) []types.CardId
	ConfirmTrigger(view state.View, description string) bool
	ChooseMode(view state.View, description string, modes int) int
	ChooseNumber(view state.View, description string, min, max int) int
}

// TargetRequest carries the target-selection parameters ChooseTargets
// needs beyond the legal-candidate list itself: how many selections to
// make, and whether the slot is required.
type TargetRequest struct {
	Count    int
	Required bool
}
