package engine

import (
	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/state"
	"github.com/mtgsim/mtgsim/pkg/types"
	"github.com/mtgsim/mtgsim/pkg/undo"
)

// declareAttackersStep asks the active player's controller which of their
// eligible creatures attack (spec §4.H choose_attackers), then taps them
// through the Executor (spec §4.G DeclareAttackers).
func (e *Engine) declareAttackersStep() error {
	active := e.State.Active
	var legal []types.CardId
	for _, id := range e.State.Zones.Cards(types.Battlefield, active) {
		c, err := e.State.Card(id)
		if err != nil || !c.Def.IsCreature() {
			continue
		}
		if c.Def.HasKeyword(card.Defender) {
			continue
		}
		if c.Tapped {
			continue
		}
		if c.SummoningSick && !c.Def.HasKeyword(card.Haste) {
			continue
		}
		legal = append(legal, id)
	}
	if len(legal) == 0 {
		return nil
	}

	view := e.State.View(active, false)
	chosen := e.Controllers[active].ChooseAttackers(view, legal)
	e.Exec.RecordChoice(undo.ReplayChoice{Kind: "attackers", Chosen: len(chosen), Targets: chosen})

	return e.Exec.DeclareAttackers(chosen)
}

// declareBlockersStep asks the defending player's controller how to block
// (spec §4.H choose_blockers), discarding any pairing CanBlock forbids
// (evasion keywords, protection) before recording it.
func (e *Engine) declareBlockersStep() error {
	attackers := e.State.Combat.Attackers
	if len(attackers) == 0 {
		return nil
	}
	defender := e.State.Active.Other()

	var legal []types.CardId
	for _, id := range e.State.Zones.Cards(types.Battlefield, defender) {
		c, err := e.State.Card(id)
		if err != nil || !c.Def.IsCreature() || c.Tapped {
			continue
		}
		legal = append(legal, id)
	}
	if len(legal) == 0 {
		return nil
	}

	view := e.State.View(defender, false)
	chosen := e.Controllers[defender].ChooseBlockers(view, attackers, legal)

	validated := make(map[types.CardId][]types.CardId, len(chosen))
	for attacker, blockers := range chosen {
		ac, err := e.State.Card(attacker)
		if err != nil {
			continue
		}
		var ok []types.CardId
		for _, b := range blockers {
			bc, err := e.State.Card(b)
			if err != nil {
				continue
			}
			if card.CanBlock(ac, bc) {
				ok = append(ok, b)
			}
		}
		// Menace: a lone blocker can't block this attacker.
		if len(ok) > 0 && (len(ok) >= 2 || !ac.Def.HasKeyword(card.Menace)) {
			validated[attacker] = ok
		}
	}
	e.Exec.RecordChoice(undo.ReplayChoice{Kind: "blockers", Chosen: len(validated)})

	return e.Exec.DeclareBlockers(validated)
}

// combatDamageStep applies combat damage for the first-strike sub-step
// (creatures with First Strike or Double Strike) or the regular sub-step
// (everything else, plus Double Strike again) — the split grounded on
// the teacher's resolveCombatDamage's hasDealtDamage bookkeeping.
func (e *Engine) combatDamageStep(firstStrike bool) error {
	combat := e.State.Combat
	if len(combat.Attackers) == 0 {
		return nil
	}
	defender := e.State.Active.Other()

	dealsNow := func(def *card.CardDefinition) bool {
		fs := def.HasKeyword(card.FirstStrike) || def.HasKeyword(card.DoubleStrike)
		if firstStrike {
			return fs
		}
		return !fs || def.HasKeyword(card.DoubleStrike)
	}

	for _, attacker := range combat.Attackers {
		ac, err := e.State.Card(attacker)
		if err != nil || !dealsNow(ac.Def) {
			continue
		}
		blockers := combat.Blockers[attacker]

		if len(blockers) == 0 {
			if err := e.Exec.AssignCombatDamage(attacker, ac.Controller, nil, ac.CurrentPower(), defender); err != nil {
				return err
			}
			continue
		}

		ordered := blockers
		if len(blockers) > 1 {
			view := e.State.View(ac.Controller, false)
			ordered = e.Controllers[ac.Controller].ChooseDamageAssignmentOrder(view, attacker, blockers)
		}

		view := e.State.View(ac.Controller, false)
		assignments := e.Controllers[ac.Controller].AssignDamage(view, attacker, ordered, ac.CurrentPower())
		e.Exec.RecordChoice(undo.ReplayChoice{Kind: "damage_assignment", Chosen: len(assignments)})

		blockerDamage := make(map[types.CardId]int, len(assignments))
		assigned := 0
		for _, a := range assignments {
			blockerDamage[a.Blocker] += a.Amount
			assigned += a.Amount
		}
		trampleExcess := 0
		if ac.Def.HasKeyword(card.Trample) {
			if remainder := ac.CurrentPower() - assigned; remainder > 0 {
				trampleExcess = remainder
			}
		}
		if err := e.Exec.AssignCombatDamage(attacker, ac.Controller, blockerDamage, trampleExcess, defender); err != nil {
			return err
		}

		for _, b := range blockers {
			bc, err := e.State.Card(b)
			if err != nil || !dealsNow(bc.Def) {
				continue
			}
			if err := e.Exec.DealDamageToAttacker(b, bc.Controller, attacker, bc.CurrentPower()); err != nil {
				return err
			}
		}
	}

	if firstStrike {
		e.State.Combat.FirstStrikeDone = true
	} else {
		e.State.Combat = state.CombatState{}
	}
	return nil
}
