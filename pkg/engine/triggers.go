package engine

import (
	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/stack"
	"github.com/mtgsim/mtgsim/pkg/types"
)

// queueTriggeredAbilities puts every triggered ability whose condition
// fires at step onto the stack, active-player-first then non-active
// (APNAP — DESIGN.md Open Question #2), each player's own simultaneous
// triggers in the order their sources appear in insertion order within
// their battlefield zone sequence (stable, since zone.Store preserves
// insertion order).
//
// Scope: only the two step-aligned conditions (beginning-of-upkeep,
// end-of-turn) are checked here. Event-driven conditions (enters/leaves
// battlefield, dies, deals combat damage, becomes targeted, attacks,
// spell cast) need an event queue this engine doesn't carry — they are
// part of the closed TriggerCondition set (pkg/card/ability.go) for
// future wiring, not evaluated by this pass.
func (e *Engine) queueTriggeredAbilities(step types.Step) error {
	var condition card.TriggerCondition
	switch step {
	case types.StepUpkeep:
		condition = card.TriggerBeginningOfUpkeep
	case types.StepEnd:
		condition = card.TriggerEndOfTurn
	default:
		return nil
	}

	order := [2]types.PlayerId{e.State.Active, e.State.Active.Other()}
	for _, p := range order {
		for _, id := range e.State.Zones.Cards(types.Battlefield, p) {
			c, err := e.State.Card(id)
			if err != nil {
				continue
			}
			for i, a := range c.Def.Abilities {
				if a.Kind != card.TriggeredAbility || a.Trigger != condition {
					continue
				}
				var specs []card.TargetSpec
				for _, eff := range a.Effects {
					specs = append(specs, eff.Targets...)
				}
				targets := e.chooseAllTargets(p, id, specs)
				e.Exec.PushStack(&stack.Object{
					Kind:         stack.AbilityObject,
					Source:       id,
					AbilityIndex: i,
					Controller:   p,
					Targets:      targets,
					TargetSpecs:  specs,
					Effects:      a.Effects,
				})
			}
		}
	}
	return nil
}
