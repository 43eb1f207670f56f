package engine

import (
	"github.com/mtgsim/mtgsim/internal/logger"
	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/controller"
	"github.com/mtgsim/mtgsim/pkg/stack"
	"github.com/mtgsim/mtgsim/pkg/types"
	"github.com/mtgsim/mtgsim/pkg/undo"
)

// priorityRound runs a full priority exchange for the current step:
// active player gets priority first; each pass is offered only when a
// non-pass legal action exists (the choice-elision invariant, spec §4.G
// "Critical invariant"); once both players pass in succession, the stack
// resolves one object (if any) and priority resets to the active player,
// or the round ends if the stack is empty (spec §4.F/§4.G).
func (e *Engine) priorityRound() error {
	active := e.State.Active
	holder := active
	passes := 0

	for {
		if passes >= 2 {
			if e.Stack.IsEmpty() {
				return nil
			}
			if err := e.Exec.ResolveTopOfStack(); err != nil {
				return err
			}
			if err := e.runSBAsToFixpoint(); err != nil {
				return err
			}
			if res, done := e.checkGameOver(); done {
				_ = res
				return nil
			}
			passes = 0
			holder = active
			continue
		}

		actions := e.legalActions(holder)
		if e.stopConditionsMet() {
			return ErrStopCondition
		}

		if len(actions) == 1 && actions[0].IsPass() {
			// Elision: the only legal action is pass, so take it without
			// consulting the controller or logging a ChoicePoint.
			passes++
			holder = holder.Other()
			continue
		}

		e.Exec.SetPriority(holder)
		view := e.State.View(holder, false)
		choice := e.Controllers[holder].ChooseSpellAbilityToPlay(view, actions)
		if choice < 0 || choice >= len(actions) {
			choice = len(actions) - 1
		}
		e.Exec.RecordChoice(undo.ReplayChoice{Kind: "spell_ability", Chosen: choice})

		action := actions[choice]
		if action.IsPass() {
			passes++
			holder = holder.Other()
			continue
		}

		if err := e.performAction(holder, action); err != nil {
			return err
		}
		passes = 0
		holder = active
	}
}

// legalActions enumerates every action holder may currently take (spec
// §4.H choose_spell_ability_to_play's input list), always including pass.
func (e *Engine) legalActions(holder types.PlayerId) []controller.Action {
	actions := []controller.Action{{Kind: controller.ActionPass}}

	mainTiming := e.State.Step.IsMain() && e.Stack.IsEmpty() && e.State.Active == holder

	if mainTiming {
		for _, id := range e.State.Zones.Cards(types.Hand, holder) {
			c, err := e.State.Card(id)
			if err != nil {
				continue
			}
			if c.Def.IsLand() && e.State.Players[holder].LandsPlayedThisTurn < 1 {
				actions = append(actions, controller.Action{Kind: controller.ActionPlayLand, Card: id})
			}
		}
	}

	for _, id := range e.State.Zones.Cards(types.Hand, holder) {
		c, err := e.State.Card(id)
		if err != nil || c.Def.IsLand() {
			continue
		}
		instantSpeed := c.Def.IsInstant() || c.Def.HasKeyword(card.Flash)
		if !instantSpeed && !mainTiming {
			continue
		}
		if !e.canPotentiallyAfford(holder, parsedCost(c.Def)) {
			continue
		}
		actions = append(actions, controller.Action{Kind: controller.ActionCastSpell, Card: id})
	}

	for _, id := range e.State.Zones.Cards(types.Battlefield, holder) {
		c, err := e.State.Card(id)
		if err != nil {
			continue
		}
		for i, a := range c.Def.Abilities {
			if a.Kind != card.ActivatedAbility {
				continue
			}
			if a.Timing == card.SorcerySpeed && !mainTiming {
				continue
			}
			if a.Cost.Tap && (c.Tapped || (c.SummoningSick && !c.Def.HasKeyword(card.Haste))) {
				continue
			}
			if !e.canPotentiallyAfford(holder, a.Cost.Mana) {
				continue
			}
			actions = append(actions, controller.Action{Kind: controller.ActionActivateAbility, Card: id, AbilityIndex: i})
		}
	}

	return actions
}

func parsedCost(def *card.CardDefinition) map[types.ManaType]int {
	return card.ParseManaCost(def.ManaCost)
}

// canPotentiallyAfford reports whether holder's mana pool plus untapped
// mana-producing permanents could cover cost — a lenient pre-filter so
// legalActions doesn't offer a spell no amount of tapping could ever pay
// for; the real payment happens in produceMana/payMana at cast time.
func (e *Engine) canPotentiallyAfford(holder types.PlayerId, cost map[types.ManaType]int) bool {
	need := 0
	for _, n := range cost {
		need += n
	}
	if need == 0 {
		return true
	}
	available := e.State.Players[holder].Mana.Total()
	for _, id := range e.State.Zones.Cards(types.Battlefield, holder) {
		c, err := e.State.Card(id)
		if err != nil || c.Tapped {
			continue
		}
		for _, a := range c.Def.Abilities {
			if a.Kind == card.ManaAbility {
				available++
				break
			}
		}
	}
	return available >= need
}

// performAction executes the holder's chosen action through the
// Executor, gathering any targets/mana-payment decisions the action
// requires first.
func (e *Engine) performAction(holder types.PlayerId, action controller.Action) error {
	switch action.Kind {
	case controller.ActionPlayLand:
		return e.Exec.PlayLand(holder, action.Card)

	case controller.ActionCastSpell:
		return e.castSpell(holder, action.Card)

	case controller.ActionActivateAbility:
		return e.activateAbility(holder, action.Card, action.AbilityIndex)
	}
	return nil
}

func (e *Engine) castSpell(holder types.PlayerId, id types.CardId) error {
	c, err := e.State.Card(id)
	if err != nil {
		return err
	}
	cost := parsedCost(c.Def)
	if err := e.produceMana(holder, cost); err != nil {
		return err
	}

	var specs []card.TargetSpec
	for _, a := range c.Def.Abilities {
		if a.Kind == card.SpellEffectAbility {
			for _, eff := range a.Effects {
				specs = append(specs, eff.Targets...)
			}
		}
	}
	targets := e.chooseAllTargets(holder, id, specs)

	logger.LogCard("player %d casts %s", holder, c.Def.Name)
	return e.Exec.CastSpell(holder, id, targets, cost)
}

func (e *Engine) activateAbility(holder types.PlayerId, source types.CardId, abilityIndex int) error {
	c, err := e.State.Card(source)
	if err != nil {
		return err
	}
	if abilityIndex < 0 || abilityIndex >= len(c.Def.Abilities) {
		return errAbilityIndex
	}
	ability := c.Def.Abilities[abilityIndex]
	if err := e.produceMana(holder, ability.Cost.Mana); err != nil {
		return err
	}

	var specs []card.TargetSpec
	for _, eff := range ability.Effects {
		specs = append(specs, eff.Targets...)
	}
	targets := e.chooseAllTargets(holder, source, specs)

	return e.Exec.ActivateAbility(holder, source, abilityIndex, targets)
}

// chooseAllTargets asks holder's controller for each target slot an
// ability/spell requires, in order (spec §4.H choose_targets).
func (e *Engine) chooseAllTargets(holder types.PlayerId, source types.CardId, specs []card.TargetSpec) []stack.Target {
	var out []stack.Target
	view := e.State.View(holder, false)
	for _, spec := range specs {
		if spec.Kind == card.TargetNone {
			continue
		}
		candidates := e.legalTargetCandidates(holder, spec)
		req := controller.TargetRequest{Count: spec.Count, Required: spec.Required}
		if req.Count <= 0 {
			req.Count = 1
		}
		chosen := e.Controllers[holder].ChooseTargets(view, source, req, candidates)
		e.Exec.RecordChoice(undo.ReplayChoice{Kind: "targets", Chosen: len(chosen)})
		out = append(out, chosen...)
	}
	return out
}

// legalTargetCandidates enumerates everything spec.Kind could legally
// point at right now (spec §4.H choose_targets's "legal candidates").
func (e *Engine) legalTargetCandidates(holder types.PlayerId, spec card.TargetSpec) []stack.Target {
	var out []stack.Target
	addCreatures := func() {
		for _, pl := range [2]types.PlayerId{types.PlayerA, types.PlayerB} {
			for _, id := range e.State.Zones.Cards(types.Battlefield, pl) {
				if c, err := e.State.Card(id); err == nil && c.Def.IsCreature() {
					out = append(out, stack.Target{Card: id})
				}
			}
		}
	}
	addPermanents := func() {
		for _, pl := range [2]types.PlayerId{types.PlayerA, types.PlayerB} {
			for _, id := range e.State.Zones.Cards(types.Battlefield, pl) {
				out = append(out, stack.Target{Card: id})
			}
		}
	}
	addPlayers := func() {
		out = append(out, stack.Target{Player: types.PlayerA, IsPlayer: true}, stack.Target{Player: types.PlayerB, IsPlayer: true})
	}

	switch spec.Kind {
	case card.TargetCreature:
		addCreatures()
	case card.TargetPermanent:
		addPermanents()
	case card.TargetPlayer:
		addPlayers()
	case card.TargetAny:
		addCreatures()
		addPlayers()
	case card.TargetSpellOnStack:
		for _, obj := range e.Stack.Objects() {
			out = append(out, stack.Target{Card: obj.Source})
		}
	}
	return out
}

// produceMana ensures holder's mana pool can pay cost, tapping
// mana-producing permanents (via the normal ActivateAbility/resolve
// path) according to the controller's choose_mana_payment decision when
// the pool alone isn't enough (spec §4.H choose_mana_payment; grounded
// on the teacher's PriorityManager.resolveManaAbility).
func (e *Engine) produceMana(holder types.PlayerId, cost map[types.ManaType]int) error {
	if len(cost) == 0 {
		return nil
	}
	pool := e.State.Players[holder].Mana
	if pool.CanPay(cost) {
		return nil
	}

	sourceAbility := make(map[types.CardId]int)
	var sources []controller.ManaSource
	for _, id := range e.State.Zones.Cards(types.Battlefield, holder) {
		c, err := e.State.Card(id)
		if err != nil || c.Tapped {
			continue
		}
		for i, a := range c.Def.Abilities {
			if a.Kind == card.ManaAbility {
				sources = append(sources, controller.ManaSource{Card: id, Produces: a.ManaProduced})
				sourceAbility[id] = i
				break
			}
		}
	}

	view := e.State.View(holder, false)
	chosen := e.Controllers[holder].ChooseManaPayment(view, cost, sources)
	e.Exec.RecordChoice(undo.ReplayChoice{Kind: "mana_payment", Chosen: len(chosen)})
	for id, mt := range chosen {
		idx, ok := sourceAbility[id]
		if !ok {
			continue
		}
		if err := e.Exec.ActivateAbility(holder, id, idx, nil); err != nil {
			return err
		}
		if err := e.Exec.ResolveTopOfStack(); err != nil {
			return err
		}
		e.Exec.AddMana(holder, mt, 1)
	}

	if !pool.CanPay(cost) {
		return errCannotAfford
	}
	return nil
}
