// Package exec implements the Effect & Action Executor (spec component E):
// atomic operations that mutate Game State while appending inverse
// records to the Undo Log, rolling back to a pre-entry marker on error.
// Grounded on the teacher's pkg/ability/engine.go ExecutionEngine
// (payCosts/resolveAbility/applyEffect), generalized from an
// interface{}-parameterized dispatch into one over card.EffectKind.
package exec

import (
	"github.com/pkg/errors"

	"github.com/mtgsim/mtgsim/internal/logger"
	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/stack"
	"github.com/mtgsim/mtgsim/pkg/state"
	"github.com/mtgsim/mtgsim/pkg/types"
	"github.com/mtgsim/mtgsim/pkg/undo"
)

var (
	errIllegalTarget   = errors.New("illegal target")
	errCannotPay       = errors.New("cannot pay cost")
	errLandAlreadyPlayed = errors.New("a land has already been played this turn")
	errNotCreature     = errors.New("source is not a creature")
	errSummoningSick   = errors.New("creature has summoning sickness and no haste")
)

// Executor applies every state-mutating operation the engine performs,
// the single funnel through which the Undo Log sees every mutation
// (spec §7 "implicit mutable state" concern).
type Executor struct {
	State *state.GameState
	Stack *stack.Stack
}

// New returns an Executor wired to g and s.
func New(g *state.GameState, s *stack.Stack) *Executor {
	return &Executor{State: g, Stack: s}
}

// transaction runs fn; if fn returns an error, every undo entry fn
// appended is rewound before the error is returned, leaving State exactly
// as it was found (spec §4.E "rolls back via the undo log to its
// pre-entry state").
func (x *Executor) transaction(fn func() error) error {
	mark := x.State.Undo.Len()
	if err := fn(); err != nil {
		if rewindErr := x.State.Undo.Rewind(x.State.Undo.Len()-mark, NewMutator(x.State, x.Stack)); rewindErr != nil {
			return errors.Wrapf(rewindErr, "rollback failed after: %v", err)
		}
		return err
	}
	return nil
}

// MoveCard transfers id from (fromZone, fromOwner) to (toZone, toOwner),
// recording the inverse first (spec §4.A/§4.D).
func (x *Executor) MoveCard(fromZone types.ZoneKind, fromOwner types.PlayerId, toZone types.ZoneKind, toOwner types.PlayerId, id types.CardId) error {
	x.State.Undo.Append(undo.Entry{
		Kind:      undo.MoveCard,
		Card:      id,
		FromZone:  fromZone,
		FromOwner: fromOwner,
		ToZone:    toZone,
		ToOwner:   toOwner,
	})
	if err := x.State.Zones.Move(fromZone, fromOwner, toZone, toOwner, id); err != nil {
		return err
	}
	if c, cerr := x.State.Card(id); cerr == nil {
		c.Zone = toZone
		c.Controller = toOwner
		if toZone == types.Battlefield {
			c.TurnEnteredBattlefield = x.State.Turn
			c.SummoningSick = true
		}
	}
	return nil
}

// Tap sets id tapped, recording the prior state.
func (x *Executor) Tap(id types.CardId) error {
	c, err := x.State.Card(id)
	if err != nil {
		return err
	}
	x.State.Undo.Append(undo.Entry{Kind: undo.SetTapped, Card: id, TappedBefore: c.Tapped})
	c.Tap()
	return nil
}

// Untap clears id's tapped flag, recording the prior state.
func (x *Executor) Untap(id types.CardId) error {
	c, err := x.State.Card(id)
	if err != nil {
		return err
	}
	x.State.Undo.Append(undo.Entry{Kind: undo.SetTapped, Card: id, TappedBefore: c.Tapped})
	c.Untap()
	return nil
}

// AddCounters adds delta counters of kind k to id (annihilation happens
// inside *card.Card.AddCounter, spec §4.B). Annihilation can change the
// +1/+1 and -1/-1 counts as well as k's, so one AddCounterEntry is
// recorded per counter kind whose count changed, with its net delta.
func (x *Executor) AddCounters(id types.CardId, k types.CounterKind, delta int) error {
	c, err := x.State.Card(id)
	if err != nil {
		return err
	}
	kinds := []types.CounterKind{types.PlusOnePlusOne, types.MinusOneMinusOne}
	if k != kinds[0] && k != kinds[1] {
		kinds = append(kinds, k)
	}
	before := make([]int, len(kinds))
	for i, kind := range kinds {
		before[i] = c.Counters[kind]
	}
	c.AddCounter(k, delta)
	for i, kind := range kinds {
		if d := c.Counters[kind] - before[i]; d != 0 {
			x.State.Undo.Append(undo.Entry{Kind: undo.AddCounterEntry, Card: id, CounterKind: kind, Delta: d})
		}
	}
	return nil
}

// SetLife sets player p's life to amount, recording the prior total.
func (x *Executor) SetLife(p types.PlayerId, amount int) {
	x.State.Undo.Append(undo.Entry{Kind: undo.SetLife, Player: p, LifeBefore: x.State.Players[p].Life})
	x.State.Players[p].Life = amount
}

// GainLife adds amount (may be negative) to player p's life.
func (x *Executor) GainLife(p types.PlayerId, amount int) {
	x.SetLife(p, x.State.Players[p].Life+amount)
}

// AddMana deposits amount mana of mt into player p's pool.
func (x *Executor) AddMana(p types.PlayerId, mt types.ManaType, amount int) {
	pool := x.State.Players[p].Mana
	x.State.Undo.Append(undo.Entry{Kind: undo.MoveMana, Player: p, ManaType: mt, ManaBefore: pool.Get(mt)})
	pool.Add(mt, amount)
}

// EmptyMana drains player p's floating mana pool, recording its prior
// contents. Mana empties at the end of every step and phase (spec §3
// invariant 6) — this is the Executor's one funnel for that drain, the
// same way every other mutation here records its inverse before applying.
func (x *Executor) EmptyMana(p types.PlayerId) {
	pool := x.State.Players[p].Mana
	colored, generic := pool.Snapshot()
	if len(colored) == 0 && generic == 0 {
		return
	}
	x.State.Undo.Append(undo.Entry{Kind: undo.EmptyManaEntry, Player: p, ManaColoredBefore: colored, ManaGenericBefore: generic})
	pool.Empty()
}

// SetPriority sets the priority holder, recording who held it before.
func (x *Executor) SetPriority(p types.PlayerId) {
	x.State.Undo.Append(undo.Entry{Kind: undo.SetPriorityHolder, PlayerBefore: x.State.PriorityHolder})
	x.State.PriorityHolder = p
}

// DrawCard moves the top card of p's library into p's hand. Returns an
// error (not fatal to the executor, but meaningful to the engine) if the
// library is empty, per spec §4.G termination condition.
func (x *Executor) DrawCard(p types.PlayerId) (types.CardId, error) {
	top, ok := x.State.Zones.Top(types.Library, p)
	if !ok {
		return types.CardId{}, errors.New("library is empty")
	}
	x.State.Undo.Append(undo.Entry{Kind: undo.DrawCardEntry, Card: top, Player: p})
	if err := x.State.Zones.Move(types.Library, p, types.Hand, p, top); err != nil {
		return types.CardId{}, err
	}
	if c, err := x.State.Card(top); err == nil {
		c.Zone = types.Hand
	}
	logger.LogPlayer("player %d draws a card", p)
	return top, nil
}

// PushStack pushes obj onto the stack, recording the inverse.
func (x *Executor) PushStack(obj *stack.Object) {
	x.Stack.Push(obj)
	x.State.Undo.Append(undo.Entry{Kind: undo.PushStackEntry, StackObject: obj.ID})
	x.State.Stack = append(x.State.Stack, obj.ID)
}

// RecordChoice appends a ChoicePoint breadcrumb, the externalization of
// one controller decision (spec §4.H determinism contract).
func (x *Executor) RecordChoice(c undo.ReplayChoice) {
	x.State.Undo.Append(undo.Entry{Kind: undo.ChoicePoint, Choice: c})
}

// MarkTurnStart appends a TurnMarker, the boundary RewindToTurnStart stops
// at (spec §4.D, inserted by the Turn/Phase Engine at the start of each
// turn).
func (x *Executor) MarkTurnStart() {
	x.State.Undo.Append(undo.Entry{Kind: undo.TurnMarker})
}

// PlayLand moves a land card from hand to the battlefield, enforcing the
// one-land-per-turn baseline (spec §3 invariant 7).
func (x *Executor) PlayLand(p types.PlayerId, id types.CardId) error {
	return x.transaction(func() error {
		c, err := x.State.Card(id)
		if err != nil {
			return err
		}
		if !c.Def.IsLand() {
			return errors.New("card is not a land")
		}
		if x.State.Players[p].LandsPlayedThisTurn >= 1 {
			return errLandAlreadyPlayed
		}
		if err := x.MoveCard(types.Hand, p, types.Battlefield, p, id); err != nil {
			return err
		}
		x.State.Players[p].LandsPlayedThisTurn++
		logger.LogPlayer("player %d plays %s", p, c.Def.Name)
		return nil
	})
}

// CastSpell moves a spell card from hand to the stack with the chosen
// targets, after paying cost. The spell's effects resolve later, when the
// Turn/Phase Engine pops it off the stack (spec §4.F).
func (x *Executor) CastSpell(p types.PlayerId, id types.CardId, targets []stack.Target, manaCost map[types.ManaType]int) error {
	return x.transaction(func() error {
		c, err := x.State.Card(id)
		if err != nil {
			return err
		}
		if err := x.payMana(p, manaCost); err != nil {
			return err
		}
		if err := x.MoveCard(types.Hand, p, types.Stack, p, id); err != nil {
			return err
		}

		var effects []card.EffectSpec
		var specs []card.TargetSpec
		for _, a := range c.Def.Abilities {
			if a.Kind == card.SpellEffectAbility {
				effects = append(effects, a.Effects...)
				for _, e := range a.Effects {
					specs = append(specs, e.Targets...)
				}
			}
		}

		x.PushStack(&stack.Object{
			Kind:         stack.SpellObject,
			Source:       id,
			AbilityIndex: -1,
			Controller:   p,
			Targets:      targets,
			TargetSpecs:  specs,
			Effects:      effects,
		})
		logger.LogCard("%s cast by player %d", c.Def.Name, p)
		return nil
	})
}

// ActivateAbility pays an ability's cost (including tapping its source if
// required) and pushes it onto the stack.
func (x *Executor) ActivateAbility(p types.PlayerId, source types.CardId, abilityIndex int, targets []stack.Target) error {
	return x.transaction(func() error {
		c, err := x.State.Card(source)
		if err != nil {
			return err
		}
		if abilityIndex < 0 || abilityIndex >= len(c.Def.Abilities) {
			return errors.New("no such ability")
		}
		ability := c.Def.Abilities[abilityIndex]

		if ability.Cost.Tap {
			if c.Tapped {
				return errors.New("source is already tapped")
			}
			if c.SummoningSick && !c.Def.HasKeyword(card.Haste) && c.Def.IsCreature() {
				return errSummoningSick
			}
			if err := x.Tap(source); err != nil {
				return err
			}
		}
		if err := x.payMana(p, ability.Cost.Mana); err != nil {
			return err
		}

		var specs []card.TargetSpec
		for _, e := range ability.Effects {
			specs = append(specs, e.Targets...)
		}
		x.PushStack(&stack.Object{
			Kind:         stack.AbilityObject,
			Source:       source,
			AbilityIndex: abilityIndex,
			Controller:   p,
			Targets:      targets,
			TargetSpecs:  specs,
			Effects:      ability.Effects,
		})
		logger.LogCard("%s activates %s", c.Def.Name, ability.Name)
		return nil
	})
}

func (x *Executor) payMana(p types.PlayerId, cost map[types.ManaType]int) error {
	if len(cost) == 0 {
		return nil
	}
	pool := x.State.Players[p].Mana
	if !pool.CanPay(cost) {
		return errCannotPay
	}
	// Pay can draw generic costs from the generic bucket and from colors
	// not named in cost, so the whole pool is recorded (the same entry
	// EmptyMana uses), not just the cost's own colors.
	colored, generic := pool.Snapshot()
	x.State.Undo.Append(undo.Entry{Kind: undo.EmptyManaEntry, Player: p, ManaColoredBefore: colored, ManaGenericBefore: generic})
	return pool.Pay(cost)
}

// ResolveTopOfStack pops the stack's top object, determines fizzle, and
// applies its effects against whatever targets remain legal.
func (x *Executor) ResolveTopOfStack() error {
	return x.transaction(func() error {
		res, err := x.Stack.ResolveTop(x.State)
		if err != nil {
			return err
		}
		x.State.Undo.Append(undo.Entry{Kind: undo.PopStackEntry, StackObject: res.Object.ID, StackObj: res.Object})
		if n := len(x.State.Stack); n > 0 {
			x.State.Stack = x.State.Stack[:n-1]
		}
		if res.Object.Countered || res.Fizzled {
			return nil
		}
		for _, effect := range res.Object.Effects {
			if err := x.ApplyEffect(effect, res.Object.Controller, res.LegalTargets); err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplyEffect applies one structured effect against targets, the one
// dispatch point every resolved spell/ability effect funnels through
// (spec §4.E, generalized from the teacher's applyEffect switch).
func (x *Executor) ApplyEffect(effect card.EffectSpec, controller types.PlayerId, targets []stack.Target) error {
	switch effect.Kind {
	case card.EffectDealDamage:
		for _, t := range targets {
			if t.IsPlayer {
				x.GainLife(t.Player, -effect.Value)
				continue
			}
			c, err := x.State.Card(t.Card)
			if err != nil {
				return errors.Wrap(errIllegalTarget, err.Error())
			}
			x.State.Undo.Append(undo.Entry{Kind: undo.SetDamageMarked, Card: t.Card, DamageBefore: c.DamageMarked})
			c.DamageMarked += effect.Value
		}

	case card.EffectDraw:
		if _, err := x.DrawCard(controller); err != nil {
			return err
		}

	case card.EffectDestroy:
		for _, t := range targets {
			if t.IsPlayer {
				continue
			}
			if err := x.destroy(t.Card); err != nil {
				return err
			}
		}

	case card.EffectGainLife:
		x.GainLife(controller, effect.Value)

	case card.EffectPump:
		for _, t := range targets {
			c, err := x.State.Card(t.Card)
			if err != nil {
				return errors.Wrap(errIllegalTarget, err.Error())
			}
			c.AddModifier(card.Modifier{Power: effect.Value, Toughness: effect.Value, Duration: effect.Duration})
		}

	case card.EffectTap:
		for _, t := range targets {
			if err := x.Tap(t.Card); err != nil {
				return err
			}
		}

	case card.EffectUntap:
		for _, t := range targets {
			if err := x.Untap(t.Card); err != nil {
				return err
			}
		}

	case card.EffectMill:
		for i := 0; i < effect.Value; i++ {
			top, ok := x.State.Zones.Top(types.Library, controller)
			if !ok {
				break
			}
			if err := x.MoveCard(types.Library, controller, types.Graveyard, controller, top); err != nil {
				return err
			}
		}

	case card.EffectCounterSpell:
		for _, t := range targets {
			if err := x.Stack.Counter(t.Card); err != nil {
				return err
			}
		}

	case card.EffectPutCounter:
		for _, t := range targets {
			if err := x.AddCounters(t.Card, effect.CounterKind, effect.Value); err != nil {
				return err
			}
		}

	case card.EffectRemoveCounter:
		for _, t := range targets {
			if err := x.AddCounters(t.Card, effect.CounterKind, -effect.Value); err != nil {
				return err
			}
		}

	default:
		return errors.Errorf("unimplemented effect kind: %v", effect.Kind)
	}
	return nil
}

// Destroy moves id to its owner's graveyard unless it's indestructible, as
// its own transaction. State-based actions (pkg/engine) call this; a
// resolving Destroy effect calls the unexported destroy directly since
// it's already inside ResolveTopOfStack's transaction.
func (x *Executor) Destroy(id types.CardId) error {
	return x.transaction(func() error { return x.destroy(id) })
}

// destroy moves id to its owner's graveyard unless it's indestructible.
func (x *Executor) destroy(id types.CardId) error {
	c, err := x.State.Card(id)
	if err != nil {
		return err
	}
	if c.Def.HasKeyword(card.Indestructible) {
		logger.LogCard("%s is indestructible and is not destroyed", c.Def.Name)
		return nil
	}
	return x.MoveCard(types.Battlefield, c.Owner, types.Graveyard, c.Owner, id)
}
