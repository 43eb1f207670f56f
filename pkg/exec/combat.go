package exec

import (
	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/types"
	"github.com/mtgsim/mtgsim/pkg/undo"
)

// DeclareAttackers records attackers in combat state and taps each one
// unless it has Vigilance (spec §4.E assign_combat_damage's sibling
// declare_attackers op; grounded on the teacher's combatPhase tapping
// attackers before resolveCombatDamage).
func (x *Executor) DeclareAttackers(attackers []types.CardId) error {
	return x.transaction(func() error {
		x.State.Combat.Attackers = attackers
		x.State.Combat.Blockers = make(map[types.CardId][]types.CardId)
		x.State.Combat.DamageOrder = make(map[types.CardId][]types.CardId)
		x.State.Combat.FirstStrikeDone = false
		for _, id := range attackers {
			c, err := x.State.Card(id)
			if err != nil {
				return err
			}
			if !c.Def.HasKeyword(card.Vigilance) {
				if err := x.Tap(id); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// DeclareBlockers records the attacker->blockers assignment chosen by the
// defending controller.
func (x *Executor) DeclareBlockers(assignments map[types.CardId][]types.CardId) error {
	return x.transaction(func() error {
		x.State.Combat.Blockers = assignments
		return nil
	})
}

// AssignCombatDamage marks damage on each blocker in blockerDamage and
// deals playerDamage (unblocked or trampled-through damage) to defender,
// applying lifelink back to attackerController when attacker has it
// (spec §4.E assign_combat_damage; grounded on the teacher's
// dealCombatDamageForCreature/dealDamageBetweenCreatures lifelink
// handling).
func (x *Executor) AssignCombatDamage(attacker types.CardId, attackerController types.PlayerId, blockerDamage map[types.CardId]int, playerDamage int, defender types.PlayerId) error {
	return x.transaction(func() error {
		ac, err := x.State.Card(attacker)
		if err != nil {
			return err
		}
		lifelink := ac.Def.HasKeyword(card.Lifelink)
		total := playerDamage
		for id, amt := range blockerDamage {
			if amt <= 0 {
				continue
			}
			c, err := x.State.Card(id)
			if err != nil {
				return err
			}
			x.State.Undo.Append(undo.Entry{Kind: undo.SetDamageMarked, Card: id, DamageBefore: c.DamageMarked})
			c.DamageMarked += amt
			total += amt
		}
		if playerDamage > 0 {
			x.GainLife(defender, -playerDamage)
		}
		if lifelink && total > 0 {
			x.GainLife(attackerController, total)
		}
		return nil
	})
}

// DealDamageToAttacker marks dmg of damage on a blocking creature's
// attacker — the reverse leg of a blocked combat, since blockers deal
// damage back to what they block.
func (x *Executor) DealDamageToAttacker(blocker types.CardId, blockerController types.PlayerId, attacker types.CardId, dmg int) error {
	return x.transaction(func() error {
		c, err := x.State.Card(attacker)
		if err != nil {
			return err
		}
		bc, err := x.State.Card(blocker)
		if err != nil {
			return err
		}
		x.State.Undo.Append(undo.Entry{Kind: undo.SetDamageMarked, Card: attacker, DamageBefore: c.DamageMarked})
		c.DamageMarked += dmg
		if bc.Def.HasKeyword(card.Lifelink) && dmg > 0 {
			x.GainLife(blockerController, dmg)
		}
		return nil
	})
}
