package card

import "github.com/mtgsim/mtgsim/pkg/types"

// Modifier is a temporary power/toughness change applied by a resolved
// Pump effect, expiring at the stated duration (spec §3 "temporary P/T
// modifiers active this turn").
type Modifier struct {
	Power    int
	Toughness int
	Duration EffectDuration
}

// Card is the mutable per-instance state of a card in a specific game
// (spec §3). It never carries the static printing data directly — that
// lives in the shared *CardDefinition — so copying a Card is cheap and
// two instances of the same printing never alias mutable state.
type Card struct {
	ID                     types.CardId
	Def                    *CardDefinition
	Owner                  types.PlayerId
	Controller             types.PlayerId
	Zone                   types.ZoneKind
	Tapped                 bool
	SummoningSick          bool
	DamageMarked           int
	Counters               map[types.CounterKind]int
	AttachedTo             types.CardId
	TurnEnteredBattlefield int
	Modifiers              []Modifier
}

// NewCard creates a fresh instance of def, owned and controlled by owner,
// starting in the Library zone (the caller moves it into its actual
// starting zone via the zone store).
func NewCard(id types.CardId, def *CardDefinition, owner types.PlayerId) *Card {
	return &Card{
		ID:         id,
		Def:        def,
		Owner:      owner,
		Controller: owner,
		Zone:       types.Library,
		Counters:   make(map[types.CounterKind]int),
	}
}

// CurrentPower is base power plus +1/+1 and -1/-1 counters plus active
// temporary modifiers (spec §4.B).
func (c *Card) CurrentPower() int {
	p := c.Def.BasePower
	p += c.Counters[types.PlusOnePlusOne]
	p -= c.Counters[types.MinusOneMinusOne]
	for _, m := range c.Modifiers {
		p += m.Power
	}
	return p
}

// CurrentToughness is base toughness plus counters plus modifiers.
func (c *Card) CurrentToughness() int {
	t := c.Def.BaseToughness
	t += c.Counters[types.PlusOnePlusOne]
	t -= c.Counters[types.MinusOneMinusOne]
	for _, m := range c.Modifiers {
		t += m.Toughness
	}
	return t
}

// AddCounter adds delta counters of kind k, then eagerly annihilates equal
// pairs of +1/+1 and -1/-1 counters (spec §3/§4.B — "counter annihilation
// is eager, applied inside add_counter").
func (c *Card) AddCounter(k types.CounterKind, delta int) {
	c.Counters[k] += delta
	c.annihilate()
}

// RemoveCounter removes up to delta counters of kind k (never going
// negative).
func (c *Card) RemoveCounter(k types.CounterKind, delta int) {
	remaining := c.Counters[k] - delta
	if remaining < 0 {
		remaining = 0
	}
	c.Counters[k] = remaining
	c.annihilate()
}

func (c *Card) annihilate() {
	plus := c.Counters[types.PlusOnePlusOne]
	minus := c.Counters[types.MinusOneMinusOne]
	if plus <= 0 || minus <= 0 {
		return
	}
	pairs := plus
	if minus < pairs {
		pairs = minus
	}
	c.Counters[types.PlusOnePlusOne] -= pairs
	c.Counters[types.MinusOneMinusOne] -= pairs
}

// HasLethalDamage reports whether this permanent has marked damage at
// least equal to its current toughness, or non-positive toughness
// (spec §4.G state-based actions).
func (c *Card) HasLethalDamage() bool {
	return c.CurrentToughness() <= 0 || c.DamageMarked >= c.CurrentToughness()
}

// Tap marks the card tapped. Callers (the Executor) are responsible for
// checking summoning sickness / haste before calling Tap for a cost.
func (c *Card) Tap() { c.Tapped = true }

// Untap marks the card untapped.
func (c *Card) Untap() { c.Tapped = false }

// Attach records that this card is attached to target (an aura or
// equipment attaching to a permanent). The zero CardId detaches.
func (c *Card) Attach(target types.CardId) { c.AttachedTo = target }

// AddModifier appends a temporary P/T modifier.
func (c *Card) AddModifier(m Modifier) { c.Modifiers = append(c.Modifiers, m) }

// ClearEndOfTurnModifiers drops modifiers whose duration doesn't survive
// past end of turn, and clears marked damage (the engine calls it during
// the End step).
func (c *Card) ClearEndOfTurnModifiers() {
	kept := c.Modifiers[:0]
	for _, m := range c.Modifiers {
		if m.Duration == DurationPermanent {
			kept = append(kept, m)
		}
	}
	c.Modifiers = kept
	c.DamageMarked = 0
}
