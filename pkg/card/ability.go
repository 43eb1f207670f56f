package card

import "github.com/mtgsim/mtgsim/pkg/types"

// AbilityKind classifies an ability the way spec §3 requires ("keyword,
// triggered, activated, static, spell-effect"). Grounded on the teacher's
// pkg/ability/types.go AbilityType enum (Triggered/Activated/Static/
// Replacement/Mana), extended with SpellEffect for the effects a spell
// (rather than a permanent's ability) resolves with.
type AbilityKind int

const (
	KeywordAbility AbilityKind = iota
	TriggeredAbility
	ActivatedAbility
	StaticAbility
	ManaAbility
	SpellEffectAbility
)

// TriggerCondition names the event a TriggeredAbility waits for.
// Grounded on pkg/ability/types.go's TriggerCondition enum.
type TriggerCondition int

const (
	NoTrigger TriggerCondition = iota
	TriggerEntersBattlefield
	TriggerLeavesBattlefield
	TriggerDies
	TriggerBeginningOfUpkeep
	TriggerEndOfTurn
	TriggerDealsCombatDamage
	TriggerBecomesTargeted
	TriggerAttacks
	TriggerSpellCast
)

// TimingRestriction narrows when an ActivatedAbility may be activated.
// Grounded on pkg/ability/types.go's TimingRestriction enum.
type TimingRestriction int

const (
	AnyTime TimingRestriction = iota
	SorcerySpeed
	OncePerTurn
)

// EffectKind is the tagged-union discriminant for a resolved effect, the
// closed set spec §4.E names at minimum. Grounded on the teacher's
// pkg/ability/engine.go applyEffect switch.
type EffectKind int

const (
	EffectDealDamage EffectKind = iota
	EffectDraw
	EffectDestroy
	EffectGainLife
	EffectPump
	EffectTap
	EffectUntap
	EffectMill
	EffectCounterSpell
	EffectPutCounter
	EffectRemoveCounter
)

// EffectDuration says how long a Pump-style effect lasts.
type EffectDuration int

const (
	DurationInstant EffectDuration = iota
	DurationUntilEndOfTurn
	DurationPermanent
)

// TargetKind enumerates what a TargetSpec may legally point at.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetAny
	TargetCreature
	TargetPlayer
	TargetPermanent
	TargetSpellOnStack
)

// TargetSpec describes one target slot an ability or spell requires.
type TargetSpec struct {
	Kind     TargetKind
	Required bool
	Count    int
}

// Cost is what must be paid to activate an ability (spec §4.E).
type Cost struct {
	Mana       map[types.ManaType]int
	Tap        bool
	Sacrifice  bool
	Discard    int
	Life       int
}

// EffectSpec is one resolved effect of an ability or spell. Value carries
// the effect's magnitude (damage amount, cards drawn, counters placed...).
type EffectSpec struct {
	Kind       EffectKind
	Value      int
	Duration   EffectDuration
	Targets    []TargetSpec
	CounterKind types.CounterKind // for PutCounter/RemoveCounter
}

// AbilitySpec is a single ability on a CardDefinition, already parsed into
// structured form (spec §3: "ordered list of abilities... each already
// parsed into a structured form") — the engine never parses oracle text
// at runtime.
type AbilitySpec struct {
	Name              string
	Kind              AbilityKind
	Trigger           TriggerCondition
	Timing            TimingRestriction
	Cost              Cost
	Effects           []EffectSpec
	UsesPerTurn       int // 0 = unlimited
	ManaProduced      []types.ManaType
}
