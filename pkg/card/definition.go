// Package card implements the Card Model (spec component B): an immutable,
// shared CardDefinition per printing, and a mutable per-instance Card that
// references it.
package card

import "github.com/mtgsim/mtgsim/pkg/types"

// SuperType, CardType and SubType classify a CardDefinition. Kept as plain
// strings (rather than a closed enum) because the type line vocabulary is
// open-ended (new subtypes ship every set) — the engine only branches on
// the handful named in spec §3/§4.G (Creature, Land), via the predicate
// methods below.
type CardType string

const (
	TypeCreature     CardType = "Creature"
	TypeLand         CardType = "Land"
	TypeArtifact     CardType = "Artifact"
	TypeEnchantment  CardType = "Enchantment"
	TypePlaneswalker CardType = "Planeswalker"
	TypeInstant      CardType = "Instant"
	TypeSorcery      CardType = "Sorcery"
)

// Keyword is an evergreen or named keyword ability (Flying, Trample, ...).
// Grounded on the teacher's cmd/mtgsim/game.go hasEvergreenAbility string
// lookups, generalized into a closed set queried in O(1).
type Keyword string

const (
	Flying        Keyword = "Flying"
	Reach         Keyword = "Reach"
	FirstStrike   Keyword = "First Strike"
	DoubleStrike  Keyword = "Double Strike"
	Deathtouch    Keyword = "Deathtouch"
	Lifelink      Keyword = "Lifelink"
	Trample       Keyword = "Trample"
	Vigilance     Keyword = "Vigilance"
	Haste         Keyword = "Haste"
	Defender      Keyword = "Defender"
	Menace        Keyword = "Menace"
	Indestructible Keyword = "Indestructible"
	Flash         Keyword = "Flash"
	Fear          Keyword = "Fear"
	Intimidate    Keyword = "Intimidate"
	Shadow        Keyword = "Shadow"
	Horsemanship  Keyword = "Horsemanship"
	Unblockable   Keyword = "Unblockable"
	Protection    Keyword = "Protection"
)

// CardDefinition is the immutable, shared printing data for a card. Every
// Card instance of the same printing points at the same *CardDefinition;
// the loader (deckfile/puzzle/CardDB) is the definition's one logical
// owner for the life of the process (spec §3 Ownership).
type CardDefinition struct {
	Name          string
	ManaCost      string // e.g. "{1}{R}"
	CMC           int
	Types         []CardType
	SubTypes      []string
	SuperTypes    []string
	BasePower     int
	BaseToughness int
	Keywords      []Keyword
	Abilities     []AbilitySpec
	ColorIdentity []types.ManaType
	ProtectionFrom []types.ManaType
	OracleText    string
}

// HasProtectionFrom reports whether the definition has protection from mt.
func (d *CardDefinition) HasProtectionFrom(mt types.ManaType) bool {
	for _, existing := range d.ProtectionFrom {
		if existing == mt {
			return true
		}
	}
	return false
}

// HasType reports whether the definition includes the given card type.
func (d *CardDefinition) HasType(t CardType) bool {
	for _, existing := range d.Types {
		if existing == t {
			return true
		}
	}
	return false
}

// IsCreature reports whether the printing is (or becomes, via a token
// copy) a creature.
func (d *CardDefinition) IsCreature() bool { return d.HasType(TypeCreature) }

// IsLand reports whether the printing is a land.
func (d *CardDefinition) IsLand() bool { return d.HasType(TypeLand) }

// IsInstant reports whether the printing is an instant (or otherwise
// castable at instant speed via Flash — checked separately).
func (d *CardDefinition) IsInstant() bool { return d.HasType(TypeInstant) }

// HasKeyword reports whether the printing has the given keyword ability.
func (d *CardDefinition) HasKeyword(k Keyword) bool {
	for _, existing := range d.Keywords {
		if existing == k {
			return true
		}
	}
	return false
}
