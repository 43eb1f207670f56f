// Package card provides the card data model and the name-indexed registry
// deck and puzzle loaders resolve names through.
package card

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/mtgsim/mtgsim/internal/logger"
)

// CardDBFile is the default on-disk location of a structured card corpus,
// a JSON array of CardDefinition. Unlike the teacher's scryfall mirror,
// this is never downloaded: cardsfolder/oracle-text ingestion is out of
// scope (spec §1) and a corpus arrives already structured.
const CardDBFile = "cardDB.json"

// CardDB is a name-indexed registry of CardDefinitions.
type CardDB struct {
	byName map[string]*CardDefinition
}

// NewCardDB builds a registry from defs, indexed by Name.
func NewCardDB(defs []*CardDefinition) *CardDB {
	db := &CardDB{byName: make(map[string]*CardDefinition, len(defs))}
	for _, d := range defs {
		db.byName[d.Name] = d
	}
	return db
}

// Register adds or replaces a single definition.
func (db *CardDB) Register(d *CardDefinition) { db.byName[d.Name] = d }

// Get looks up a definition by exact printed name.
func (db *CardDB) Get(name string) (*CardDefinition, bool) {
	d, ok := db.byName[name]
	return d, ok
}

// Size returns the number of registered definitions.
func (db *CardDB) Size() int { return len(db.byName) }

// All returns every registered definition, in no particular order, for
// callers that need to search by a derived key (e.g. a normalized name).
func (db *CardDB) All() []*CardDefinition {
	out := make([]*CardDefinition, 0, len(db.byName))
	for _, d := range db.byName {
		out = append(out, d)
	}
	return out
}

// LoadCardDatabase loads a structured corpus from CardDBFile, falling back
// to Builtins when no corpus is present on disk.
func LoadCardDatabase() (*CardDB, error) {
	file, err := os.ReadFile(CardDBFile)
	if err != nil {
		logger.LogMeta("no card database at %s, using %d builtin definitions", CardDBFile, len(Builtins()))
		return NewCardDB(Builtins()), nil
	}

	var defs []*CardDefinition
	if err := json.Unmarshal(file, &defs); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", CardDBFile)
	}
	logger.LogMeta("loaded %d card definitions from %s", len(defs), CardDBFile)
	return NewCardDB(defs), nil
}

// Builtins returns a small hand-authored set of real MTG printings, enough
// to drive the end-to-end scenarios in spec §8 (S1-S3) without a full card
// corpus. Each definition's abilities are already structured per spec
// §3 — there is no oracle-text parser in this engine.
func Builtins() []*CardDefinition {
	return []*CardDefinition{
		{
			Name:     "Mountain",
			Types:    []CardType{TypeLand},
			SubTypes: []string{"Mountain"},
		},
		{
			Name:     "Forest",
			Types:    []CardType{TypeLand},
			SubTypes: []string{"Forest"},
		},
		{
			Name:     "Plains",
			Types:    []CardType{TypeLand},
			SubTypes: []string{"Plains"},
		},
		{
			Name:       "Lightning Bolt",
			ManaCost:   "{R}",
			CMC:        1,
			Types:      []CardType{TypeInstant},
			OracleText: "Lightning Bolt deals 3 damage to any target.",
			Abilities: []AbilitySpec{{
				Name: "Lightning Bolt",
				Kind: SpellEffectAbility,
				Effects: []EffectSpec{{
					Kind:    EffectDealDamage,
					Value:   3,
					Targets: []TargetSpec{{Kind: TargetAny, Required: true, Count: 1}},
				}},
			}},
		},
		{
			Name:          "Grizzly Bears",
			ManaCost:      "{1}{G}",
			CMC:           2,
			Types:         []CardType{TypeCreature},
			SubTypes:      []string{"Bear"},
			BasePower:     2,
			BaseToughness: 2,
		},
		{
			Name:          "Royal Assassin",
			ManaCost:      "{2}{B}",
			CMC:           3,
			Types:         []CardType{TypeCreature},
			SubTypes:      []string{"Human", "Assassin"},
			BasePower:     1,
			BaseToughness: 1,
			OracleText:    "Tap: Destroy target tapped creature.",
			Abilities: []AbilitySpec{{
				Name:   "Royal Assassin",
				Kind:   ActivatedAbility,
				Timing: AnyTime,
				Cost:   Cost{Tap: true},
				Effects: []EffectSpec{{
					Kind:    EffectDestroy,
					Value:   1,
					Targets: []TargetSpec{{Kind: TargetCreature, Required: true, Count: 1}},
				}},
			}},
		},
	}
}
