package card

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mtgsim/mtgsim/pkg/types"
)

var errNotEnoughMana = errors.New("not enough mana to pay cost")

var symbolRe = regexp.MustCompile(`\{(\w+)\}`)

// ManaPool tracks a player's floating mana, one counter per ManaType plus a
// generic bucket for untyped ({N}) mana (spec §4.E costs).
type ManaPool struct {
	colored  map[types.ManaType]int
	generic  int
}

// NewManaPool returns an empty pool.
func NewManaPool() *ManaPool {
	return &ManaPool{colored: make(map[types.ManaType]int)}
}

// Add deposits amount mana of manaType (types.Any deposits into the generic
// bucket).
func (mp *ManaPool) Add(manaType types.ManaType, amount int) {
	if manaType == types.Any {
		mp.generic += amount
		return
	}
	mp.colored[manaType] += amount
}

// Total returns the sum of all mana currently in the pool.
func (mp *ManaPool) Total() int {
	total := mp.generic
	for _, n := range mp.colored {
		total += n
	}
	return total
}

// Get returns the amount of a single colored type (excludes generic).
func (mp *ManaPool) Get(manaType types.ManaType) int { return mp.colored[manaType] }

// CanPay reports whether the pool can cover cost without mutating it:
// each colored requirement must be met by mana of that color (a shortfall
// fails), and the generic requirement is covered by the generic bucket
// plus whatever colored mana remains.
func (mp *ManaPool) CanPay(cost map[types.ManaType]int) bool {
	remaining := make(map[types.ManaType]int, len(mp.colored))
	for k, v := range mp.colored {
		remaining[k] = v
	}
	leftover := 0
	for mt, need := range cost {
		if mt == types.Any {
			continue
		}
		if remaining[mt] < need {
			return false
		}
		remaining[mt] -= need
	}
	for _, v := range remaining {
		leftover += v
	}
	return leftover+mp.generic >= cost[types.Any]
}

// Pay deducts cost from the pool, failing atomically if it cannot be paid.
func (mp *ManaPool) Pay(cost map[types.ManaType]int) error {
	if !mp.CanPay(cost) {
		return errNotEnoughMana
	}
	genericNeed := cost[types.Any]
	for mt, need := range cost {
		if mt == types.Any {
			continue
		}
		mp.colored[mt] -= need
	}
	if mp.generic >= genericNeed {
		mp.generic -= genericNeed
		return nil
	}
	genericNeed -= mp.generic
	mp.generic = 0
	for mt, n := range mp.colored {
		if genericNeed == 0 {
			break
		}
		take := n
		if take > genericNeed {
			take = genericNeed
		}
		mp.colored[mt] -= take
		genericNeed -= take
	}
	return nil
}

// Empty drains the pool (mana empties at the end of each step/phase,
// spec §4.G).
func (mp *ManaPool) Empty() {
	mp.colored = make(map[types.ManaType]int)
	mp.generic = 0
}

// Snapshot returns the pool's colored amounts and generic bucket, exported
// for serialization (spec §4.I) since both fields are otherwise private.
func (mp *ManaPool) Snapshot() (colored map[types.ManaType]int, generic int) {
	colored = make(map[types.ManaType]int, len(mp.colored))
	for k, v := range mp.colored {
		colored[k] = v
	}
	return colored, mp.generic
}

// Restore replaces the pool's contents (spec §4.I resume).
func (mp *ManaPool) Restore(colored map[types.ManaType]int, generic int) {
	mp.colored = make(map[types.ManaType]int, len(colored))
	for k, v := range colored {
		mp.colored[k] = v
	}
	mp.generic = generic
}

// ParseManaCost parses a printed cost string like "{2}{R}{G}" into a
// type->count map, generic symbols collapsing into types.Any.
func ParseManaCost(cost string) map[types.ManaType]int {
	result := make(map[types.ManaType]int)
	for _, m := range symbolRe.FindAllStringSubmatch(cost, -1) {
		symbol := m[1]
		if n, err := strconv.Atoi(symbol); err == nil {
			result[types.Any] += n
			continue
		}
		result[types.ManaType(symbol)]++
	}
	return result
}

// CheckManaProducer reports whether a def's oracle text describes a mana
// ability ("Add ..."), and which colors it can produce. This is a coarse
// textual classifier, not a general oracle-text parser — CardDefinitions
// arrive already structured (spec §3). Neither the engine nor Builtins
// calls it.
func CheckManaProducer(oracleText string) (bool, []types.ManaType) {
	if !strings.Contains(oracleText, "Add") {
		return false, nil
	}
	var produced []types.ManaType
	for _, m := range regexp.MustCompile(`\{([WUBRGC])\}`).FindAllStringSubmatch(oracleText, -1) {
		produced = append(produced, types.ManaType(m[1]))
	}
	lower := strings.ToLower(oracleText)
	if strings.Contains(lower, "any color") || strings.Contains(lower, "one mana of any color") {
		produced = append(produced, types.Any)
	}
	return len(produced) > 0, produced
}
