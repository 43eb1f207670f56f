package controller

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/mtgsim/mtgsim/pkg/stack"
	"github.com/mtgsim/mtgsim/pkg/state"
	"github.com/mtgsim/mtgsim/pkg/types"
)

// ErrScriptExhausted is returned (via panic, since Controller methods have
// no error return — spec.md §4.H's table leaves failure handling to the
// caller) when a FixedScript runs out of pre-baked choices and has no
// Fallback controller to fall through to.
var ErrScriptExhausted = errors.New("fixed-script controller: choice list exhausted")

// FirstChoice always picks index/element zero (spec.md §4.H "Standard
// controller variants"), the simplest deterministic policy — useful as a
// test double and as the fallback a FixedScript delegates to once its
// list is empty and exhaustion isn't fatal.
type FirstChoice struct{}

func (FirstChoice) ChooseSpellAbilityToPlay(view state.View, actions []Action) int { return 0 }

func (FirstChoice) ChooseTargets(view state.View, source types.CardId, req TargetRequest, legal []stack.Target) []stack.Target {
	if len(legal) == 0 {
		return nil
	}
	n := req.Count
	if n <= 0 || n > len(legal) {
		n = 1
	}
	return append([]stack.Target(nil), legal[:n]...)
}

func (FirstChoice) ChooseManaPayment(view state.View, cost map[types.ManaType]int, sources []ManaSource) map[types.CardId]types.ManaType {
	chosen := make(map[types.CardId]types.ManaType)
	remaining := make(map[types.ManaType]int, len(cost))
	for mt, n := range cost {
		remaining[mt] = n
	}
	for _, src := range sources {
		for _, mt := range src.Produces {
			if remaining[mt] > 0 {
				chosen[src.Card] = mt
				remaining[mt]--
				break
			}
		}
	}
	return chosen
}

func (FirstChoice) ChooseAttackers(view state.View, legal []types.CardId) []types.CardId { return nil }

func (FirstChoice) ChooseBlockers(view state.View, attackers, legal []types.CardId) map[types.CardId][]types.CardId {
	return nil
}

func (FirstChoice) ChooseDamageAssignmentOrder(view state.View, attacker types.CardId, blockers []types.CardId) []types.CardId {
	return append([]types.CardId(nil), blockers...)
}

func (FirstChoice) AssignDamage(view state.View, attacker types.CardId, orderedBlockers []types.CardId, total int) []DamageAssignment {
	if len(orderedBlockers) == 0 {
		return nil
	}
	out := make([]DamageAssignment, 0, len(orderedBlockers))
	out = append(out, DamageAssignment{Blocker: orderedBlockers[0], Amount: total})
	return out
}

func (FirstChoice) ChooseCardsToDiscard(view state.View, hand []types.CardId, count int) []types.CardId {
	if count > len(hand) {
		count = len(hand)
	}
	return append([]types.CardId(nil), hand[:count]...)
}

func (FirstChoice) ConfirmTrigger(view state.View, description string) bool { return true }
func (FirstChoice) ChooseMode(view state.View, description string, modes int) int { return 0 }
func (FirstChoice) ChooseNumber(view state.View, description string, min, max int) int { return min }

// SeededRandom makes every decision from its own explicitly-seeded PRNG
// stream (spec.md §9: "explicit seeded RNG, never a global"), wrapping
// math/rand/v2's PCG generator rather than reading package-level
// math/rand state, so two SeededRandom controllers with the same seed
// reproduce byte-identical choice sequences regardless of call order
// elsewhere in the process.
type SeededRandom struct {
	rng *rand.Rand
}

// NewSeededRandom returns a SeededRandom seeded deterministically from
// seed.
func NewSeededRandom(seed uint64) *SeededRandom {
	return &SeededRandom{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (s *SeededRandom) ChooseSpellAbilityToPlay(view state.View, actions []Action) int {
	if len(actions) == 0 {
		return 0
	}
	return s.rng.IntN(len(actions))
}

func (s *SeededRandom) ChooseTargets(view state.View, source types.CardId, req TargetRequest, legal []stack.Target) []stack.Target {
	if len(legal) == 0 {
		return nil
	}
	n := req.Count
	if n <= 0 || n > len(legal) {
		n = 1
	}
	shuffled := append([]stack.Target(nil), legal...)
	s.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:n]
}

func (s *SeededRandom) ChooseManaPayment(view state.View, cost map[types.ManaType]int, sources []ManaSource) map[types.CardId]types.ManaType {
	return FirstChoice{}.ChooseManaPayment(view, cost, sources)
}

func (s *SeededRandom) ChooseAttackers(view state.View, legal []types.CardId) []types.CardId {
	var out []types.CardId
	for _, id := range legal {
		if s.rng.IntN(2) == 0 {
			out = append(out, id)
		}
	}
	return out
}

func (s *SeededRandom) ChooseBlockers(view state.View, attackers, legal []types.CardId) map[types.CardId][]types.CardId {
	if len(attackers) == 0 || len(legal) == 0 {
		return nil
	}
	assignment := make(map[types.CardId][]types.CardId)
	attacker := attackers[s.rng.IntN(len(attackers))]
	assignment[attacker] = []types.CardId{legal[s.rng.IntN(len(legal))]}
	return assignment
}

func (s *SeededRandom) ChooseDamageAssignmentOrder(view state.View, attacker types.CardId, blockers []types.CardId) []types.CardId {
	shuffled := append([]types.CardId(nil), blockers...)
	s.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled
}

func (s *SeededRandom) AssignDamage(view state.View, attacker types.CardId, orderedBlockers []types.CardId, total int) []DamageAssignment {
	return FirstChoice{}.AssignDamage(view, attacker, orderedBlockers, total)
}

func (s *SeededRandom) ChooseCardsToDiscard(view state.View, hand []types.CardId, count int) []types.CardId {
	if count > len(hand) {
		count = len(hand)
	}
	shuffled := append([]types.CardId(nil), hand...)
	s.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:count]
}

func (s *SeededRandom) ConfirmTrigger(view state.View, description string) bool { return s.rng.IntN(2) == 0 }
func (s *SeededRandom) ChooseMode(view state.View, description string, modes int) int {
	if modes <= 0 {
		return 0
	}
	return s.rng.IntN(modes)
}
func (s *SeededRandom) ChooseNumber(view state.View, description string, min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rng.IntN(max-min+1)
}

// Choice is one pre-baked decision a FixedScript replays in order,
// generic over every Controller method's return shape — the caller
// knows, from the method it invoked, which field is populated.
type Choice struct {
	Index   int
	Targets []stack.Target
	Mana    map[types.CardId]types.ManaType
	Cards   []types.CardId
	Blocks  map[types.CardId][]types.CardId
	Damage  []DamageAssignment
	Bool    bool
	Number  int
}

// FixedScript consumes a pre-baked list of Choice values in order. Once
// exhausted it either falls back to Fallback (if set) or panics with
// ErrScriptExhausted. The CLI's `fixed-inputs` and
// `stop-when-fixed-exhausted` flags do not use it; cmd/mtgsim drives them
// with its own descriptorController.
type FixedScript struct {
	Choices  []Choice
	pos      int
	Fallback Controller
}

func NewFixedScript(choices []Choice) *FixedScript { return &FixedScript{Choices: choices} }

func (f *FixedScript) next() (Choice, bool) {
	if f.pos >= len(f.Choices) {
		return Choice{}, false
	}
	c := f.Choices[f.pos]
	f.pos++
	return c, true
}

func (f *FixedScript) fallbackOrPanic() Controller {
	if f.Fallback != nil {
		return f.Fallback
	}
	panic(ErrScriptExhausted)
}

func (f *FixedScript) ChooseSpellAbilityToPlay(view state.View, actions []Action) int {
	if c, ok := f.next(); ok {
		return c.Index
	}
	return f.fallbackOrPanic().ChooseSpellAbilityToPlay(view, actions)
}

func (f *FixedScript) ChooseTargets(view state.View, source types.CardId, req TargetRequest, legal []stack.Target) []stack.Target {
	if c, ok := f.next(); ok {
		return c.Targets
	}
	return f.fallbackOrPanic().ChooseTargets(view, source, req, legal)
}

func (f *FixedScript) ChooseManaPayment(view state.View, cost map[types.ManaType]int, sources []ManaSource) map[types.CardId]types.ManaType {
	if c, ok := f.next(); ok {
		return c.Mana
	}
	return f.fallbackOrPanic().ChooseManaPayment(view, cost, sources)
}

func (f *FixedScript) ChooseAttackers(view state.View, legal []types.CardId) []types.CardId {
	if c, ok := f.next(); ok {
		return c.Cards
	}
	return f.fallbackOrPanic().ChooseAttackers(view, legal)
}

func (f *FixedScript) ChooseBlockers(view state.View, attackers, legal []types.CardId) map[types.CardId][]types.CardId {
	if c, ok := f.next(); ok {
		return c.Blocks
	}
	return f.fallbackOrPanic().ChooseBlockers(view, attackers, legal)
}

func (f *FixedScript) ChooseDamageAssignmentOrder(view state.View, attacker types.CardId, blockers []types.CardId) []types.CardId {
	if c, ok := f.next(); ok {
		return c.Cards
	}
	return f.fallbackOrPanic().ChooseDamageAssignmentOrder(view, attacker, blockers)
}

func (f *FixedScript) AssignDamage(view state.View, attacker types.CardId, orderedBlockers []types.CardId, total int) []DamageAssignment {
	if c, ok := f.next(); ok {
		return c.Damage
	}
	return f.fallbackOrPanic().AssignDamage(view, attacker, orderedBlockers, total)
}

func (f *FixedScript) ChooseCardsToDiscard(view state.View, hand []types.CardId, count int) []types.CardId {
	if c, ok := f.next(); ok {
		return c.Cards
	}
	return f.fallbackOrPanic().ChooseCardsToDiscard(view, hand, count)
}

func (f *FixedScript) ConfirmTrigger(view state.View, description string) bool {
	if c, ok := f.next(); ok {
		return c.Bool
	}
	return f.fallbackOrPanic().ConfirmTrigger(view, description)
}

func (f *FixedScript) ChooseMode(view state.View, description string, modes int) int {
	if c, ok := f.next(); ok {
		return c.Number
	}
	return f.fallbackOrPanic().ChooseMode(view, description, modes)
}

func (f *FixedScript) ChooseNumber(view state.View, description string, min, max int) int {
	if c, ok := f.next(); ok {
		return c.Number
	}
	return f.fallbackOrPanic().ChooseNumber(view, description, min, max)
}

// Interactive prompts a human over stdin/stdout. Deliberately minimal
// per spec.md §1's non-goal on a terminal UI — just enough of a
// numeric-choices prompt loop (spec.md §6's `numeric-choices` flag) to
// drive the engine manually; it never renders a board, only the bare
// index/number a decision needs.
type Interactive struct {
	in  *bufio.Reader
	out io.Writer
}

func NewInteractive(in io.Reader, out io.Writer) *Interactive {
	return &Interactive{in: bufio.NewReader(in), out: out}
}

func (ia *Interactive) promptInt(label string, lo, hi int) int {
	fmt.Fprintf(ia.out, "%s [%d-%d]: ", label, lo, hi)
	var n int
	if _, err := fmt.Fscan(ia.in, &n); err != nil {
		return lo
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func (ia *Interactive) ChooseSpellAbilityToPlay(view state.View, actions []Action) int {
	if len(actions) == 0 {
		return 0
	}
	return ia.promptInt("choose action", 0, len(actions)-1)
}

func (ia *Interactive) ChooseTargets(view state.View, source types.CardId, req TargetRequest, legal []stack.Target) []stack.Target {
	if len(legal) == 0 {
		return nil
	}
	i := ia.promptInt("choose target", 0, len(legal)-1)
	return []stack.Target{legal[i]}
}

func (ia *Interactive) ChooseManaPayment(view state.View, cost map[types.ManaType]int, sources []ManaSource) map[types.CardId]types.ManaType {
	return FirstChoice{}.ChooseManaPayment(view, cost, sources)
}

func (ia *Interactive) ChooseAttackers(view state.View, legal []types.CardId) []types.CardId {
	var out []types.CardId
	for _, id := range legal {
		if ia.promptInt(fmt.Sprintf("attack with %v? 1=yes 0=no", id), 0, 1) == 1 {
			out = append(out, id)
		}
	}
	return out
}

func (ia *Interactive) ChooseBlockers(view state.View, attackers, legal []types.CardId) map[types.CardId][]types.CardId {
	return nil
}

func (ia *Interactive) ChooseDamageAssignmentOrder(view state.View, attacker types.CardId, blockers []types.CardId) []types.CardId {
	return append([]types.CardId(nil), blockers...)
}

func (ia *Interactive) AssignDamage(view state.View, attacker types.CardId, orderedBlockers []types.CardId, total int) []DamageAssignment {
	return FirstChoice{}.AssignDamage(view, attacker, orderedBlockers, total)
}

func (ia *Interactive) ChooseCardsToDiscard(view state.View, hand []types.CardId, count int) []types.CardId {
	return FirstChoice{}.ChooseCardsToDiscard(view, hand, count)
}

func (ia *Interactive) ConfirmTrigger(view state.View, description string) bool {
	return ia.promptInt(description+" 1=yes 0=no", 0, 1) == 1
}

func (ia *Interactive) ChooseMode(view state.View, description string, modes int) int {
	if modes <= 0 {
		return 0
	}
	return ia.promptInt(description, 0, modes-1)
}

func (ia *Interactive) ChooseNumber(view state.View, description string, min, max int) int {
	return ia.promptInt(description, min, max)
}
