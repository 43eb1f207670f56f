// Package puzzle parses the `.pzl` puzzle-state format (spec.md §6): an
// INI file describing a GameState directly rather than a decklist, used
// to back scenario S3 and the `start-state` CLI flag. There is no
// teacher equivalent (the teacher only ever loaded decks and shuffled
// into a fresh game) — built in the line-scanning idiom of
// pkg/deckfile/pkg/deck, since the two formats share the `;`/`|`
// card-list grammar spec.md names for both.
package puzzle

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mtgsim/mtgsim/internal/logger"
	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/state"
	"github.com/mtgsim/mtgsim/pkg/types"
)

// Metadata is the descriptive [metadata] section of a .pzl file; it
// never affects GameState construction, only diagnostics.
type Metadata struct {
	Name       string
	Goal       string
	Turns      int
	Difficulty string
}

// zoneSections lists the per-player zone keys in a fixed order, so that
// AttachedTo:<id> local-index numbering is reproducible across parses
// of the same file regardless of Go's randomized map iteration.
var zoneSections = []struct {
	name string
	kind types.ZoneKind
}{
	{"hand", types.Hand},
	{"battlefield", types.Battlefield},
	{"graveyard", types.Graveyard},
	{"library", types.Library},
	{"exile", types.Exile},
}

// Load reads and parses the .pzl file at path into a fresh GameState,
// resolving every card name through db.
func Load(path string, db *card.CardDB) (*state.GameState, Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Metadata{}, errors.Wrap(err, "opening puzzle state")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.LogDeck("error closing puzzle state %s: %v", path, cerr)
		}
	}()
	return Parse(f, db)
}

// cardLine is one parsed entry from a ;-separated zone list: a card name
// plus its |-separated modifiers, not yet resolved to a definition or
// allocated an id.
type cardLine struct {
	name       string
	modifiers  []string
	localIndex int // 1-based position across the whole file, for AttachedTo references
}

// Parse reads a .pzl stream from r into a fresh GameState.
func Parse(r io.Reader, db *card.CardDB) (*state.GameState, Metadata, error) {
	g := state.New()
	var meta Metadata

	sections := map[string]map[string]string{}
	var order []string
	cur := ""

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			cur = strings.ToLower(strings.Trim(line, "[]"))
			if _, ok := sections[cur]; !ok {
				sections[cur] = map[string]string{}
				order = append(order, cur)
			}
			continue
		}
		key, val, found := strings.Cut(line, "=")
		if !found || cur == "" {
			continue
		}
		sections[cur][strings.TrimSpace(strings.ToLower(key))] = strings.TrimSpace(val)
	}
	if err := scanner.Err(); err != nil {
		return nil, meta, errors.Wrap(err, "scanning puzzle state")
	}

	if md, ok := sections["metadata"]; ok {
		meta.Name = md["name"]
		meta.Goal = md["goal"]
		meta.Difficulty = md["difficulty"]
		if n, err := strconv.Atoi(md["turns"]); err == nil {
			meta.Turns = n
		}
	}

	if st, ok := sections["state"]; ok {
		if n, err := strconv.Atoi(st["turn"]); err == nil {
			g.Turn = n
		}
		if n, err := strconv.Atoi(st["active"]); err == nil {
			g.Active = types.PlayerId(n)
		}
		g.PriorityHolder = g.Active
		g.HasPriority = true
		if p, ok := parsePhase(st["phase"]); ok {
			g.Phase = p
		}
		if s, ok := parseStep(st["step"]); ok {
			g.Step = s
			g.Phase = s.Phase()
		}
	}

	localByIndex := map[int]types.CardId{}
	pendingAttachments := map[int]int{} // card's local index -> local index of its AttachedTo target
	nextLocal := 1

	for _, name := range order {
		var player types.PlayerId
		switch name {
		case "player0":
			player = types.PlayerA
		case "player1":
			player = types.PlayerB
		default:
			continue
		}
		sec := sections[name]

		if v, ok := sec["life"]; ok {
			if n, err := strconv.Atoi(v); err == nil {
				g.Players[player].Life = n
			}
		}

		for _, zs := range zoneSections {
			zk := zs.kind
			raw, ok := sec[zs.name]
			if !ok || raw == "" {
				continue
			}
			for _, entry := range strings.Split(raw, ";") {
				entry = strings.TrimSpace(entry)
				if entry == "" {
					continue
				}
				parts := strings.Split(entry, "|")
				cl := cardLine{name: strings.TrimSpace(parts[0]), modifiers: parts[1:], localIndex: nextLocal}
				nextLocal++

				id, err := instantiate(g, db, cl, player, zk, pendingAttachments)
				if err != nil {
					return nil, meta, err
				}
				localByIndex[cl.localIndex] = id
			}
		}
	}

	// Resolve AttachedTo:<id> references now that every card in the
	// file has a real CardId (a local index can refer forward as well
	// as backward within the file).
	for idx, target := range pendingAttachments {
		id, ok := localByIndex[idx]
		if !ok {
			continue
		}
		real, ok := localByIndex[target]
		if !ok {
			continue
		}
		if c, err := g.Card(id); err == nil {
			c.Attach(real)
		}
	}

	return g, meta, nil
}

func instantiate(g *state.GameState, db *card.CardDB, cl cardLine, player types.PlayerId, zk types.ZoneKind, pendingAttachments map[int]int) (types.CardId, error) {
	def, ok := db.Get(cl.name)
	if !ok {
		return types.CardId{}, errors.Errorf("puzzle: unknown card %q", cl.name)
	}

	c := card.NewCard(types.CardId{}, def, player)
	c.Zone = zk
	id := g.Cards.Allocate(*c)
	stored := g.Cards.GetMut(id)
	stored.ID = id
	g.Zones.Append(zk, player, id)

	for _, mod := range cl.modifiers {
		applyModifier(stored, mod, cl.localIndex, pendingAttachments)
	}
	return id, nil
}

// applyModifier parses one |-separated puzzle-state modifier token
// against c. Unrecognized tokens are logged and ignored rather than
// rejected outright, since §6 doesn't close the modifier vocabulary.
func applyModifier(c *card.Card, token string, localIndex int, pendingAttachments map[int]int) {
	key, val, hasVal := strings.Cut(token, ":")
	switch strings.ToLower(key) {
	case "tapped":
		c.Tapped = true
	case "summonsick":
		c.SummoningSick = true
	case "counters":
		if !hasVal {
			return
		}
		for _, pair := range strings.Split(val, ",") {
			k, n, ok := strings.Cut(pair, "=")
			if !ok {
				continue
			}
			amount, err := strconv.Atoi(n)
			if err != nil {
				continue
			}
			c.AddCounter(counterKind(k), amount)
		}
	case "damage":
		if !hasVal {
			return
		}
		if n, err := strconv.Atoi(val); err == nil {
			c.DamageMarked = n
		}
	case "attachedto":
		if !hasVal {
			return
		}
		if target, err := strconv.Atoi(val); err == nil {
			pendingAttachments[localIndex] = target
		}
	default:
		logger.LogDeck("puzzle: unrecognized modifier %q on %s", token, c.Def.Name)
	}
}

func counterKind(k string) types.CounterKind {
	switch strings.ToUpper(k) {
	case "P1P1":
		return types.PlusOnePlusOne
	case "M1M1":
		return types.MinusOneMinusOne
	default:
		return types.CounterKind(k)
	}
}

func parsePhase(s string) (types.Phase, bool) {
	switch strings.ToLower(s) {
	case "beginning":
		return types.BeginningPhase, true
	case "main1":
		return types.Main1Phase, true
	case "combat":
		return types.CombatPhase, true
	case "main2":
		return types.Main2Phase, true
	case "ending":
		return types.EndingPhase, true
	default:
		return 0, false
	}
}

func parseStep(s string) (types.Step, bool) {
	switch strings.ToLower(s) {
	case "untap":
		return types.StepUntap, true
	case "upkeep":
		return types.StepUpkeep, true
	case "draw":
		return types.StepDraw, true
	case "main1":
		return types.StepMain1, true
	case "begincombat":
		return types.StepBeginCombat, true
	case "declareattackers":
		return types.StepDeclareAttackers, true
	case "declareblockers":
		return types.StepDeclareBlockers, true
	case "combatdamagefirststrike":
		return types.StepCombatDamageFirstStrike, true
	case "combatdamage":
		return types.StepCombatDamage, true
	case "endcombat":
		return types.StepEndCombat, true
	case "main2":
		return types.StepMain2, true
	case "end":
		return types.StepEnd, true
	case "cleanup":
		return types.StepCleanup, true
	default:
		return 0, false
	}
}
