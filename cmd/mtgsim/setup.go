package main

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/deckfile"
	"github.com/mtgsim/mtgsim/pkg/state"
	"github.com/mtgsim/mtgsim/pkg/types"
)

// parseSeed accepts either a decimal integer or the literal "clock" (spec
// §6), the latter drawing from wall-clock time rather than a fixed value.
func parseSeed(s string) (uint64, error) {
	if s == "" || strings.EqualFold(s, "clock") {
		return uint64(time.Now().UnixNano()), nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid seed %q", s)
	}
	return n, nil
}

// buildFreshGame instantiates both players' libraries from lists, shuffles
// each with rng seeded from deckSeed, and deals opening hands (spec §6
// `draw`). The shuffle mutates zone.Store's backing slice in place — no
// separate "replace zone contents" primitive is needed (pkg/zone.Store.Cards
// returns the live sequence, not a copy).
func buildFreshGame(lists [2]*deckfile.Decklist, deckSeed uint64, drawNames [2][]string) (*state.GameState, error) {
	g := state.New()
	rng := rand.New(rand.NewPCG(deckSeed, deckSeed))

	for i, list := range lists {
		p := types.PlayerId(i)
		for _, def := range list.MainCards() {
			c := card.NewCard(types.CardId{}, def, p)
			c.Zone = types.Library
			id := g.Cards.Allocate(*c)
			g.Cards.GetMut(id).ID = id
			g.Zones.Append(types.Library, p, id)
		}

		library := g.Zones.Cards(types.Library, p)
		rng.Shuffle(len(library), func(a, b int) { library[a], library[b] = library[b], library[a] })

		if err := dealOpeningHand(g, p, drawNames[i]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// dealOpeningHand moves the named cards (spec §6 `draw`) from library to
// hand in listed order, then fills the rest of the opening hand from the
// top of the (already shuffled) library.
func dealOpeningHand(g *state.GameState, p types.PlayerId, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		id, ok := findInLibrary(g, p, name)
		if !ok {
			return errors.Errorf("draw: %q not found in player %d's library", name, p)
		}
		if err := g.Zones.Move(types.Library, p, types.Hand, p, id); err != nil {
			return err
		}
	}
	for g.Zones.Count(types.Hand, p) < 7 && g.Zones.Count(types.Library, p) > 0 {
		top, _ := g.Zones.Top(types.Library, p)
		if err := g.Zones.Move(types.Library, p, types.Hand, p, top); err != nil {
			return err
		}
	}
	return nil
}

func findInLibrary(g *state.GameState, p types.PlayerId, name string) (types.CardId, bool) {
	for _, id := range g.Zones.Cards(types.Library, p) {
		c, err := g.Card(id)
		if err == nil && strings.EqualFold(c.Def.Name, name) {
			return id, true
		}
	}
	return types.CardId{}, false
}

// splitList splits a comma-separated CLI value into trimmed, non-empty
// elements.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitTokens splits a `;`-separated fixed-inputs value (spec §6).
func splitTokens(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
