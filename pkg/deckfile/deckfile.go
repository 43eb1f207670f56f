// Package deckfile parses the `.dck` decklist format (spec.md §6): a
// UTF-8 INI file with sections [metadata], [Main], [Sideboard], each
// card line reading `<quantity> <card-name>[|<set>][|<art>]`. This
// generalizes the teacher's pkg/deck.ImportDeckfile, which accepted a
// loose mix of ad hoc deck-export formats with no declared grammar;
// this parser implements the one grammar spec.md actually names, kept
// in the teacher's line-scanning style (bufio.Scanner, strings helpers,
// no ini library).
package deckfile

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mtgsim/mtgsim/internal/logger"
	"github.com/mtgsim/mtgsim/pkg/card"
)

// Entry is one decklist line: a card definition and how many copies.
type Entry struct {
	Def      *card.CardDefinition
	Quantity int
}

// Decklist is the parsed contents of a .dck file.
type Decklist struct {
	Name      string
	Main      []Entry
	Sideboard []Entry
}

// MainCards returns one *card.CardDefinition per physical copy in the
// main deck, in decklist order. Copies of the same printing share the
// same definition pointer (spec §4.B "shared-read-only ownership").
func (d *Decklist) MainCards() []*card.CardDefinition {
	return flatten(d.Main)
}

// SideboardCards returns one *card.CardDefinition per physical copy in
// the sideboard.
func (d *Decklist) SideboardCards() []*card.CardDefinition {
	return flatten(d.Sideboard)
}

func flatten(entries []Entry) []*card.CardDefinition {
	var out []*card.CardDefinition
	for _, e := range entries {
		for i := 0; i < e.Quantity; i++ {
			out = append(out, e.Def)
		}
	}
	return out
}

// section names a .dck INI section; unrecognized headers (e.g. a
// collector's own notes section) are skipped rather than rejected.
type section int

const (
	sectionNone section = iota
	sectionMetadata
	sectionMain
	sectionSideboard
)

// Load reads and parses the .dck file at path, resolving every card name
// through db.
func Load(path string, db *card.CardDB) (*Decklist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening decklist")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.LogDeck("error closing decklist %s: %v", path, cerr)
		}
	}()
	return Parse(f, db)
}

// Parse reads a .dck stream from r and resolves every card name through
// db. An unknown card name is an Input error (spec §7): the decklist is
// rejected outright rather than silently dropping the line.
func Parse(r io.Reader, db *card.CardDB) (*Decklist, error) {
	list := &Decklist{}
	cur := sectionNone

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			cur = parseSectionHeader(line)
			continue
		}

		switch cur {
		case sectionMetadata:
			if name, ok := parseMetadataLine(line); ok {
				list.Name = name
			}
		case sectionMain, sectionSideboard:
			entry, err := parseCardLine(line, db)
			if err != nil {
				return nil, err
			}
			if cur == sectionMain {
				list.Main = append(list.Main, entry)
			} else {
				list.Sideboard = append(list.Sideboard, entry)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning decklist")
	}
	return list, nil
}

func parseSectionHeader(line string) section {
	switch strings.ToLower(strings.Trim(line, "[]")) {
	case "metadata":
		return sectionMetadata
	case "main":
		return sectionMain
	case "sideboard":
		return sectionSideboard
	default:
		return sectionNone
	}
}

func parseMetadataLine(line string) (name string, ok bool) {
	key, val, found := strings.Cut(line, "=")
	if !found {
		return "", false
	}
	if strings.EqualFold(strings.TrimSpace(key), "name") {
		return strings.TrimSpace(val), true
	}
	return "", false
}

// parseCardLine parses `<quantity> <card-name>[|<set>][|<art>]`,
// clamping quantity into 1-255 and ignoring the optional set/art fields
// (spec §6): they identify a specific printing, which this engine
// doesn't model beyond the shared CardDefinition.
func parseCardLine(line string, db *card.CardDB) (Entry, error) {
	fields := strings.SplitN(line, "|", 2)
	head := strings.TrimSpace(fields[0])

	qtyStr, name, found := strings.Cut(head, " ")
	if !found {
		return Entry{}, errors.Errorf("deckfile: malformed card line %q", line)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(qtyStr))
	if err != nil {
		return Entry{}, errors.Wrapf(err, "deckfile: bad quantity in %q", line)
	}
	if qty < 1 {
		qty = 1
	}
	if qty > 255 {
		qty = 255
	}

	name = strings.TrimSpace(name)
	def, ok := db.Get(name)
	if !ok {
		if normalized, nok := resolveNormalized(name, db); nok {
			def = normalized
			ok = true
		}
	}
	if !ok {
		return Entry{}, errors.Errorf("deckfile: unknown card %q", name)
	}
	return Entry{Def: def, Quantity: qty}, nil
}

// resolveNormalized retries a lookup by applying spec §6's name
// normalization (lowercase, spaces→`_`, strip `' , : ! ?`, `-`→`_`) to
// both the requested name and every registered definition, for
// databases indexed or authored under the normalized form.
func resolveNormalized(name string, db *card.CardDB) (*card.CardDefinition, bool) {
	target := Normalize(name)
	for _, d := range db.All() {
		if Normalize(d.Name) == target {
			return d, true
		}
	}
	return nil, false
}

// Normalize applies spec §6's decklist name-normalization rule:
// lowercase; spaces become underscores; the characters ' , : ! ? are
// stripped; hyphens become underscores.
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch r {
		case ' ':
			b.WriteRune('_')
		case '-':
			b.WriteRune('_')
		case '\'', ',', ':', '!', '?':
			// stripped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
