// Package zone implements the Identifier & Zone Store (spec component A):
// ordered per-zone sequences of CardId, replacing the teacher's ad hoc
// per-type slices (src/permanant.go's Creatures/Lands/Artifacts/...) with a
// single generalized store keyed by zone and, where it applies, player.
package zone

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/mtgsim/mtgsim/pkg/types"
)

var errCardNotInZone = errors.New("card not present in source zone")

// key addresses one ordered sequence: a per-player zone is (kind, owner);
// global zones (Stack, Exile) ignore owner.
type key struct {
	kind  types.ZoneKind
	owner types.PlayerId
}

// Store holds the ordered contents of every zone for both players.
type Store struct {
	sequences map[key][]types.CardId
}

// NewStore returns an empty zone store.
func NewStore() *Store {
	return &Store{sequences: make(map[key][]types.CardId)}
}

func (s *Store) keyFor(kind types.ZoneKind, owner types.PlayerId) key {
	if !kind.PerPlayer() {
		return key{kind: kind}
	}
	return key{kind: kind, owner: owner}
}

// Cards returns the ordered contents of a zone. For per-player zones owner
// selects whose sequence; it's ignored for Stack/Exile.
func (s *Store) Cards(kind types.ZoneKind, owner types.PlayerId) []types.CardId {
	return s.sequences[s.keyFor(kind, owner)]
}

// Count returns len(Cards(kind, owner)) without allocating a copy.
func (s *Store) Count(kind types.ZoneKind, owner types.PlayerId) int {
	return len(s.sequences[s.keyFor(kind, owner)])
}

// Append adds id to the bottom (end) of a zone sequence, e.g. a newly
// drawn library or a card entering the battlefield.
func (s *Store) Append(kind types.ZoneKind, owner types.PlayerId, id types.CardId) {
	k := s.keyFor(kind, owner)
	s.sequences[k] = append(s.sequences[k], id)
}

// Push adds id to the top (start) of a zone sequence — used for the stack
// and for placing a card on top of a library.
func (s *Store) Push(kind types.ZoneKind, owner types.PlayerId, id types.CardId) {
	k := s.keyFor(kind, owner)
	s.sequences[k] = append([]types.CardId{id}, s.sequences[k]...)
}

// Top returns the id at the start of a zone sequence (the top of the
// library or stack), or the zero Handle and false if the zone is empty.
func (s *Store) Top(kind types.ZoneKind, owner types.PlayerId) (types.CardId, bool) {
	seq := s.sequences[s.keyFor(kind, owner)]
	if len(seq) == 0 {
		return types.CardId{}, false
	}
	return seq[0], true
}

// Remove deletes id from a zone's sequence, preserving the relative order
// of what remains. Returns errCardNotInZone if id isn't present.
func (s *Store) Remove(kind types.ZoneKind, owner types.PlayerId, id types.CardId) error {
	k := s.keyFor(kind, owner)
	seq := s.sequences[k]
	for i, existing := range seq {
		if existing == id {
			s.sequences[k] = append(seq[:i:i], seq[i+1:]...)
			return nil
		}
	}
	return errors.Wrapf(errCardNotInZone, "zone %s player %d card %v", kind, owner, id)
}

// Move removes id from (fromKind, fromOwner) and appends it to
// (toKind, toOwner), the one primitive spec §4.A names for every zone
// change (draw, cast, resolve, die, discard...). The destination is
// exactly the (toKind, toOwner) sequence the caller names; callers moving
// a card to a graveyard pass its owner's PlayerId (pkg/exec's destroy
// does).
func (s *Store) Move(fromKind types.ZoneKind, fromOwner types.PlayerId, toKind types.ZoneKind, toOwner types.PlayerId, id types.CardId) error {
	if err := s.Remove(fromKind, fromOwner, id); err != nil {
		return err
	}
	s.Append(toKind, toOwner, id)
	return nil
}

// MoveToFront removes id from (fromKind, fromOwner) and pushes it onto the
// top of (toKind, toOwner), instead of Move's bottom-append. Undoing a
// removal from the top of a zone (a draw or a mill off the top of the
// library) must reverse into that same top position, or the zone's order
// permanently changes across a rewind even though every card returns to
// it.
func (s *Store) MoveToFront(fromKind types.ZoneKind, fromOwner types.PlayerId, toKind types.ZoneKind, toOwner types.PlayerId, id types.CardId) error {
	if err := s.Remove(fromKind, fromOwner, id); err != nil {
		return err
	}
	s.Push(toKind, toOwner, id)
	return nil
}

// Find reports which zone (and, for per-player zones, whose) currently
// holds id, searching both players' per-player zones and the shared ones.
func (s *Store) Find(id types.CardId) (kind types.ZoneKind, owner types.PlayerId, found bool) {
	for k, seq := range s.sequences {
		for _, existing := range seq {
			if existing == id {
				return k.kind, k.owner, true
			}
		}
	}
	return 0, 0, false
}

// Entry is one zone's ordered contents, exported for serialization (spec
// §4.I) since key's fields are unexported.
type Entry struct {
	Kind  types.ZoneKind
	Owner types.PlayerId
	Cards []types.CardId
}

// Snapshot returns every non-empty zone sequence, sorted by (kind, owner)
// so two snapshots of the same state serialize identically.
func (s *Store) Snapshot() []Entry {
	out := make([]Entry, 0, len(s.sequences))
	for k, seq := range s.sequences {
		if len(seq) == 0 {
			continue
		}
		out = append(out, Entry{Kind: k.kind, Owner: k.owner, Cards: append([]types.CardId(nil), seq...)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Owner < out[j].Owner
	})
	return out
}

// Restore replaces the store's contents with entries (spec §4.I resume).
func (s *Store) Restore(entries []Entry) {
	s.sequences = make(map[key][]types.CardId, len(entries))
	for _, e := range entries {
		s.sequences[s.keyFor(e.Kind, e.Owner)] = append([]types.CardId(nil), e.Cards...)
	}
}
