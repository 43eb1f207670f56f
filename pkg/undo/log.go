// Package undo implements the Undo Log (spec component D): an append-only
// journal of reversible mutations supporting rewind by N entries and
// rewind-to-most-recent-TurnMarker, the mechanism that gives the engine
// zero-copy state rewind for tree search and snapshot resume.
package undo

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/mtgsim/mtgsim/pkg/types"
)

// Kind discriminates an Entry. Every mutation the Executor performs is one
// of these, recorded before the mutation is applied.
type Kind int

const (
	MoveCard Kind = iota
	SetTapped
	AddCounterEntry
	SetLife
	MoveMana
	SetPhaseStep
	SetActivePlayer
	SetPriorityHolder
	PushStackEntry
	PopStackEntry
	DrawCardEntry
	ChangeTurn
	SetDamageMarked
	EmptyManaEntry
	ChoicePoint
	TurnMarker
)

// ReplayChoice is the externalized record of one controller decision,
// embedded in a ChoicePoint entry so Snapshot/Replay (component I) can
// reconstruct an intra-turn choice log (spec §4.D/§4.I).
type ReplayChoice struct {
	Kind    string
	Chosen  int
	Targets []types.CardId
}

// Entry is one undo-log record. Only the fields relevant to Kind are
// populated; the rest are left zero. This flat-struct-with-discriminant
// shape (rather than one struct type per kind) keeps Rewind allocation-free
// and keeps the log trivially diffable by go-spew in debug builds.
type Entry struct {
	Kind Kind

	Card types.CardId

	FromZone  types.ZoneKind
	FromOwner types.PlayerId
	ToZone    types.ZoneKind
	ToOwner   types.PlayerId

	TappedBefore bool

	CounterKind types.CounterKind
	Delta       int

	Player       types.PlayerId
	LifeBefore   int
	DamageBefore int

	ManaType   types.ManaType
	ManaBefore int

	ManaColoredBefore map[types.ManaType]int
	ManaGenericBefore int

	PhaseBefore Phase
	StepBefore  Step

	PlayerBefore types.PlayerId

	StackObject types.StackObjectId

	// StackObj opaquely carries the real *stack.Object a PopStackEntry
	// removed, so its inverse can restore it to the live stack.Stack —
	// GameState.Stack is only an ID mirror (spec §4.D); the object data
	// itself lives in pkg/stack, which this package cannot import without
	// an import cycle (pkg/stack already imports pkg/state, which owns
	// this log). Populated by pkg/exec, which holds both.
	StackObj interface{}

	TurnBefore int

	Choice ReplayChoice
}

// Phase and Step mirror pkg/types so this package doesn't import it solely
// for two enum types used nowhere else in the log's own logic; the
// Executor converts to/from types.Phase/types.Step at the call site.
type Phase = types.Phase
type Step = types.Step

// Mutator is the narrow surface the Log calls to apply an Entry's inverse.
// pkg/state's GameState implements it; keeping the interface here (rather
// than importing pkg/state) avoids an import cycle, since GameState itself
// owns a *Log.
type Mutator interface {
	UndoMoveCard(e Entry) error
	UndoSetTapped(e Entry)
	UndoAddCounter(e Entry)
	UndoSetLife(e Entry)
	UndoMoveMana(e Entry)
	UndoSetPhaseStep(e Entry)
	UndoSetActivePlayer(e Entry)
	UndoSetPriorityHolder(e Entry)
	UndoPushStack(e Entry)
	UndoPopStack(e Entry)
	UndoDrawCard(e Entry) error
	UndoChangeTurn(e Entry)
	UndoSetDamageMarked(e Entry)
	UndoEmptyMana(e Entry)
}

var errCorruptLog = errors.New("undo log: inverse entry could not be applied")

// Log is the append-only journal. Entries are stored oldest-first; Rewind
// pops from the end.
type Log struct {
	entries []Entry
}

// NewLog returns an empty log.
func NewLog() *Log { return &Log{} }

// Append records e. Callers append the inverse *before* performing the
// forward mutation (spec §4.D contract).
func (l *Log) Append(e Entry) { l.entries = append(l.entries, e) }

// Len returns the number of entries currently in the log.
func (l *Log) Len() int { return len(l.entries) }

// ChoiceCount returns the number of ChoicePoint entries in the log,
// i.e. how many controller decisions have been externalized so far —
// what `stop-every` (spec.md §6) counts against.
func (l *Log) ChoiceCount() int {
	n := 0
	for _, e := range l.entries {
		if e.Kind == ChoicePoint {
			n++
		}
	}
	return n
}

// Rewind reverses the last n entries against m, applying each entry's
// inverse in reverse (most-recent-first) order. Rewinding past the start
// of the log is not an error — it simply stops at zero (spec §4.D
// "rewind on an empty log is a no-op").
func (l *Log) Rewind(n int, m Mutator) error {
	for i := 0; i < n && len(l.entries) > 0; i++ {
		e := l.entries[len(l.entries)-1]
		l.entries = l.entries[:len(l.entries)-1]
		if err := applyInverse(e, m); err != nil {
			return errors.Wrapf(errCorruptLog, "entry %d (%v): %v", l.Len(), e.Kind, err)
		}
	}
	return nil
}

// RewindToTurnStart pops entries back until the most recent TurnMarker
// (exclusive — the marker itself is consumed), applying inverses along the
// way, and returns the ChoicePoint entries it passed over in chronological
// (forward) order — the turn's full choice history, ready to hand to
// Snapshot/Replay (spec §4.D/§4.I).
func (l *Log) RewindToTurnStart(m Mutator) ([]ReplayChoice, error) {
	var reversed []ReplayChoice
	for len(l.entries) > 0 {
		e := l.entries[len(l.entries)-1]
		l.entries = l.entries[:len(l.entries)-1]
		if e.Kind == TurnMarker {
			break
		}
		if e.Kind == ChoicePoint {
			reversed = append(reversed, e.Choice)
		}
		if err := applyInverse(e, m); err != nil {
			return nil, errors.Wrapf(errCorruptLog, "entry %d (%v): %v", l.Len(), e.Kind, err)
		}
	}
	choices := make([]ReplayChoice, len(reversed))
	for i, c := range reversed {
		choices[len(reversed)-1-i] = c
	}
	return choices, nil
}

func applyInverse(e Entry, m Mutator) error {
	switch e.Kind {
	case MoveCard:
		return m.UndoMoveCard(e)
	case SetTapped:
		m.UndoSetTapped(e)
	case AddCounterEntry:
		m.UndoAddCounter(e)
	case SetLife:
		m.UndoSetLife(e)
	case MoveMana:
		m.UndoMoveMana(e)
	case SetPhaseStep:
		m.UndoSetPhaseStep(e)
	case SetActivePlayer:
		m.UndoSetActivePlayer(e)
	case SetPriorityHolder:
		m.UndoSetPriorityHolder(e)
	case PushStackEntry:
		m.UndoPushStack(e)
	case PopStackEntry:
		m.UndoPopStack(e)
	case DrawCardEntry:
		return m.UndoDrawCard(e)
	case ChangeTurn:
		m.UndoChangeTurn(e)
	case SetDamageMarked:
		m.UndoSetDamageMarked(e)
	case EmptyManaEntry:
		m.UndoEmptyMana(e)
	case ChoicePoint, TurnMarker:
		// breadcrumbs; never mutate state themselves (spec §4.D).
	}
	return nil
}

// Dump renders the log's current entries with go-spew, for inspecting a
// corrupt-log panic by hand.
func (l *Log) Dump() string {
	return spew.Sdump(l.entries)
}
