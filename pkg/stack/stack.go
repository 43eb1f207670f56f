// Package stack implements the Stack & Resolution component (spec
// component F): a LIFO of spells/abilities with real target-legality
// re-checking at resolution time, generalized from the teacher's
// pkg/ability/stack.go (whose checkFizzle was a stub that always
// returned false).
package stack

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/state"
	"github.com/mtgsim/mtgsim/pkg/types"
)

var errStackEmpty = errors.New("cannot resolve an empty stack")

// ObjectKind distinguishes a spell from an activated/triggered ability on
// the stack (spec §3 StackObject).
type ObjectKind int

const (
	SpellObject ObjectKind = iota
	AbilityObject
)

// Target is one chosen target of a StackObject: either a card/permanent or
// a player, never both.
type Target struct {
	Card     types.CardId
	Player   types.PlayerId
	IsPlayer bool
}

// Object is a spell or ability sitting on the stack (spec §3 StackObject):
// source, controller, chosen targets, and the already-structured effects
// that run when it resolves.
type Object struct {
	ID           types.StackObjectId
	InstanceTag  uuid.UUID // correlates log lines for this specific cast/activation, independent of Handle reuse
	Kind         ObjectKind
	Source       types.CardId
	AbilityIndex int // index into Source's CardDefinition.Abilities; -1 for a cast spell's own effects
	Controller   types.PlayerId
	Targets      []Target
	TargetSpecs  []card.TargetSpec
	Effects      []card.EffectSpec
	Countered    bool
}

// Stack is the LIFO discipline of spells/abilities (spec §4.F).
type Stack struct {
	objects []*Object
	nextID  uint32
}

// New returns an empty stack.
func New() *Stack { return &Stack{nextID: 1} }

// Push adds obj to the top of the stack, assigning it a fresh identity if
// it doesn't already have one. StackObject identity never needs to be
// freed/reused like a Card handle's, so a monotonic counter (rather than a
// full generation-tagged arena) is enough.
func (s *Stack) Push(obj *Object) {
	if obj.ID == (types.StackObjectId{}) {
		obj.ID = types.StackObjectId{Index: s.nextID, Gen: 1}
		s.nextID++
	}
	if obj.InstanceTag == uuid.Nil {
		obj.InstanceTag = uuid.New()
	}
	s.objects = append(s.objects, obj)
}

// Pop removes and returns the top object, or nil if the stack is empty.
func (s *Stack) Pop() *Object {
	if len(s.objects) == 0 {
		return nil
	}
	top := s.objects[len(s.objects)-1]
	s.objects = s.objects[:len(s.objects)-1]
	return top
}

// Peek returns the top object without removing it.
func (s *Stack) Peek() *Object {
	if len(s.objects) == 0 {
		return nil
	}
	return s.objects[len(s.objects)-1]
}

// Size returns the number of objects on the stack.
func (s *Stack) Size() int { return len(s.objects) }

// IsEmpty reports whether the stack has no objects.
func (s *Stack) IsEmpty() bool { return len(s.objects) == 0 }

// Objects returns the stack's contents bottom-to-top.
func (s *Stack) Objects() []*Object {
	out := make([]*Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Restore replaces the stack's contents with objects (bottom-to-top,
// typically nil — spec §4.I's snapshot never serializes live stack
// objects, since replaying the choices that cast/activated them
// regenerates the same objects) and advances nextID past the highest id
// among them, so a subsequently pushed object never collides with one
// restored from a snapshot.
func (s *Stack) Restore(objects []*Object) {
	s.objects = append([]*Object(nil), objects...)
	for _, o := range objects {
		if o.ID.Index >= s.nextID {
			s.nextID = o.ID.Index + 1
		}
	}
}

// RemoveByID removes and returns the object with id, searching from the
// top down (the common case: undoing the most recent push). Returns nil
// if no such object is on the stack.
func (s *Stack) RemoveByID(id types.StackObjectId) *Object {
	for i := len(s.objects) - 1; i >= 0; i-- {
		if s.objects[i].ID == id {
			obj := s.objects[i]
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return obj
		}
	}
	return nil
}

// Counter marks the object with id as countered; it is removed without
// effect the next time it would resolve.
func (s *Stack) Counter(id types.StackObjectId) error {
	for _, obj := range s.objects {
		if obj.ID == id {
			obj.Countered = true
			return nil
		}
	}
	return errors.New("stack object not found")
}

// Resolution is the outcome of popping and checking the top object, ready
// for the Executor to apply (or skip, if fizzled/countered).
type Resolution struct {
	Object        *Object
	Fizzled       bool
	LegalTargets  []Target // the subset of Object.Targets still legal; effects apply only to these
}

// ResolveTop pops the top object and determines its fate against g: a
// countered object resolves to no effect; a spell/ability whose targets
// are *all* now illegal fizzles entirely (spec §4.F); one with a mix of
// legal and illegal targets still resolves, but only against the targets
// that remain legal.
func (s *Stack) ResolveTop(g *state.GameState) (*Resolution, error) {
	obj := s.Pop()
	if obj == nil {
		return nil, errStackEmpty
	}
	if obj.Countered {
		return &Resolution{Object: obj}, nil
	}
	if len(obj.Targets) == 0 {
		return &Resolution{Object: obj, LegalTargets: nil}, nil
	}

	legal := make([]Target, 0, len(obj.Targets))
	for i, t := range obj.Targets {
		spec := card.TargetSpec{}
		if i < len(obj.TargetSpecs) {
			spec = obj.TargetSpecs[i]
		}
		if targetStillLegal(g, t, spec) {
			legal = append(legal, t)
		}
	}
	if len(legal) == 0 {
		return &Resolution{Object: obj, Fizzled: true}, nil
	}
	return &Resolution{Object: obj, LegalTargets: legal}, nil
}

func targetStillLegal(g *state.GameState, t Target, spec card.TargetSpec) bool {
	if t.IsPlayer {
		return spec.Kind == card.TargetPlayer || spec.Kind == card.TargetAny || spec.Kind == card.TargetNone
	}

	c, err := g.Card(t.Card)
	if err != nil {
		return false
	}
	switch spec.Kind {
	case card.TargetCreature:
		return c.Zone == types.Battlefield && c.Def.IsCreature()
	case card.TargetPermanent:
		return c.Zone == types.Battlefield
	case card.TargetSpellOnStack:
		return c.Zone == types.Stack
	case card.TargetAny, card.TargetNone:
		return true
	default:
		return true
	}
}
