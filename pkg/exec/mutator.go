package exec

import (
	"github.com/mtgsim/mtgsim/pkg/stack"
	"github.com/mtgsim/mtgsim/pkg/state"
	"github.com/mtgsim/mtgsim/pkg/undo"
)

// stackMutator wraps a GameState's own undo.Mutator with knowledge of the
// live stack.Stack, so rewinding a PushStackEntry/PopStackEntry reverses
// the real *stack.Object data in stack.Stack.objects, not just the
// GameState.Stack id mirror. GameState can't do this itself: stack.Stack
// already imports pkg/state, so pkg/state importing pkg/stack back would
// cycle. pkg/exec holds both and sits above the cycle.
type stackMutator struct {
	*state.GameState
	stk *stack.Stack
}

// NewMutator returns the undo.Mutator general-purpose Rewind/
// RewindToTurnStart callers should use whenever the live stack.Stack is
// in scope, so a rewound cast/activation is reversed on both the id
// mirror and the real stack object.
func NewMutator(g *state.GameState, stk *stack.Stack) undo.Mutator {
	return &stackMutator{GameState: g, stk: stk}
}

func (m *stackMutator) UndoPushStack(e undo.Entry) {
	m.GameState.UndoPushStack(e)
	m.stk.RemoveByID(e.StackObject)
}

func (m *stackMutator) UndoPopStack(e undo.Entry) {
	m.GameState.UndoPopStack(e)
	if obj, ok := e.StackObj.(*stack.Object); ok && obj != nil {
		m.stk.Push(obj)
	}
}
