package zone

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtgsim/mtgsim/internal/handle"
	"github.com/mtgsim/mtgsim/pkg/types"
)

func TestMoveTransfersBetweenPerPlayerZones(t *testing.T) {
	s := NewStore()
	id := handle.Handle{Index: 1, Gen: 1}
	s.Append(types.Library, types.PlayerA, id)
	require.Equal(t, 1, s.Count(types.Library, types.PlayerA))

	err := s.Move(types.Library, types.PlayerA, types.Hand, types.PlayerA, id)
	require.NoError(t, err)
	require.Equal(t, 0, s.Count(types.Library, types.PlayerA))
	require.Equal(t, []types.CardId{id}, s.Cards(types.Hand, types.PlayerA))
}

func TestMoveIntoSharedZoneIgnoresOwner(t *testing.T) {
	s := NewStore()
	id := handle.Handle{Index: 2, Gen: 1}
	s.Append(types.Hand, types.PlayerB, id)

	err := s.Move(types.Hand, types.PlayerB, types.Stack, types.PlayerB, id)
	require.NoError(t, err)
	require.Equal(t, []types.CardId{id}, s.Cards(types.Stack, types.PlayerA))
	require.Equal(t, []types.CardId{id}, s.Cards(types.Stack, types.PlayerB))
}

func TestRemoveMissingCardErrors(t *testing.T) {
	s := NewStore()
	err := s.Remove(types.Battlefield, types.PlayerA, handle.Handle{Index: 9, Gen: 1})
	require.Error(t, err)
}

func TestPushPutsCardOnTop(t *testing.T) {
	s := NewStore()
	bottom := handle.Handle{Index: 1, Gen: 1}
	top := handle.Handle{Index: 2, Gen: 1}
	s.Append(types.Library, types.PlayerA, bottom)
	s.Push(types.Library, types.PlayerA, top)

	got, ok := s.Top(types.Library, types.PlayerA)
	require.True(t, ok)
	require.Equal(t, top, got)
}

func TestMoveToFrontPutsCardOnTopOfDestination(t *testing.T) {
	s := NewStore()
	keep := handle.Handle{Index: 1, Gen: 1}
	moved := handle.Handle{Index: 2, Gen: 1}
	s.Append(types.Library, types.PlayerA, keep)
	s.Append(types.Hand, types.PlayerA, moved)

	err := s.MoveToFront(types.Hand, types.PlayerA, types.Library, types.PlayerA, moved)
	require.NoError(t, err)
	got, ok := s.Top(types.Library, types.PlayerA)
	require.True(t, ok)
	require.Equal(t, moved, got)
	require.Equal(t, []types.CardId{moved, keep}, s.Cards(types.Library, types.PlayerA))
}

func TestFindLocatesCardAcrossZones(t *testing.T) {
	s := NewStore()
	id := handle.Handle{Index: 3, Gen: 1}
	s.Append(types.Graveyard, types.PlayerB, id)

	kind, owner, found := s.Find(id)
	require.True(t, found)
	require.Equal(t, types.Graveyard, kind)
	require.Equal(t, types.PlayerB, owner)
}
