package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRooms_JoinIsIdempotent(t *testing.T) {
	r := NewRooms()
	sub := newFakeSub("c1", "u1")

	r.Join(sub, "conv")
	r.Join(sub, "conv")

	require.Len(t, r.Members("conv"), 1)
	require.Equal(t, []string{"conv"}, r.RoomsOf("c1"))
}

func TestRooms_LeaveNonMemberIsNoop(t *testing.T) {
	r := NewRooms()
	sub := newFakeSub("c1", "u1")
	r.Join(sub, "conv")

	r.Leave("c2", "conv")
	r.Leave("c1", "other")

	require.Len(t, r.Members("conv"), 1)

	r.Leave("c1", "conv")
	require.Empty(t, r.Members("conv"))
	require.Empty(t, r.RoomsOf("c1"))
}

func TestRooms_LeaveAll(t *testing.T) {
	r := NewRooms()
	c1 := newFakeSub("c1", "u1")
	c2 := newFakeSub("c2", "u2")

	r.Join(c1, "b")
	r.Join(c1, "a")
	r.Join(c2, "a")

	require.Equal(t, []string{"a", "b"}, r.LeaveAll("c1"))
	require.Empty(t, r.RoomsOf("c1"))
	require.Empty(t, r.Members("b"))
	require.Len(t, r.Members("a"), 1)
	require.Equal(t, "c2", r.Members("a")[0].ID())

	require.Empty(t, r.LeaveAll("c1"))
}
