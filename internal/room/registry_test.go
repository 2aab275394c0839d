package room

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateRejectsEmptyName(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Create("r1", "   ")
	require.ErrorIs(t, err, ErrInvalidName)
	require.Empty(t, reg.List())
}

func TestRegistry_ByMember(t *testing.T) {
	reg := NewRegistry()
	r1, err := reg.Create("r1", "primera")
	require.NoError(t, err)
	r2, err := reg.Create("r2", "segona")
	require.NoError(t, err)

	require.NoError(t, r1.AddPlayer(&Player{ID: "a"}))
	require.NoError(t, r2.AddPlayer(&Player{ID: "b"}))
	r2.ToSpectator("s", "spec", "")

	got, ok := reg.ByMember("a")
	require.True(t, ok)
	require.Equal(t, "r1", got.ID)

	got, ok = reg.ByMember("s")
	require.True(t, ok)
	require.Equal(t, "r2", got.ID)

	_, ok = reg.ByMember("ghost")
	require.False(t, ok)
}

func TestRegistry_ListSnapshot(t *testing.T) {
	reg := NewRegistry()
	r, err := reg.Create("r1", "sala")
	require.NoError(t, err)
	require.NoError(t, r.AddPlayer(&Player{ID: "a", Ready: true}))
	require.NoError(t, r.AddPlayer(&Player{ID: "b", Ready: true}))
	r.ToSpectator("s", "spec", "")
	r.Start(ModeTimeAttack, nil, 5, 2000, 30, 1)

	list := reg.List()
	require.Len(t, list, 1)
	require.Equal(t, Summary{
		ID:             "r1",
		Name:           "sala",
		Count:          2,
		SpectatorCount: 1,
		Mode:           ModeTimeAttack,
		InGame:         true,
	}, list[0])

	r.End()
	require.False(t, reg.List()[0].InGame, "ended rooms are no longer in game")
}

func TestRegistry_Remove(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Create("r1", "sala")
	require.NoError(t, err)
	reg.Remove("r1")
	_, ok := reg.Get("r1")
	require.False(t, ok)
	require.Empty(t, reg.List())
}

func TestIdentities_OverwriteNotMerge(t *testing.T) {
	ids := NewIdentities()
	ids.Set("c1", "Anna", "#f00")
	ids.Set("c1", "Berta", "")

	got, ok := ids.Get("c1")
	require.True(t, ok)
	require.Equal(t, Identity{Name: "Berta", Color: ""}, got)
}
