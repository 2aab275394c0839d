package room

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func addPlayers(t *testing.T, r *Room, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, r.AddPlayer(&Player{ID: id, Name: "p-" + id}))
	}
}

func TestAddPlayer_FirstBecomesHost(t *testing.T) {
	r := New("r1", "sala")
	addPlayers(t, r, "a", "b")
	require.Equal(t, "a", r.HostID)
}

func TestAddPlayer_RejectedAfterStart(t *testing.T) {
	r := New("r1", "sala")
	addPlayers(t, r, "a", "b")
	r.Start(ModeNormal, map[string][]string{}, 5, 2000, 0, 1)

	err := r.AddPlayer(&Player{ID: "c"})
	require.ErrorIs(t, err, ErrGameAlreadyStarted)
}

func TestRemoveMember_HostMigratesInInsertionOrder(t *testing.T) {
	r := New("r1", "sala")
	addPlayers(t, r, "a", "b", "c")

	require.True(t, r.RemoveMember("a"))
	require.Equal(t, "b", r.HostID)
	require.Contains(t, []string{"b", "c"}, r.HostID)

	r.RemoveMember("b")
	require.Equal(t, "c", r.HostID)

	r.RemoveMember("c")
	require.Equal(t, "", r.HostID)
	require.True(t, r.Empty())
}

func TestRemoveMember_NonHostKeepsHost(t *testing.T) {
	r := New("r1", "sala")
	addPlayers(t, r, "a", "b", "c")
	r.RemoveMember("b")
	require.Equal(t, "a", r.HostID)
}

func TestCanStart_Gates(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(r *Room)
		caller  string
		wantErr error
	}{
		{
			name:    "non-host rejected",
			setup:   func(r *Room) { addPlayers(t, r, "a", "b") },
			caller:  "b",
			wantErr: ErrNotHost,
		},
		{
			name:    "single player rejected",
			setup:   func(r *Room) { addPlayers(t, r, "a") },
			caller:  "a",
			wantErr: ErrNotEnoughPlayers,
		},
		{
			name: "not all ready rejected",
			setup: func(r *Room) {
				addPlayers(t, r, "a", "b")
				p, _ := r.Player("a")
				p.Ready = true
			},
			caller:  "a",
			wantErr: ErrNotAllReady,
		},
		{
			name: "already started rejected",
			setup: func(r *Room) {
				addPlayers(t, r, "a", "b")
				for _, p := range r.Players() {
					p.Ready = true
				}
				r.Start(ModeNormal, nil, 5, 2000, 0, 1)
			},
			caller:  "a",
			wantErr: ErrGameAlreadyStarted,
		},
		{
			name: "all gates pass",
			setup: func(r *Room) {
				addPlayers(t, r, "a", "b")
				for _, p := range r.Players() {
					p.Ready = true
				}
			},
			caller:  "a",
			wantErr: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := New("r1", "sala")
			tc.setup(r)
			err := r.CanStart(tc.caller)
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestEliminateAndFinish_AreTerminal(t *testing.T) {
	r := New("r1", "sala")
	addPlayers(t, r, "a", "b")

	require.True(t, r.Eliminate("a"))
	require.False(t, r.Eliminate("a"), "double elimination must no-op")
	require.False(t, r.Finish("a"), "eliminated player cannot finish")

	require.True(t, r.Finish("b"))
	require.False(t, r.Eliminate("b"), "finished player cannot be eliminated")
}

func TestActivePlayers_ExcludesEliminatedOnly(t *testing.T) {
	r := New("r1", "sala")
	addPlayers(t, r, "a", "b", "c")
	r.Eliminate("b")
	r.Finish("c")

	active := r.ActivePlayers()
	require.Len(t, active, 2)
	require.Equal(t, "a", active[0].ID)
	require.Equal(t, "c", active[1].ID)
}

func TestEnd_IsAOneWayLatch(t *testing.T) {
	r := New("r1", "sala")
	addPlayers(t, r, "a", "b")

	require.False(t, r.End(), "cannot end before start")

	r.Start(ModeNormal, nil, 5, 2000, 0, 1)
	require.True(t, r.End())
	require.False(t, r.End(), "second end must lose the race")
}

func TestRank_ByWordsThenErrors(t *testing.T) {
	r := New("r1", "sala")
	addPlayers(t, r, "a", "b", "c", "d")

	pa, _ := r.Player("a")
	pb, _ := r.Player("b")
	pc, _ := r.Player("c")
	pa.CompletedWords, pa.TotalErrors = 10, 4
	pb.CompletedWords, pb.TotalErrors = 12, 9
	pc.CompletedWords, pc.TotalErrors = 10, 2
	r.Eliminate("d")

	ranked := r.Rank()
	require.Len(t, ranked, 3)
	require.Equal(t, "b", ranked[0].ID)
	require.Equal(t, "c", ranked[1].ID, "tie on words broken by fewer errors")
	require.Equal(t, "a", ranked[2].ID)
}

func TestToSpectator_PreservesIdentity(t *testing.T) {
	r := New("r1", "sala")
	addPlayers(t, r, "a", "b")
	p, _ := r.Player("a")
	p.Name, p.Color = "Anna", "#ff0000"

	s := r.ToSpectator("a", "fallback", "#000")
	require.Equal(t, "Anna", s.Name)
	require.Equal(t, "#ff0000", s.Color)

	_, stillPlayer := r.Player("a")
	require.False(t, stillPlayer)
	require.True(t, r.IsMember("a"))
	require.Equal(t, "b", r.HostID, "host moved off the spectating player")
}

func TestToSpectator_IsIdempotent(t *testing.T) {
	r := New("r1", "sala")
	addPlayers(t, r, "a", "b")
	first := r.ToSpectator("a", "x", "y")
	second := r.ToSpectator("a", "other", "other")
	require.Same(t, first, second)
}

func TestTransferHost(t *testing.T) {
	r := New("r1", "sala")
	addPlayers(t, r, "a", "b")

	require.NoError(t, r.TransferHost("b"))
	require.Equal(t, "b", r.HostID)

	require.ErrorIs(t, r.TransferHost("ghost"), ErrNotAMember)
	require.Equal(t, "b", r.HostID)
}
