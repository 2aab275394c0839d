package room

import (
	"sort"
	"time"
)

type Mode string

const (
	ModeNormal      Mode = "normal"
	ModeTimeAttack  Mode = "contrarellotge"
	ModeSuddenDeath Mode = "muerteSubita"
)

// ParseMode maps a wire value to a Mode, defaulting to normal.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeTimeAttack, ModeSuddenDeath:
		return Mode(s)
	default:
		return ModeNormal
	}
}

// GameState holds per-room session state. Started and Ended are both
// monotonic for the lifetime of the room.
type GameState struct {
	Started    bool
	Ended      bool
	Mode       Mode
	Assignment map[string][]string
	// Remaining counts words left per player, decremented on completeWord.
	Remaining  map[string]int
	MaxStack   int
	IntervalMs int
	Duration   int
	Deadline   time.Time
}

func newGameState() GameState {
	return GameState{Mode: ModeNormal}
}

// CanStart checks the three independent start preconditions. The returned
// error tells the caller which gate failed; only ErrNotEnoughPlayers is ever
// surfaced to the client.
func (r *Room) CanStart(callerID string) error {
	if callerID != r.HostID {
		return ErrNotHost
	}
	if r.Game.Started {
		return ErrGameAlreadyStarted
	}
	if len(r.players) < 2 {
		return ErrNotEnoughPlayers
	}
	for _, p := range r.players {
		if !p.Ready {
			return ErrNotAllReady
		}
	}
	return nil
}

// Start flips the room into InProgress with the given word assignment.
// Callers must have passed CanStart.
func (r *Room) Start(mode Mode, assignment map[string][]string, maxStack, intervalMs, duration int, lives int) {
	r.Game.Started = true
	r.Game.Mode = mode
	r.Game.Assignment = assignment
	r.Game.MaxStack = maxStack
	r.Game.IntervalMs = intervalMs
	r.Game.Remaining = make(map[string]int, len(assignment))
	for id, list := range assignment {
		r.Game.Remaining[id] = len(list)
	}
	if mode == ModeTimeAttack {
		r.Game.Duration = duration
		r.Game.Deadline = time.Now().Add(time.Duration(duration) * time.Second)
	}
	if mode == ModeSuddenDeath {
		for _, p := range r.players {
			p.Lives = lives
		}
	}
}

// Eliminate marks the player eliminated. Returns false if the player is
// unknown or already terminal, so callers never double-notify.
func (r *Room) Eliminate(id string) bool {
	p, ok := r.players[id]
	if !ok || p.Terminal() {
		return false
	}
	p.Eliminated = true
	return true
}

// Finish marks the player finished (all assigned words completed).
func (r *Room) Finish(id string) bool {
	p, ok := r.players[id]
	if !ok || p.Terminal() {
		return false
	}
	p.Finished = true
	return true
}

// ActivePlayers returns the non-eliminated players in insertion order.
// Finished players count as active: they are still in contention.
func (r *Room) ActivePlayers() []*Player {
	var out []*Player
	for _, id := range r.order {
		if p := r.players[id]; !p.Eliminated {
			out = append(out, p)
		}
	}
	return out
}

// Rank orders the non-eliminated players by completed words (desc), ties
// broken by fewer total errors. Used by the time-attack deadline to pick a
// winner.
func (r *Room) Rank() []*Player {
	ranked := r.ActivePlayers()
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].CompletedWords != ranked[j].CompletedWords {
			return ranked[i].CompletedWords > ranked[j].CompletedWords
		}
		return ranked[i].TotalErrors < ranked[j].TotalErrors
	})
	return ranked
}

// End latches the room into the Ended state. The first caller gets true and
// owns the single gameOver emission; every later caller gets false.
func (r *Room) End() bool {
	if !r.Game.Started || r.Game.Ended {
		return false
	}
	r.Game.Ended = true
	return true
}
