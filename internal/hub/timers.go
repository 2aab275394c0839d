package hub

import (
	"math"
	"time"

	"github.com/oriolripoll/typeracer-backend/internal/protocol"
	"github.com/oriolripoll/typeracer-backend/internal/room"
	"github.com/oriolripoll/typeracer-backend/internal/words"
)

// tickPeriod is how often remaining time is pushed to a time-attack room.
const tickPeriod = 500 * time.Millisecond

// roomTimers holds the two schedules a time-attack room owns: the one-shot
// deadline and the repeating progress tick. Both fire by posting messages
// back onto the hub inbox, so their handlers run interleaved with, never
// concurrent to, client messages.
type roomTimers struct {
	deadline    *time.Timer
	stopTick    chan struct{}
	tickStopped bool
}

func (h *Hub) armTimeAttack(roomID string, d time.Duration) {
	t := &roomTimers{
		deadline: time.AfterFunc(d, func() { h.post(deadlineFired{RoomID: roomID}) }),
		stopTick: make(chan struct{}),
	}
	h.timers[roomID] = t

	go func() {
		ticker := time.NewTicker(tickPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-t.stopTick:
				return
			case <-h.ctx.Done():
				return
			case <-ticker.C:
				h.post(tickFired{RoomID: roomID})
			}
		}
	}()
}

// post enqueues a timer message without blocking shutdown.
func (h *Hub) post(m Msg) {
	select {
	case h.inbox <- m:
	case <-h.ctx.Done():
	}
}

func (h *Hub) stopTickLoop(roomID string) {
	t, ok := h.timers[roomID]
	if !ok || t.tickStopped {
		return
	}
	close(t.stopTick)
	t.tickStopped = true
}

func (h *Hub) stopTimers(roomID string) {
	t, ok := h.timers[roomID]
	if !ok {
		return
	}
	t.deadline.Stop()
	h.stopTickLoop(roomID)
	delete(h.timers, roomID)
}

// handleTick broadcasts the remaining time. A tick queued for a deleted or
// ended room is a guarded no-op.
func (h *Hub) handleTick(roomID string) {
	r, ok := h.rooms.Get(roomID)
	if !ok || !r.Game.Started || r.Game.Ended {
		return
	}
	left := time.Until(r.Game.Deadline)
	if left <= 0 {
		// deadline handler owns the ending; the tick just self-cancels
		h.stopTickLoop(roomID)
		return
	}
	h.broadcast(r, protocol.TimeLeftUpdate{
		Type:     protocol.EvtTimeLeftUpdate,
		TimeLeft: int(math.Ceil(left.Seconds())),
	})
}

// handleDeadline ends a time-attack game, ranking the surviving players by
// completed words, ties broken by fewer errors. The End latch keeps this
// from double-firing against an elimination-driven ending.
func (h *Hub) handleDeadline(roomID string) {
	r, ok := h.rooms.Get(roomID)
	if !ok {
		return
	}
	if !r.End() {
		return
	}
	h.stopTimers(r.ID)

	over := protocol.GameOver{Type: protocol.EvtGameOver, Message: "time is up, nobody won"}
	winnerID := ""
	if ranked := r.Rank(); len(ranked) > 0 {
		winner := ranked[0]
		winnerID = winner.ID
		over.WinnerID = winner.ID
		over.WinnerName = winner.Name
		over.Message = winner.Name + " won on words completed"
	}
	h.broadcast(r, over)
	h.broadcastPlayerList(r)
	h.publisher.GameEnded(r.ID, winnerID)
}

func (h *Hub) assignWords(r *room.Room) map[string][]string {
	return words.Assign(h.corpus, r.PlayerIDs(), h.rng)
}
