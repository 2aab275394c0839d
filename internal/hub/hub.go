// Package hub runs the single event loop that owns all game state. Every
// inbound client message, timer fire and connection lifecycle change is a
// typed message on one inbox channel, processed to completion before the
// next, so room mutations never race each other.
package hub

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/oriolripoll/typeracer-backend/internal/events"
	"github.com/oriolripoll/typeracer-backend/internal/protocol"
	"github.com/oriolripoll/typeracer-backend/internal/room"
)

type Msg interface{ isHubMsg() }

// Connected registers a live connection and the outbox its writer drains.
type Connected struct {
	ID     string
	Outbox chan []byte
}

// Disconnected is posted by the transport when a connection dies. Handled
// identically to an explicit leaveRoom.
type Disconnected struct{ ID string }

// FromClient carries one decoded inbound message.
type FromClient struct {
	ID  string
	Msg protocol.ClientMessage
}

type Shutdown struct{}

// tickFired and deadlineFired are posted by time-attack timer goroutines.
// They carry only the room id: the handler re-checks room existence because
// the room may be gone by the time the message is dequeued.
type tickFired struct{ RoomID string }

type deadlineFired struct{ RoomID string }

// Inspect reflects internal state without data races. Test-only.
type Inspect struct {
	RoomID string
	Reply  chan View
}

type View struct {
	NumClients int
	Rooms      []room.Summary
	RoomExists bool
	HostID     string
	Started    bool
	Ended      bool
	Mode       room.Mode
	PlayerIDs  []string
	Eliminated map[string]bool
	Finished   map[string]bool
}

func (Connected) isHubMsg()     {}
func (Disconnected) isHubMsg()  {}
func (FromClient) isHubMsg()    {}
func (Shutdown) isHubMsg()      {}
func (tickFired) isHubMsg()     {}
func (deadlineFired) isHubMsg() {}
func (Inspect) isHubMsg()       {}

// Options carries the pacing constants handed to clients on game start.
type Options struct {
	MaxStack         int
	IntervalMs       int
	SuddenDeathLives int
	DefaultDuration  int
}

func (o *Options) fillDefaults() {
	if o.MaxStack <= 0 {
		o.MaxStack = 5
	}
	if o.IntervalMs <= 0 {
		o.IntervalMs = 2000
	}
	if o.SuddenDeathLives <= 0 {
		o.SuddenDeathLives = 1
	}
	if o.DefaultDuration <= 0 {
		o.DefaultDuration = 60
	}
}

type Hub struct {
	inbox      chan Msg
	clients    map[string]chan []byte
	rooms      *room.Registry
	identities *room.Identities
	timers     map[string]*roomTimers
	corpus     []string
	rng        *rand.Rand
	opts       Options
	publisher  events.Publisher
	logger     *zap.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewHub(parent context.Context, logger *zap.Logger, corpus []string, publisher events.Publisher, opts Options) *Hub {
	ctx, cancel := context.WithCancel(parent)
	opts.fillDefaults()
	if publisher == nil {
		publisher = events.Nop{}
	}
	h := &Hub{
		inbox:      make(chan Msg, 256),
		clients:    make(map[string]chan []byte),
		rooms:      room.NewRegistry(),
		identities: room.NewIdentities(),
		timers:     make(map[string]*roomTimers),
		corpus:     corpus,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		opts:       opts,
		publisher:  publisher,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- Msg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Connected:
				h.clients[msg.ID] = msg.Outbox

			case Disconnected:
				delete(h.clients, msg.ID)
				h.leaveCurrentRoom(msg.ID)

			case FromClient:
				h.dispatch(msg.ID, msg.Msg)

			case tickFired:
				h.handleTick(msg.RoomID)

			case deadlineFired:
				h.handleDeadline(msg.RoomID)

			case Inspect:
				msg.Reply <- h.view(msg.RoomID)

			case Shutdown:
				h.shutdown()
				h.cancel()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for id, ch := range h.clients {
		close(ch)
		delete(h.clients, id)
	}
	for id := range h.timers {
		h.stopTimers(id)
	}
}

func (h *Hub) view(roomID string) View {
	v := View{
		NumClients: len(h.clients),
		Rooms:      h.rooms.List(),
	}
	r, ok := h.rooms.Get(roomID)
	if !ok {
		return v
	}
	v.RoomExists = true
	v.HostID = r.HostID
	v.Started = r.Game.Started
	v.Ended = r.Game.Ended
	v.Mode = r.Game.Mode
	v.PlayerIDs = r.PlayerIDs()
	v.Eliminated = make(map[string]bool)
	v.Finished = make(map[string]bool)
	for _, p := range r.Players() {
		v.Eliminated[p.ID] = p.Eliminated
		v.Finished[p.ID] = p.Finished
	}
	return v
}

// send delivers an encoded frame to one connection. A full outbox means the
// client stopped draining; the channel is closed so its writer tears the
// connection down, and the eventual Disconnected message cleans up room
// membership.
func (h *Hub) send(connID string, payload []byte) {
	ch, ok := h.clients[connID]
	if !ok {
		return
	}
	select {
	case ch <- payload:
	default:
		h.logger.Warn("dropping slow client", zap.String("connId", connID))
		close(ch)
		delete(h.clients, connID)
	}
}

func (h *Hub) sendEvent(connID string, v any) {
	payload, err := protocol.Encode(v)
	if err != nil {
		h.logger.Error("could not encode event", zap.Error(err))
		return
	}
	h.send(connID, payload)
}

// broadcast multicasts one event to every member of the room.
func (h *Hub) broadcast(r *room.Room, v any) {
	payload, err := protocol.Encode(v)
	if err != nil {
		h.logger.Error("could not encode event", zap.Error(err))
		return
	}
	for _, id := range r.MemberIDs() {
		h.send(id, payload)
	}
}

func (h *Hub) broadcastPlayerList(r *room.Room) {
	list := protocol.PlayerList{
		Type:       protocol.EvtUpdatePlayerList,
		Players:    make([]protocol.PlayerView, 0, len(r.PlayerIDs())),
		Spectators: make([]protocol.SpectatorView, 0),
		HostID:     r.HostID,
		Modo:       string(r.Game.Mode),
	}
	for _, p := range r.Players() {
		list.Players = append(list.Players, protocol.PlayerView{
			ID:                  p.ID,
			Name:                p.Name,
			Color:               p.Color,
			Ready:               p.Ready,
			Eliminated:          p.Eliminated,
			Finished:            p.Finished,
			CompletedWords:      p.CompletedWords,
			TotalErrors:         p.TotalErrors,
			CurrentWordProgress: p.CurrentWordProgress,
			WordStack:           p.WordStack,
			Lives:               p.Lives,
		})
	}
	for _, s := range r.Spectators() {
		list.Spectators = append(list.Spectators, protocol.SpectatorView{
			ID: s.ID, Name: s.Name, Color: s.Color,
		})
	}
	h.broadcast(r, list)
}

// leaveCurrentRoom removes the connection from whichever room holds it,
// deleting the room once the last member is gone.
func (h *Hub) leaveCurrentRoom(connID string) bool {
	r, ok := h.rooms.ByMember(connID)
	if !ok {
		return false
	}
	r.RemoveMember(connID)
	if r.Empty() {
		h.stopTimers(r.ID)
		h.rooms.Remove(r.ID)
		h.logger.Info("room deleted", zap.String("roomId", r.ID))
		return true
	}
	h.broadcastPlayerList(r)
	return true
}

// RoomSummaries exposes the registry snapshot to the HTTP layer through the
// loop, keeping single-owner semantics.
func (h *Hub) RoomSummaries(ctx context.Context) []room.Summary {
	reply := make(chan View, 1)
	select {
	case h.inbox <- Inspect{Reply: reply}:
	case <-ctx.Done():
		return nil
	case <-h.ctx.Done():
		return nil
	}
	select {
	case v := <-reply:
		return v.Rooms
	case <-ctx.Done():
		return nil
	}
}
