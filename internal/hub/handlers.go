package hub

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oriolripoll/typeracer-backend/internal/protocol"
	"github.com/oriolripoll/typeracer-backend/internal/room"
)

// startOffset gives clients time to render the countdown before racing
// begins.
const startOffset = 1500 * time.Millisecond

const defaultColor = "#cccccc"

type handlerFunc func(h *Hub, connID string, msg protocol.ClientMessage)

// handlers is the closed dispatch table: one entry per inbound message kind.
var handlers = map[protocol.InboundType]handlerFunc{
	protocol.InCreateRoom:      (*Hub).handleCreateRoom,
	protocol.InJoinRoom:        (*Hub).handleJoinRoom,
	protocol.InLeaveRoom:       (*Hub).handleLeaveRoom,
	protocol.InListRooms:       (*Hub).handleListRooms,
	protocol.InSpectateRoom:    (*Hub).handleSpectate,
	protocol.InRequestSpectate: (*Hub).handleSpectate,
	protocol.InJoin:            (*Hub).handleJoinIdentity,
	protocol.InSetPlayerName:   (*Hub).handleSetPlayerName,
	protocol.InClientReady:     (*Hub).handleClientReady,
	protocol.InStartGame:       (*Hub).handleStartGame,
	protocol.InSetRoomMode:     (*Hub).handleSetRoomMode,
	protocol.InUpdateProgress:  (*Hub).handleUpdateProgress,
	protocol.InCompleteWord:    (*Hub).handleCompleteWord,
	protocol.InPlayerLost:      (*Hub).handlePlayerLost,
	protocol.InSuddenDeathElim: (*Hub).handleSuddenDeathElim,
	protocol.InPowerupAttack:   (*Hub).handlePowerupAttack,
	protocol.InKickUser:        (*Hub).handleKickUser,
	protocol.InTransferHost:    (*Hub).handleTransferHost,
}

func (h *Hub) dispatch(connID string, msg protocol.ClientMessage) {
	fn, ok := handlers[msg.Type]
	if !ok {
		h.logger.Info("unknown message type",
			zap.String("connId", connID),
			zap.String("type", string(msg.Type)),
		)
		return
	}
	fn(h, connID, msg)
}

// newPlayer seeds a room player from the identity registry, defaulting name
// and color for connections that never introduced themselves.
func (h *Hub) newPlayer(connID string) *room.Player {
	p := &room.Player{ID: connID, Color: defaultColor}
	prefix := connID
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	p.Name = "Jugador-" + prefix
	if id, ok := h.identities.Get(connID); ok {
		if id.Name != "" {
			p.Name = id.Name
		}
		if id.Color != "" {
			p.Color = id.Color
		}
	}
	return p
}

func (h *Hub) handleCreateRoom(connID string, msg protocol.ClientMessage) {
	r, err := h.rooms.Create(uuid.NewString(), msg.Name)
	if err != nil {
		h.sendEvent(connID, protocol.JoinedRoom{
			Type: protocol.EvtJoinedRoom, Success: false, Error: "invalid room name",
		})
		return
	}
	// joining the new room implies leaving the previous one: a connection is
	// in at most one room
	h.leaveCurrentRoom(connID)
	if err := r.AddPlayer(h.newPlayer(connID)); err != nil {
		// freshly created room, cannot be started
		h.logger.Error("could not add creator to room", zap.Error(err))
		return
	}
	h.logger.Info("room created",
		zap.String("roomId", r.ID),
		zap.String("connId", connID),
	)
	h.sendEvent(connID, protocol.JoinedRoom{
		Type: protocol.EvtJoinedRoom, Success: true, RoomID: r.ID,
	})
	h.broadcastPlayerList(r)
}

func (h *Hub) handleJoinRoom(connID string, msg protocol.ClientMessage) {
	r, ok := h.rooms.Get(msg.RoomID)
	if !ok {
		h.sendEvent(connID, protocol.JoinedRoom{
			Type: protocol.EvtJoinedRoom, Success: false, Error: "room not found",
		})
		return
	}
	if r.Game.Started {
		h.sendEvent(connID, protocol.JoinedRoom{
			Type: protocol.EvtJoinedRoom, Success: false, Error: "game already started",
		})
		return
	}
	if r.IsMember(connID) {
		// rejoining the current room is a no-op, not a leave/join cycle
		h.sendEvent(connID, protocol.JoinedRoom{
			Type: protocol.EvtJoinedRoom, Success: true, RoomID: r.ID,
		})
		return
	}
	h.leaveCurrentRoom(connID)
	if err := r.AddPlayer(h.newPlayer(connID)); err != nil {
		h.sendEvent(connID, protocol.JoinedRoom{
			Type: protocol.EvtJoinedRoom, Success: false, Error: "game already started",
		})
		return
	}
	h.sendEvent(connID, protocol.JoinedRoom{
		Type: protocol.EvtJoinedRoom, Success: true, RoomID: r.ID,
	})
	h.broadcastPlayerList(r)
}

func (h *Hub) handleLeaveRoom(connID string, _ protocol.ClientMessage) {
	left := h.leaveCurrentRoom(connID)
	h.sendEvent(connID, protocol.LeftRoom{Type: protocol.EvtLeftRoom, Success: left})
}

func (h *Hub) handleListRooms(connID string, _ protocol.ClientMessage) {
	h.sendEvent(connID, protocol.RoomList{Type: protocol.EvtRoomList, Rooms: h.rooms.List()})
}

func (h *Hub) handleSpectate(connID string, msg protocol.ClientMessage) {
	r, ok := h.rooms.Get(msg.RoomID)
	if !ok {
		h.sendEvent(connID, protocol.SpectateError{
			Type: protocol.EvtSpectateError, Message: "room not found",
		})
		return
	}
	if _, already := r.Spectator(connID); !already {
		// moving in from another room counts as leaving it
		if cur, ok := h.rooms.ByMember(connID); ok && cur.ID != r.ID {
			h.leaveCurrentRoom(connID)
		}
		fallback := h.newPlayer(connID)
		r.ToSpectator(connID, fallback.Name, fallback.Color)
	}
	h.sendEvent(connID, protocol.SpectateSuccess{
		Type:   protocol.EvtSpectateSuccess,
		RoomID: r.ID,
		GameState: map[string]any{
			"started":    r.Game.Started,
			"modo":       string(r.Game.Mode),
			"maxStack":   r.Game.MaxStack,
			"intervalMs": r.Game.IntervalMs,
			"duration":   r.Game.Duration,
		},
	})
	h.broadcastPlayerList(r)
}

func (h *Hub) handleJoinIdentity(connID string, msg protocol.ClientMessage) {
	h.identities.Set(connID, msg.Name, msg.Color)
	h.propagateIdentity(connID, msg.Name, msg.Color)
}

func (h *Hub) handleSetPlayerName(connID string, msg protocol.ClientMessage) {
	color := ""
	if id, ok := h.identities.Get(connID); ok {
		color = id.Color
	}
	h.identities.Set(connID, msg.Name, color)
	h.propagateIdentity(connID, msg.Name, color)
}

// propagateIdentity pushes a fresh name/color onto the room record the
// connection currently occupies, if any.
func (h *Hub) propagateIdentity(connID, name, color string) {
	r, ok := h.rooms.ByMember(connID)
	if !ok {
		return
	}
	if p, ok := r.Player(connID); ok {
		if name != "" {
			p.Name = name
		}
		if color != "" {
			p.Color = color
		}
	} else if s, ok := r.Spectator(connID); ok {
		if name != "" {
			s.Name = name
		}
		if color != "" {
			s.Color = color
		}
	}
	h.broadcastPlayerList(r)
}

func (h *Hub) handleClientReady(connID string, msg protocol.ClientMessage) {
	r, ok := h.rooms.ByMember(connID)
	if !ok {
		return
	}
	p, ok := r.Player(connID)
	if !ok {
		return
	}
	p.Ready = msg.Ready != nil && *msg.Ready
	h.broadcastPlayerList(r)
}

func (h *Hub) handleStartGame(connID string, msg protocol.ClientMessage) {
	r, ok := h.roomFor(connID, msg.RoomID)
	if !ok {
		return
	}
	if err := r.CanStart(connID); err != nil {
		if errors.Is(err, room.ErrNotEnoughPlayers) {
			h.sendEvent(connID, protocol.NotEnoughPlayers{
				Type:    protocol.EvtNotEnoughPlayers,
				Message: "at least 2 players are needed to start",
			})
			return
		}
		// non-host and not-all-ready attempts are rejected silently; other
		// players are not told about the failed attempt
		h.logger.Info("start attempt rejected",
			zap.String("roomId", r.ID),
			zap.String("connId", connID),
			zap.Error(err),
		)
		return
	}

	mode := r.Game.Mode
	if msg.Modo != "" {
		mode = room.ParseMode(msg.Modo)
	}
	duration := r.Game.Duration
	if duration <= 0 {
		duration = h.opts.DefaultDuration
	}

	assignment := h.assignWords(r)
	r.Start(mode, assignment, h.opts.MaxStack, h.opts.IntervalMs, duration, h.opts.SuddenDeathLives)

	start := protocol.GameStart{
		Type:           protocol.EvtGameStart,
		WordAssignment: assignment,
		MaxStack:       r.Game.MaxStack,
		IntervalMs:     r.Game.IntervalMs,
		StartAt:        time.Now().Add(startOffset).UnixMilli(),
		Modo:           string(mode),
	}
	if mode == room.ModeTimeAttack {
		start.Duration = duration
		h.armTimeAttack(r.ID, time.Duration(duration)*time.Second)
	}
	h.broadcast(r, start)
	h.broadcastPlayerList(r)
	h.publisher.GameStarted(r.ID, string(mode), r.PlayerIDs())
	h.logger.Info("game started",
		zap.String("roomId", r.ID),
		zap.String("mode", string(mode)),
		zap.Int("players", len(r.PlayerIDs())),
	)
}

func (h *Hub) handleSetRoomMode(connID string, msg protocol.ClientMessage) {
	r, ok := h.roomFor(connID, msg.RoomID)
	if !ok || connID != r.HostID || r.Game.Started {
		return
	}
	r.Game.Mode = room.ParseMode(msg.Modo)
	if msg.Duration != nil && *msg.Duration > 0 {
		r.Game.Duration = *msg.Duration
	}
	h.broadcast(r, protocol.RoomModeUpdated{
		Type:     protocol.EvtRoomModeUpdated,
		Modo:     string(r.Game.Mode),
		Duration: r.Game.Duration,
	})
}

func (h *Hub) handleUpdateProgress(connID string, msg protocol.ClientMessage) {
	r, ok := h.roomFor(connID, msg.RoomID)
	if !ok {
		// progress before joining a room is a no-op
		return
	}
	p, ok := r.Player(connID)
	if !ok {
		return
	}
	if msg.CompletedWords != nil {
		p.CompletedWords = *msg.CompletedWords
	}
	if msg.TotalErrors != nil {
		p.TotalErrors = *msg.TotalErrors
	}
	if msg.PlayTime != nil {
		p.PlayTime = *msg.PlayTime
	}
	if msg.Lives != nil {
		p.Lives = *msg.Lives
	}
	if msg.CurrentWordProgress != nil {
		p.CurrentWordProgress = *msg.CurrentWordProgress
	}
	if msg.WordStack != nil {
		p.WordStack = *msg.WordStack
	}

	switch {
	case msg.Eliminated != nil && *msg.Eliminated:
		h.eliminatePlayer(r, connID, "you have been eliminated")
	case r.Game.Started && msg.WordStack != nil && len(p.WordStack) >= r.Game.MaxStack:
		h.eliminatePlayer(r, connID, "too many words stacked up")
	default:
		h.broadcastPlayerList(r)
	}
}

func (h *Hub) handleCompleteWord(connID string, _ protocol.ClientMessage) {
	r, ok := h.rooms.ByMember(connID)
	if !ok || !r.Game.Started || r.Game.Ended {
		return
	}
	p, ok := r.Player(connID)
	if !ok || p.Terminal() {
		return
	}
	p.CompletedWords++
	if left, tracked := r.Game.Remaining[connID]; tracked && left > 0 {
		r.Game.Remaining[connID] = left - 1
		if left-1 == 0 {
			h.finishPlayer(r, connID)
			return
		}
	}
	h.broadcastPlayerList(r)
}

func (h *Hub) handlePlayerLost(connID string, msg protocol.ClientMessage) {
	r, ok := h.roomFor(connID, msg.RoomID)
	if !ok || !r.Game.Started {
		return
	}
	h.eliminatePlayer(r, connID, "too many words stacked up")
}

func (h *Hub) handleSuddenDeathElim(connID string, msg protocol.ClientMessage) {
	r, ok := h.roomFor(connID, msg.RoomID)
	if !ok || !r.Game.Started || r.Game.Ended || r.Game.Mode != room.ModeSuddenDeath {
		return
	}
	p, ok := r.Player(connID)
	if !ok || p.Terminal() {
		return
	}
	if p.Lives <= 0 {
		h.eliminatePlayer(r, connID, "eliminated: one mistake too many")
		return
	}
	// non-fatal: burn a life, tell only the player
	p.Lives--
	h.sendEvent(connID, protocol.LivesUpdate{Type: protocol.EvtLivesUpdate, Lives: p.Lives})
}

func (h *Hub) handlePowerupAttack(connID string, msg protocol.ClientMessage) {
	r, ok := h.rooms.Get(msg.RoomID)
	if !ok || !r.IsMember(connID) {
		return
	}
	// fire and forget: if the target is gone the frame is dropped
	h.sendEvent(msg.TargetID, protocol.PowerupReceive{
		Type:       protocol.EvtPowerupReceive,
		EffectType: msg.EffectType,
		Payload:    msg.Payload,
	})
}

func (h *Hub) handleKickUser(connID string, msg protocol.ClientMessage) {
	r, ok := h.roomFor(connID, msg.RoomID)
	if !ok || connID != r.HostID || msg.UserID == connID {
		return
	}
	if !r.RemoveMember(msg.UserID) {
		return
	}
	h.sendEvent(msg.UserID, protocol.Kicked{
		Type: protocol.EvtKicked, Message: "you have been kicked from the room",
	})
	h.broadcastPlayerList(r)
}

func (h *Hub) handleTransferHost(connID string, msg protocol.ClientMessage) {
	r, ok := h.roomFor(connID, msg.RoomID)
	if !ok || connID != r.HostID {
		return
	}
	if err := r.TransferHost(msg.NewHostID); err != nil {
		h.logger.Info("host transfer rejected",
			zap.String("roomId", r.ID),
			zap.String("newHostId", msg.NewHostID),
		)
		return
	}
	h.broadcast(r, protocol.HostTransferred{
		Type: protocol.EvtHostTransferred, NewHostID: r.HostID,
	})
	h.broadcastPlayerList(r)
}

// roomFor resolves the target room: explicit id when given, the sender's
// current room otherwise. Callers must still validate membership/authority.
func (h *Hub) roomFor(connID, roomID string) (*room.Room, bool) {
	if roomID != "" {
		r, ok := h.rooms.Get(roomID)
		if !ok || !r.IsMember(connID) {
			return nil, false
		}
		return r, true
	}
	return h.rooms.ByMember(connID)
}

// eliminatePlayer marks the player eliminated, notifies it, rebroadcasts and
// runs the win check. Safe to call on already-terminal players: it no-ops.
func (h *Hub) eliminatePlayer(r *room.Room, connID, message string) {
	if !r.Eliminate(connID) {
		return
	}
	h.sendEvent(connID, protocol.PlayerEliminated{
		Type: protocol.EvtPlayerEliminated, PlayerID: connID, Message: message,
	})
	h.broadcastPlayerList(r)
	h.checkWin(r)
}

// finishPlayer handles word-list completion. Outside time-attack the first
// finisher wins outright: every other active player is eliminated.
func (h *Hub) finishPlayer(r *room.Room, connID string) {
	if !r.Finish(connID) {
		return
	}
	finisher, _ := r.Player(connID)
	if r.Game.Mode != room.ModeTimeAttack {
		for _, other := range r.ActivePlayers() {
			if other.ID == connID {
				continue
			}
			if r.Eliminate(other.ID) {
				h.sendEvent(other.ID, protocol.PlayerEliminated{
					Type:     protocol.EvtPlayerEliminated,
					PlayerID: other.ID,
					Message:  fmt.Sprintf("%s completed all their words first", finisher.Name),
				})
			}
		}
	}
	h.broadcastPlayerList(r)
	h.checkWin(r)
}

// checkWin recomputes the active set and ends the game when a single racer
// remains. Invoked after every elimination/finish mutation, never polled.
func (h *Hub) checkWin(r *room.Room) {
	if !r.Game.Started || r.Game.Ended {
		return
	}
	active := r.ActivePlayers()
	switch len(active) {
	case 1:
		h.endGame(r, active[0])
	case 0:
		h.endGame(r, nil)
	}
}

// endGame is the single terminal path for elimination-driven endings. The
// End latch guarantees at most one gameOver per room lifetime even if a
// timer-driven end races this in a later loop turn.
func (h *Hub) endGame(r *room.Room, winner *room.Player) {
	if !r.End() {
		return
	}
	h.stopTimers(r.ID)

	over := protocol.GameOver{Type: protocol.EvtGameOver, Message: "game over, nobody won"}
	if winner != nil {
		h.sendEvent(winner.ID, protocol.PlayerWon{
			Type:     protocol.EvtPlayerWon,
			WinnerID: winner.ID,
			Message:  "you are the last one standing",
		})
		over.WinnerID = winner.ID
		over.WinnerName = winner.Name
		over.Message = fmt.Sprintf("%s won the game", winner.Name)
	}
	h.broadcast(r, over)
	h.broadcastPlayerList(r)

	winnerID := ""
	if winner != nil {
		winnerID = winner.ID
	}
	h.publisher.GameEnded(r.ID, winnerID)
	h.logger.Info("game over",
		zap.String("roomId", r.ID),
		zap.String("winnerId", winnerID),
	)
}
