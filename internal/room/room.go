package room

import (
	"errors"
	"slices"
)

var ErrInvalidName = errors.New("invalid room name")
var ErrRoomNotFound = errors.New("room not found")
var ErrGameAlreadyStarted = errors.New("game already started")
var ErrNotHost = errors.New("caller is not the host")
var ErrNotEnoughPlayers = errors.New("not enough players")
var ErrNotAllReady = errors.New("not all players are ready")
var ErrNotAMember = errors.New("not a member of the room")

// Player is room-scoped racer state. All progress fields are client-reported.
type Player struct {
	ID                  string
	Name                string
	Color               string
	Ready               bool
	Eliminated          bool
	Finished            bool
	CompletedWords      int
	TotalErrors         int
	PlayTime            float64
	CurrentWordProgress string
	WordStack           []string
	Lives               int
}

// Terminal reports whether the player left the Active state. Terminal players
// never re-enter the race; they only exit the room.
func (p *Player) Terminal() bool { return p.Eliminated || p.Finished }

type Spectator struct {
	ID    string
	Name  string
	Color string
}

// Room is one game lobby/session: membership, host and game state. Not safe
// for concurrent use; the hub's event loop owns every room exclusively.
type Room struct {
	ID      string
	Name    string
	HostID  string
	Game    GameState
	players map[string]*Player
	// order tracks player insertion so host reassignment and word windows
	// are deterministic.
	order      []string
	spectators map[string]*Spectator
}

func New(id, name string) *Room {
	return &Room{
		ID:         id,
		Name:       name,
		Game:       newGameState(),
		players:    make(map[string]*Player),
		spectators: make(map[string]*Spectator),
	}
}

// AddPlayer inserts p into the room. Joining is only possible before the
// game starts.
func (r *Room) AddPlayer(p *Player) error {
	if r.Game.Started {
		return ErrGameAlreadyStarted
	}
	if _, exists := r.players[p.ID]; exists {
		return nil
	}
	r.players[p.ID] = p
	r.order = append(r.order, p.ID)
	if r.HostID == "" {
		r.HostID = p.ID
	}
	return nil
}

// RemoveMember drops id from players or spectators, whichever holds it, and
// reassigns the host if the host left and players remain. Returns false if
// the connection was not a member.
func (r *Room) RemoveMember(id string) bool {
	if _, ok := r.spectators[id]; ok {
		delete(r.spectators, id)
		return true
	}
	if _, ok := r.players[id]; !ok {
		return false
	}
	delete(r.players, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	if r.HostID == id {
		if len(r.order) > 0 {
			r.HostID = r.order[0]
		} else {
			r.HostID = ""
		}
	}
	return true
}

func (r *Room) Player(id string) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

func (r *Room) Spectator(id string) (*Spectator, bool) {
	s, ok := r.spectators[id]
	return s, ok
}

func (r *Room) IsMember(id string) bool {
	_, p := r.players[id]
	_, s := r.spectators[id]
	return p || s
}

// Players returns the players in insertion order.
func (r *Room) Players() []*Player {
	out := make([]*Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

// PlayerIDs returns the player ids in insertion order.
func (r *Room) PlayerIDs() []string {
	return slices.Clone(r.order)
}

func (r *Room) Spectators() []*Spectator {
	out := make([]*Spectator, 0, len(r.spectators))
	for _, s := range r.spectators {
		out = append(out, s)
	}
	return out
}

// MemberIDs returns every connection in the room, players first.
func (r *Room) MemberIDs() []string {
	out := slices.Clone(r.order)
	for id := range r.spectators {
		out = append(out, id)
	}
	return out
}

func (r *Room) Empty() bool {
	return len(r.players) == 0 && len(r.spectators) == 0
}

// ToSpectator moves an active player to the spectator list, preserving name
// and color. If id is not a player, a spectator entry is created from the
// given fallbacks (re-entry after an implicit drop).
func (r *Room) ToSpectator(id, fallbackName, fallbackColor string) *Spectator {
	if s, ok := r.spectators[id]; ok {
		return s
	}
	spec := &Spectator{ID: id, Name: fallbackName, Color: fallbackColor}
	if p, ok := r.players[id]; ok {
		spec.Name = p.Name
		spec.Color = p.Color
		r.RemoveMember(id)
	}
	r.spectators[id] = spec
	return spec
}

// TransferHost hands host authority to another current player.
func (r *Room) TransferHost(newHostID string) error {
	if _, ok := r.players[newHostID]; !ok {
		return ErrNotAMember
	}
	r.HostID = newHostID
	return nil
}
