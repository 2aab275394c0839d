package room

import "strings"

// Summary is the read-only row returned by List, one per active room.
type Summary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Count          int    `json:"count"`
	SpectatorCount int    `json:"spectatorCount"`
	Mode           Mode   `json:"modo"`
	InGame         bool   `json:"inGame"`
}

// Registry is the process-wide collection of active rooms. Like Room it is
// single-owner state: only the hub loop touches it.
type Registry struct {
	rooms map[string]*Room
	order []string
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Create allocates a room under the given id. The name must be non-empty.
func (reg *Registry) Create(id, name string) (*Room, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	r := New(id, name)
	reg.rooms[id] = r
	reg.order = append(reg.order, id)
	return r, nil
}

func (reg *Registry) Get(id string) (*Room, bool) {
	r, ok := reg.rooms[id]
	return r, ok
}

// ByMember finds the room holding connID as a player or spectator.
// A connection is in at most one room, so the first hit is the only hit.
func (reg *Registry) ByMember(connID string) (*Room, bool) {
	for _, id := range reg.order {
		if r := reg.rooms[id]; r.IsMember(connID) {
			return r, true
		}
	}
	return nil, false
}

func (reg *Registry) Remove(id string) {
	delete(reg.rooms, id)
	for i, rid := range reg.order {
		if rid == id {
			reg.order = append(reg.order[:i], reg.order[i+1:]...)
			break
		}
	}
}

// List snapshots every room. Computed on demand, never cached.
func (reg *Registry) List() []Summary {
	out := make([]Summary, 0, len(reg.order))
	for _, id := range reg.order {
		r := reg.rooms[id]
		out = append(out, Summary{
			ID:             r.ID,
			Name:           r.Name,
			Count:          len(r.players),
			SpectatorCount: len(r.spectators),
			Mode:           r.Game.Mode,
			InGame:         r.Game.Started && !r.Game.Ended,
		})
	}
	return out
}
