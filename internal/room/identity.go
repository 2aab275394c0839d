package room

// Identity is the display name/color a connection carries across room
// transitions. Created on the first join message, overwritten by later ones.
type Identity struct {
	Name  string
	Color string
}

// Identities maps connection ids to their chosen identity. Entries live for
// the whole process; there is no persistence beyond that.
type Identities struct {
	m map[string]Identity
}

func NewIdentities() *Identities {
	return &Identities{m: make(map[string]Identity)}
}

// Set upserts the identity for connID. The previous value is replaced
// wholesale, never merged.
func (ids *Identities) Set(connID, name, color string) {
	ids.m[connID] = Identity{Name: name, Color: color}
}

func (ids *Identities) Get(connID string) (Identity, bool) {
	id, ok := ids.m[connID]
	return id, ok
}
