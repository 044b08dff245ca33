package domain

// SelectorKind distinguishes the exterior section from a named room.
type SelectorKind string

const (
	SelectorExterior SelectorKind = "exterior"
	SelectorRoom     SelectorKind = "room"
)

// Selector identifies which part of a job a camera angle belongs to: the
// exterior, or one named room.
type Selector struct {
	Kind SelectorKind `json:"kind" yaml:"kind"`
	Room string       `json:"room,omitempty" yaml:"room,omitempty"`
}

// ExteriorSelector points at the exterior section of a job.
func ExteriorSelector() Selector {
	return Selector{Kind: SelectorExterior}
}

// RoomSelector points at the room with the given name.
func RoomSelector(name string) Selector {
	return Selector{Kind: SelectorRoom, Room: name}
}

// Label returns the human-readable name of the selected section: "exterior",
// or the room name.
func (s Selector) Label() string {
	if s.Kind == SelectorExterior {
		return "exterior"
	}
	return s.Room
}
