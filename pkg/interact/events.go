package interact

import "github.com/matzehuels/familytree/pkg/family"

// Handler receives the events a View emits. Calls are synchronous and
// happen on the caller's goroutine; a handler may call back into the view,
// for instance to Load a changed tree.
type Handler interface {
	SelectPerson(id string)
	ToggleRelType(t family.RelationshipType)
	ProximityDrop(source, target string)
}

// Handlers adapts plain functions to a Handler. Nil fields are ignored.
type Handlers struct {
	OnSelectPerson  func(id string)
	OnToggleRelType func(t family.RelationshipType)
	OnProximityDrop func(source, target string)
}

func (h Handlers) SelectPerson(id string) {
	if h.OnSelectPerson != nil {
		h.OnSelectPerson(id)
	}
}

func (h Handlers) ToggleRelType(t family.RelationshipType) {
	if h.OnToggleRelType != nil {
		h.OnToggleRelType(t)
	}
}

func (h Handlers) ProximityDrop(source, target string) {
	if h.OnProximityDrop != nil {
		h.OnProximityDrop(source, target)
	}
}

// DragState is the phase of the current drag gesture.
type DragState int

const (
	Idle DragState = iota
	Dragging
	ProximityArmed // dragging with a proximity candidate
)

func (s DragState) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case ProximityArmed:
		return "proximity-armed"
	default:
		return "idle"
	}
}
