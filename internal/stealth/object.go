package stealth

import (
	"fmt"
	"strings"
	"time"
)

// ObjectKind is what an interactive object does when used.
type ObjectKind int

const (
	ObjectDoor ObjectKind = iota
	ObjectChest
	ObjectLever
	ObjectDistraction
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectDoor:
		return "door"
	case ObjectChest:
		return "chest"
	case ObjectLever:
		return "lever"
	case ObjectDistraction:
		return "distraction"
	default:
		return "unknown"
	}
}

// ParseObjectKind maps an object type name to its kind. "container" is a
// chest and "switch" is a lever.
func ParseObjectKind(s string) (ObjectKind, error) {
	switch strings.ToLower(s) {
	case "door":
		return ObjectDoor, nil
	case "chest", "container":
		return ObjectChest, nil
	case "lever", "switch":
		return ObjectLever, nil
	case "distraction":
		return ObjectDistraction, nil
	}
	return ObjectDoor, fmt.Errorf("%w: %q", ErrUnknownObjectKind, s)
}

// EffectKind is a side effect a lever applies when pulled.
type EffectKind int

const (
	EffectToggleDoor EffectKind = iota
	EffectToggleLight
)

func (k EffectKind) String() string {
	switch k {
	case EffectToggleDoor:
		return "toggle_door"
	case EffectToggleLight:
		return "toggle_light"
	default:
		return "unknown"
	}
}

// SideEffect names the door or light a lever flips.
type SideEffect struct {
	Kind     EffectKind
	TargetID string
}

// InteractiveObject is a door, chest, lever or distraction the player can use.
//
// Open is the door/chest state; Active is the lever/distraction state.
// Remaining counts down an active distraction.
type InteractiveObject struct {
	ID          string
	Kind        ObjectKind
	Pos         Vec2
	Radius      float64 // zero uses the tuning default
	Open        bool
	Active      bool
	ObjectiveID string
	Effects     []SideEffect
	Quiet       bool
	Duration    time.Duration
	Remaining   time.Duration
}

// Objective is one mission goal. A Zone objective completes when the player
// steps inside it; others complete through linked objects or the host.
type Objective struct {
	ID        string
	Text      string
	Completed bool
	Zone      *Rect
}
