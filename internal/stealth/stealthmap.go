package stealth

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

// SurfaceZone tags a rectangle of floor with a surface kind.
type SurfaceZone struct {
	Area Rect
	Kind SurfaceKind
}

// LightSource brightens the area around it. Brightness is the extra
// visibility added at the source itself, falling off linearly to zero at Radius.
type LightSource struct {
	ID         string
	Pos        Vec2
	Radius     float64
	Brightness float64
}

// Waypoint is one stop on a patrol route. A zero Wait uses the tuning default.
type Waypoint struct {
	Pos  Vec2
	Wait time.Duration
}

// GuardSpawn places one guard at encounter start.
type GuardSpawn struct {
	Name   string
	Kind   GuardKind
	Pos    Vec2
	Facing float64 // degrees
	Route  []Waypoint
}

// Map is the static layout of a mission. It is not modified once an
// encounter starts; door and light toggles live on the encounter.
type Map struct {
	Width       float64
	Height      float64
	Obstacles   []Rect
	Surfaces    []SurfaceZone
	Lights      []LightSource
	PlayerSpawn *Vec2
	GuardSpawns []GuardSpawn
}

// SurfaceAt returns the surface under p. Later zones win where zones overlap.
func (m *Map) SurfaceAt(p Vec2) SurfaceKind {
	kind := SurfaceNormal
	for _, z := range m.Surfaces {
		if z.Area.Contains(p) {
			kind = z.Kind
		}
	}
	return kind
}

// InBounds reports whether p lies on the map.
func (m *Map) InBounds(p Vec2) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= m.Width && p.Y <= m.Height
}

// Blocked reports whether p lies inside an obstacle, edges included.
func (m *Map) Blocked(p Vec2) bool {
	for _, o := range m.Obstacles {
		if o.Contains(p) {
			return true
		}
	}
	return false
}

// Clamp pulls p onto the map.
func (m *Map) Clamp(p Vec2) Vec2 {
	return Vec2{clamp(p.X, 0, m.Width), clamp(p.Y, 0, m.Height)}
}

// Validate reports every structural problem with the map.
func (m *Map) Validate() error {
	el := errors.NewErrorList()

	if m.Width <= 0 || m.Height <= 0 {
		el.Add(fmt.Errorf("map size %.1fx%.1f must be positive", m.Width, m.Height))
	}

	if m.PlayerSpawn == nil {
		el.Add(ErrNoPlayerSpawn)
	} else if !m.InBounds(*m.PlayerSpawn) {
		el.Add(fmt.Errorf("player spawn (%.1f,%.1f) is off the map", m.PlayerSpawn.X, m.PlayerSpawn.Y))
	} else if m.Blocked(*m.PlayerSpawn) {
		el.Add(fmt.Errorf("player spawn (%.1f,%.1f) is inside an obstacle", m.PlayerSpawn.X, m.PlayerSpawn.Y))
	}

	for i, o := range m.Obstacles {
		if o.W < 0 || o.H < 0 {
			el.Add(fmt.Errorf("obstacle %d: negative size", i))
		}
	}
	for i, z := range m.Surfaces {
		if z.Area.W < 0 || z.Area.H < 0 {
			el.Add(fmt.Errorf("surface %d: negative size", i))
		}
	}

	lightIDs := map[string]bool{}
	for i, l := range m.Lights {
		if l.Radius <= 0 {
			el.Add(fmt.Errorf("light %d: radius must be positive", i))
		}
		if l.ID == "" {
			continue
		}
		if lightIDs[l.ID] {
			el.Add(fmt.Errorf("light %d: duplicate id %q", i, l.ID))
		}
		lightIDs[l.ID] = true
	}

	for i, g := range m.GuardSpawns {
		if !g.Kind.Valid() {
			el.Add(fmt.Errorf("guard spawn %d: %w (%d)", i, ErrUnknownGuardKind, int(g.Kind)))
		}
		if !m.InBounds(g.Pos) {
			el.Add(fmt.Errorf("guard spawn %d: position (%.1f,%.1f) is off the map", i, g.Pos.X, g.Pos.Y))
		}
		for j, wp := range g.Route {
			if !m.InBounds(wp.Pos) {
				el.Add(fmt.Errorf("guard spawn %d waypoint %d: off the map", i, j))
			}
			if wp.Wait < 0 {
				el.Add(fmt.Errorf("guard spawn %d waypoint %d: negative wait", i, j))
			}
		}
	}

	return el.Err()
}
