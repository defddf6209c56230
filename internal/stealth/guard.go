package stealth

import (
	"fmt"
	"math"
	"time"
)

// GuardState is a guard's behaviour state.
type GuardState int

const (
	GuardPatrol GuardState = iota // walking the route, or standing post
	GuardAlert                    // heading for a noise or sighting
	GuardSearch                   // sweeping random points around the last lead
	GuardCombat                   // locked on to the player; terminal
)

func (s GuardState) String() string {
	switch s {
	case GuardPatrol:
		return "patrol"
	case GuardAlert:
		return "alert"
	case GuardSearch:
		return "search"
	case GuardCombat:
		return "combat"
	default:
		return "unknown"
	}
}

// Guard is one patrolling NPC inside an active encounter.
type Guard struct {
	id      int
	label   string
	name    string
	kind    GuardKind
	profile GuardProfile

	pos    Vec2
	facing float64 // degrees

	state     GuardState
	detection float64

	// Vision after difficulty/skill scaling and any suspicion widening.
	visionRange float64
	visionAngle float64

	// Patrol
	route    []Waypoint
	waypoint int
	pausing  bool
	waitLeft time.Duration

	// Leads
	lastKnown    Vec2
	hasLastKnown bool

	// Search
	searchCenter   Vec2
	searchPoint    Vec2
	hasSearchPoint bool
	dwellLeft      time.Duration

	// Detour around obstacles
	path      []Vec2
	pathIndex int
	pathGoal  Vec2
}

func newGuard(id int, spawn GuardSpawn, rangeScale float64) *Guard {
	p := spawn.Kind.Profile()
	name := spawn.Name
	if name == "" {
		name = fmt.Sprintf("%s %d", p.EnemyName, id+1)
	}
	route := make([]Waypoint, len(spawn.Route))
	copy(route, spawn.Route)
	return &Guard{
		id:          id,
		label:       fmt.Sprintf("G%d", id),
		name:        name,
		kind:        spawn.Kind,
		profile:     p,
		pos:         spawn.Pos,
		facing:      normalizeDeg(spawn.Facing),
		visionRange: p.VisionRange * rangeScale,
		visionAngle: p.VisionAngle,
		route:       route,
	}
}

// GuardView is a read-only copy of a guard's state.
type GuardView struct {
	ID          int
	Label       string
	Name        string
	Kind        GuardKind
	Pos         Vec2
	Facing      float64
	State       GuardState
	Detection   float64
	VisionRange float64
	VisionAngle float64
	CanSmell    bool
	SmellRange  float64
	LastKnown   *Vec2
	Waypoint    int
	RouteLen    int
}

func (g *Guard) view() GuardView {
	v := GuardView{
		ID:          g.id,
		Label:       g.label,
		Name:        g.name,
		Kind:        g.kind,
		Pos:         g.pos,
		Facing:      g.facing,
		State:       g.state,
		Detection:   g.detection,
		VisionRange: g.visionRange,
		VisionAngle: g.visionAngle,
		CanSmell:    g.profile.CanSmell,
		SmellRange:  g.profile.SmellRange,
		Waypoint:    g.waypoint,
		RouteLen:    len(g.route),
	}
	if g.hasLastKnown {
		lk := g.lastKnown
		v.LastKnown = &lk
	}
	return v
}

func (g *Guard) setLastKnown(p Vec2) {
	g.lastKnown = p
	g.hasLastKnown = true
}

// stepToward is the shared movement primitive. The guard turns toward target
// at most turnRate*dt, then advances along its facing by at most speed*dt.
// The advance is capped at the target's projection onto the facing, so a
// step never increases the distance to the target. This departs from a plain
// remaining-distance cap: a guard facing more than 90° away turns in place.
// Returns true once within arrive of the target.
func (g *Guard) stepToward(target Vec2, dt time.Duration, speed, turnRate, arrive float64) bool {
	dist := g.pos.DistanceTo(target)
	if dist <= arrive {
		return true
	}
	secs := dt.Seconds()
	want := bearingDeg(g.pos, target)
	g.facing = turnToward(g.facing, want, turnRate*secs)

	along := dist * math.Cos(angleDiff(g.facing, want)/degPerRad)
	if along <= 0 {
		return false
	}
	step := math.Min(speed*secs, along)
	g.pos = g.pos.Add(headingVec(g.facing).Scale(step))
	return g.pos.DistanceTo(target) <= arrive
}
