package stealth

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// updateGuard runs one tick of a guard's state machine.
func (e *Encounter) updateGuard(g *Guard, dt time.Duration) {
	switch g.state {
	case GuardPatrol:
		e.patrol(g, dt)
	case GuardAlert:
		e.investigate(g, dt)
	case GuardSearch:
		e.search(g, dt)
	case GuardCombat:
		e.moveGuard(g, e.player, dt)
	}
}

func (e *Encounter) setState(g *Guard, s GuardState) {
	if g.state == s {
		return
	}
	from := g.state
	g.state = s
	g.path = nil
	g.visionAngle = g.profile.VisionAngle

	switch s {
	case GuardPatrol:
		g.hasLastKnown = false
		g.pausing = false
		g.waitLeft = 0
	case GuardSearch:
		e.anySearched = true
		g.searchCenter = e.searchCenterFor(g)
		g.hasSearchPoint = false
		g.dwellLeft = 0
	}

	e.simLog.Add(e.tick, g.label, "guard", "state_change", fmt.Sprintf("%s → %s", from, s), 0)
	e.logEntry().WithFields(logrus.Fields{
		"guard": g.name,
		"from":  from.String(),
		"to":    s.String(),
	}).Debug("guard state change")
}

// patrol walks the route, pausing at each waypoint. A suspicious encounter
// widens the cone; a searching one sends the guard to search.
func (e *Encounter) patrol(g *Guard, dt time.Duration) {
	if e.alert >= AlertSearching {
		e.setState(g, GuardSearch)
		return
	}
	if e.alert >= AlertSuspicious {
		g.visionAngle = g.profile.VisionAngle + e.tuning.PatrolVisionWidening
	} else {
		g.visionAngle = g.profile.VisionAngle
	}

	if len(g.route) == 0 {
		return
	}
	if g.pausing {
		g.waitLeft -= dt
		if g.waitLeft > 0 {
			return
		}
		g.pausing = false
		g.waypoint = (g.waypoint + 1) % len(g.route)
		return
	}

	wp := g.route[g.waypoint]
	if e.moveGuard(g, wp.Pos, dt) {
		wait := wp.Wait
		if wait == 0 {
			wait = e.tuning.DefaultWaypointWait
		}
		g.pausing = true
		g.waitLeft = wait
	}
}

// investigate heads for the guard's lead and starts searching on arrival.
func (e *Encounter) investigate(g *Guard, dt time.Duration) {
	target, ok := e.leadFor(g)
	if !ok {
		e.setState(g, GuardSearch)
		return
	}
	if e.moveGuard(g, target, dt) {
		e.setState(g, GuardSearch)
	}
}

func (e *Encounter) leadFor(g *Guard) (Vec2, bool) {
	if g.hasLastKnown {
		return g.lastKnown, true
	}
	if e.hasLastNoise {
		return e.lastNoise, true
	}
	return Vec2{}, false
}

func (e *Encounter) searchCenterFor(g *Guard) Vec2 {
	if lead, ok := e.leadFor(g); ok {
		return lead
	}
	return g.pos
}

// search visits random points around the search center, looking around at
// each. Once the encounter calms to suspicious the guard resumes patrol.
func (e *Encounter) search(g *Guard, dt time.Duration) {
	if e.alert <= AlertSuspicious {
		e.setState(g, GuardPatrol)
		return
	}
	if !g.hasSearchPoint {
		g.searchPoint = e.pickSearchPoint(g.searchCenter)
		g.hasSearchPoint = true
		g.dwellLeft = 0
	}
	if g.dwellLeft > 0 {
		g.dwellLeft -= dt
		if g.dwellLeft <= 0 {
			g.hasSearchPoint = false
		}
		return
	}
	if !e.moveGuard(g, g.searchPoint, dt) {
		return
	}

	look := (e.rng.Float64()*2 - 1) * e.tuning.LookAround
	g.facing = normalizeDeg(g.facing + look)
	e.simLog.AddVerbose(e.tick, g.label, "guard", "search_point",
		fmt.Sprintf("(%.1f,%.1f) look %+.0f°", g.searchPoint.X, g.searchPoint.Y, look), 0)
	if e.tuning.SearchDwell > 0 {
		g.dwellLeft = e.tuning.SearchDwell
	} else {
		g.hasSearchPoint = false
	}
}

// pickSearchPoint draws a point at a random bearing and distance from
// center, avoiding obstacles and their unwalkable margin where it can.
func (e *Encounter) pickSearchPoint(center Vec2) Vec2 {
	t := e.tuning
	for range 8 {
		dist := t.SearchRadiusMin + e.rng.Float64()*(t.SearchRadiusMax-t.SearchRadiusMin)
		p := center.Add(headingVec(e.rng.Float64() * 360).Scale(dist))
		p = e.m.Clamp(p)
		if !e.insideObstacle(p) {
			return p
		}
	}
	return e.m.Clamp(center)
}

func (e *Encounter) insideObstacle(p Vec2) bool {
	if e.nav != nil {
		cx, cy := e.nav.WorldToCell(p)
		if e.nav.IsBlocked(cx, cy) {
			return true
		}
	}
	return e.m.Blocked(p)
}

// moveGuard steps g toward target, detouring along the nav grid when the
// straight line is blocked. Returns true once the target is reached.
func (e *Encounter) moveGuard(g *Guard, target Vec2, dt time.Duration) bool {
	t := e.tuning
	if g.pos.DistanceTo(target) <= t.ArriveDistance {
		g.path = nil
		return true
	}

	step := target
	if e.nav != nil && !exactLineOfSight(g.pos, target, e.m.Obstacles) {
		if g.path == nil || g.pathGoal.DistanceTo(target) > t.ArriveDistance {
			g.path = e.nav.FindPath(g.pos, target)
			g.pathIndex = 0
			if len(g.path) > 1 {
				g.pathIndex = 1
			}
			g.pathGoal = target
		}
		if g.path != nil {
			for g.pathIndex < len(g.path)-1 && g.pos.DistanceTo(g.path[g.pathIndex]) <= t.ArriveDistance {
				g.pathIndex++
			}
			step = g.path[g.pathIndex]
		}
	} else {
		g.path = nil
	}

	speed := g.profile.MoveSpeed * e.m.SurfaceAt(g.pos).SpeedFactor()
	g.stepToward(step, dt, speed, t.TurnRate, t.ArriveDistance)
	return g.pos.DistanceTo(target) <= t.ArriveDistance
}

// applyDecay bleeds the alert level while every guard is quietly searching.
// Once any guard has searched, the level never drops below suspicious.
func (e *Encounter) applyDecay(dt time.Duration) {
	if e.stimulus || len(e.guards) == 0 || e.alert <= AlertUnaware {
		return
	}
	for _, g := range e.guards {
		if g.state != GuardSearch {
			return
		}
	}
	floor := AlertUnaware
	if e.anySearched {
		floor = AlertSuspicious
	}
	if e.alert <= floor {
		return
	}
	ms := float64(dt) / float64(time.Millisecond)
	e.setAlert(math.Max(floor, e.alert-e.tuning.AlertDecayPerMs*ms), "decay")
}
