package stealth

import (
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func TestPatrol_WalksRouteAndPauses(t *testing.T) {
	s := NewScenario(
		WithPlayerAt(38, 28),
		WithGuard(GuardStandard, 5, 5, 0,
			Waypoint{Pos: Vec2{9, 5}, Wait: time.Second},
			Waypoint{Pos: Vec2{5, 5}, Wait: time.Second}),
	)

	// 4 units at 0.2 per tick, then a one-second pause.
	at := s.RunUntil(func(s *Scenario) bool { return guard0(s).Waypoint == 1 }, 60, tick)
	if at < 25 || at > 30 {
		t.Fatalf("expected waypoint advance after arrival plus pause (~T=28), got T=%d", at)
	}
	if d := guard0(s).Pos.DistanceTo(Vec2{9, 5}); d > 0.5+1e-6 {
		t.Fatalf("guard left the waypoint before moving on: %.3f away", d)
	}

	back := s.RunUntil(func(s *Scenario) bool { return guard0(s).Waypoint == 0 }, 80, tick)
	if back < 0 {
		t.Fatal("guard never completed the loop")
	}
	testutil.AssertEqual(t, "state", guard0(s).State, GuardPatrol)
	testutil.AssertEqual(t, "alert", s.Enc.AlertLevel(), 0.0)
}

func TestPatrol_NoRouteStandsPost(t *testing.T) {
	s := NewScenario(WithPlayerAt(38, 28), WithGuard(GuardArcher, 5, 5, 45))
	s.RunTicks(50, tick)
	g := guard0(s)
	testutil.AssertEqual(t, "pos", g.Pos, Vec2{5, 5})
	testutil.AssertEqual(t, "facing", g.Facing, 45.0)
}

func TestPatrol_DefaultWaypointWait(t *testing.T) {
	s := NewScenario(WithPlayerAt(38, 28), WithGuard(GuardStandard, 5, 5, 0, wp(6, 5), wp(5, 5)))
	arrived := s.RunUntil(func(s *Scenario) bool { return guard0(s).Pos.DistanceTo(Vec2{6, 5}) <= 0.5 }, 20, tick)
	advanced := s.RunUntil(func(s *Scenario) bool { return guard0(s).Waypoint == 1 }, 40, tick)
	if arrived < 0 || advanced < 0 {
		t.Fatalf("guard stalled (arrived T=%d, advanced T=%d)", arrived, advanced)
	}
	if waited := advanced - arrived; waited != 20 {
		t.Fatalf("expected the 2s default pause (20 ticks), got %d", waited)
	}
}

func TestAlert_InvestigatesThenSearches(t *testing.T) {
	s := NewScenario(WithPlayerAt(1, 28), WithGuard(GuardStandard, 10, 5, 0))
	s.Enc.EmitNoise(Vec2{14, 5}, 3)
	testutil.AssertEqual(t, "state", guard0(s).State, GuardAlert)

	at := s.RunUntil(func(s *Scenario) bool { return guard0(s).State == GuardSearch }, 50, tick)
	if at < 0 {
		t.Fatal("guard never reached the noise")
	}
	if d := guard0(s).Pos.DistanceTo(Vec2{14, 5}); d > 0.5+1e-6 {
		t.Fatalf("search began %.2f from the noise", d)
	}
	testutil.AssertEqual(t, "transition logged", s.SimLog.HasEntry("guard", "state_change", "alert → search"), true)
}

func TestSearch_DecaysBackToPatrol(t *testing.T) {
	s := NewScenario(WithPlayerAt(1, 28), WithGuard(GuardStandard, 10, 5, 0))
	s.Enc.EmitNoise(Vec2{14, 5}, 3)
	if s.RunUntil(func(s *Scenario) bool { return guard0(s).State == GuardSearch }, 50, tick) < 0 {
		t.Fatal("guard never started searching")
	}

	// 0.005/ms * 100ms = 0.5 per tick from 50 down to 25.
	if s.RunUntil(func(s *Scenario) bool { return guard0(s).State == GuardPatrol }, 200, tick) < 0 {
		t.Fatal("guard never resumed patrol")
	}
	testutil.AssertEqual(t, "decay floor", s.Enc.AlertLevel(), AlertSuspicious)
	if lk := guard0(s).LastKnown; lk != nil {
		t.Fatalf("patrol should drop the lead, got %v", lk)
	}

	s.RunTicks(100, tick)
	g := guard0(s)
	testutil.AssertEqual(t, "still suspicious", s.Enc.AlertLevel(), AlertSuspicious)
	testutil.AssertEqual(t, "still patrol", g.State, GuardPatrol)
	testutil.AssertEqual(t, "widened cone", g.VisionAngle, 110.0)
}

func TestSearch_StimulusPausesDecay(t *testing.T) {
	s := NewScenario(WithPlayerAt(1, 28), WithGuard(GuardStandard, 10, 5, 0))
	s.Enc.EmitNoise(Vec2{14, 5}, 3)
	if s.RunUntil(func(s *Scenario) bool { return guard0(s).State == GuardSearch }, 50, tick) < 0 {
		t.Fatal("guard never started searching")
	}
	s.RunTicks(1, tick)
	level := s.Enc.AlertLevel()
	if level >= AlertSearching || level <= AlertSuspicious {
		t.Fatalf("expected decay in progress, alert %.2f", level)
	}

	s.Enc.EmitNoise(Vec2{38, 1}, 0.8) // far from the guard, below the suspicious bar
	s.RunTicks(1, tick)
	testutil.AssertEqual(t, "held by stimulus", s.Enc.AlertLevel(), level)

	s.RunTicks(1, tick)
	testutil.AssertEqual(t, "decay resumes", s.Enc.AlertLevel(), level-0.5)
}

func TestSearch_NoDecayWhileAnyGuardInvestigates(t *testing.T) {
	s := NewScenario(
		WithPlayerAt(1, 28),
		WithGuard(GuardStandard, 10, 5, 0),
		WithGuard(GuardStandard, 35, 25, 0),
	)
	s.Enc.EmitNoise(Vec2{14, 5}, 3)
	s.RunTicks(1, tick)

	gs := s.Enc.Guards()
	testutil.AssertEqual(t, "near guard", gs[0].State, GuardAlert)
	testutil.AssertEqual(t, "far guard joins search", gs[1].State, GuardSearch)

	s.RunTicks(3, tick)
	testutil.AssertEqual(t, "investigating", s.Enc.Guards()[0].State, GuardAlert)
	testutil.AssertEqual(t, "alert held", s.Enc.AlertLevel(), AlertSearching)
}

func TestSearch_NoiseMovesSearchCenter(t *testing.T) {
	s := NewScenario(WithPlayerAt(1, 28), WithGuard(GuardStandard, 10, 5, 0))
	s.Enc.EmitNoise(Vec2{30, 20}, 3) // too far to hear; alert jumps to searching
	s.RunTicks(1, tick)
	testutil.AssertEqual(t, "search", guard0(s).State, GuardSearch)

	s.Enc.EmitNoise(Vec2{12, 5}, 1.5)
	lk := guard0(s).LastKnown
	if lk == nil || *lk != (Vec2{12, 5}) {
		t.Fatalf("searching guard should take the new lead, got %v", lk)
	}
	testutil.AssertEqual(t, "still searching", guard0(s).State, GuardSearch)
}

func TestMovement_DetoursAroundWall(t *testing.T) {
	wall := Rect{9, 5, 2, 10}
	goal := Vec2{15, 10}
	s := NewScenario(
		WithPlayerAt(38, 28),
		WithObstacle(wall.X, wall.Y, wall.W, wall.H),
		WithGuard(GuardStandard, 5, 10, 0, Waypoint{Pos: goal, Wait: 10 * time.Second}),
	)

	inside := false
	at := s.RunUntil(func(s *Scenario) bool {
		p := guard0(s).Pos
		if wall.Contains(p) {
			inside = true
		}
		return p.DistanceTo(goal) <= 0.5+1e-6
	}, 400, tick)
	if at < 0 {
		t.Fatalf("guard never got round the wall; ended at %+v", guard0(s).Pos)
	}
	if inside {
		t.Fatal("guard walked through the wall")
	}
}

func TestMovement_StraightLineWithoutPathing(t *testing.T) {
	tun := DefaultTuning()
	tun.PathAroundObstacles = false
	s := NewScenario(
		WithPlayerAt(38, 28),
		WithEncounterOptions(WithTuning(tun)),
		WithObstacle(9, 5, 2, 10),
		WithGuard(GuardStandard, 5, 10, 0, Waypoint{Pos: Vec2{15, 10}, Wait: 10 * time.Second}),
	)
	s.RunTicks(10, tick)
	g := guard0(s)
	if !near(g.Pos.X, 7, 1e-6) || !near(g.Pos.Y, 10, 1e-6) {
		t.Fatalf("expected a straight 2-unit walk, got %+v", g.Pos)
	}
}

func TestMovement_SurfaceSlowsGuard(t *testing.T) {
	s := NewScenario(
		WithPlayerAt(38, 28),
		WithSurface(Rect{0, 0, 40, 30}, SurfaceWater),
		WithGuard(GuardStandard, 5, 10, 0, Waypoint{Pos: Vec2{15, 10}, Wait: 10 * time.Second}),
	)
	s.RunTicks(10, tick)
	if x := guard0(s).Pos.X; !near(x, 6.2, 1e-6) {
		t.Fatalf("water should cut speed to 0.6x, got x=%.3f", x)
	}
}
