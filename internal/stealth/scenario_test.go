package stealth

import (
	"errors"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, s *Scenario) {
	t.Helper()
	t.Log(s.SimLog.Format())
	t.Log(s.Summary())
}

func TestBuiltinScenario_Unknown(t *testing.T) {
	_, err := BuiltinScenario("moon-base")
	if !errors.Is(err, ErrUnknownScenario) {
		t.Fatalf("expected ErrUnknownScenario, got %v", err)
	}
}

func TestBuiltinScenarios_Start(t *testing.T) {
	names := ScenarioNames()
	testutil.AssertEqual(t, "count", len(names), 3)
	testutil.AssertEqual(t, "sorted", names[0], "courtyard")
	for _, name := range names {
		s, err := BuiltinScenario(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !s.Started {
			t.Fatalf("%s: failed to start: %v", name, s.Map.Validate())
		}
		testutil.AssertEqual(t, name+" name", s.Name, name)
		if len(s.Script) == 0 {
			t.Fatalf("%s: no script", name)
		}
		for i, g := range s.Map.GuardSpawns {
			for _, o := range s.Map.Obstacles {
				if o.Contains(g.Pos) {
					t.Fatalf("%s: guard %d spawns inside a wall", name, i)
				}
			}
		}
	}
}

func TestScenario_RunTicksStopsAtEnd(t *testing.T) {
	s := NewScenario(WithGuard(GuardStandard, 5, 5, 0))
	s.Enc.End(false)
	testutil.AssertEqual(t, "ran", s.RunTicks(10, tick), 0)
}

func TestScenario_RunUntilTimesOut(t *testing.T) {
	s := NewScenario(WithGuard(GuardStandard, 5, 5, 0))
	got := s.RunUntil(func(*Scenario) bool { return false }, 5, tick)
	testutil.AssertEqual(t, "result", got, -1)
	testutil.AssertEqual(t, "ticks", s.Tick, 5)
}

func TestScenario_ScriptedRun(t *testing.T) {
	s := NewScenario(
		WithPlayerAt(1, 1),
		WithObject(InteractiveObject{ID: "box", Kind: ObjectChest, Pos: Vec2{10, 1}, ObjectiveID: "loot", Quiet: true}),
		WithObjective("loot", "Loot"),
		WithZoneObjective("exit", "Exit", Rect{18, 0, 2, 2}),
		WithScript(
			Move(10, 1, true),
			Use("nothing-here"),
			Use("box"),
			Wait(500*time.Millisecond),
			Move(19, 1, false),
		),
	)
	r := s.RunScript(tick)
	if r == nil {
		dumpLog(t, s)
		t.Fatal("expected the script to finish the mission")
	}
	testutil.AssertEqual(t, "success", r.Success, true)
	testutil.AssertEqual(t, "rejected", len(s.Rejected), 1)
	testutil.AssertEqual(t, "rejected id", s.Rejected[0].Target, "nothing-here")
	// 9 units sneaking at 1.5/s is ~60 ticks, then 5 waiting, then ~26 walking
	// at 3/s until the exit zone is entered.
	if s.Tick < 90 || s.Tick > 96 {
		t.Fatalf("unexpected script length: %d ticks", s.Tick)
	}
}

func TestScenario_ThrowDrawsGuard(t *testing.T) {
	s := NewScenario(
		WithPlayerAt(1, 28),
		WithGuard(GuardStandard, 10, 5, 0),
		WithScript(Throw(14, 5, 3), Wait(3*time.Second)),
	)
	s.RunScript(tick)
	g := guard0(s)
	if g.State == GuardPatrol {
		t.Fatalf("guard ignored the thrown noise: %+v", g)
	}
	testutil.AssertEqual(t, "noise entry", s.SimLog.HasEntry("noise", "emit", "magnitude 3.00"), true)
}

func TestScenario_ScriptStopsAtWalls(t *testing.T) {
	s := NewScenario(
		WithPlayerAt(2, 10),
		WithObstacle(5, 5, 2, 10),
		WithScript(Move(10, 10, true), Move(2, 2, true)),
	)
	s.RunScript(tick)

	testutil.AssertEqual(t, "rejected", len(s.Rejected), 1)
	testutil.AssertEqual(t, "kind", s.Rejected[0].Kind, StepMove)
	testutil.AssertEqual(t, "logged", s.SimLog.CountCategory("script", "rejected"), 1)
	testutil.AssertEqual(t, "next step still ran", s.Enc.PlayerPosition(), Vec2{2, 2})
}
