package stealth

import (
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func objectScenario(extra ...ScenarioOption) *Scenario {
	opts := []ScenarioOption{WithPlayerAt(2, 1)}
	return NewScenario(append(opts, extra...)...)
}

func TestInteract_DoorToggles(t *testing.T) {
	s := objectScenario(WithObject(InteractiveObject{ID: "door", Kind: ObjectDoor, Pos: Vec2{3, 1}}))

	if !s.Enc.Interact("door") {
		t.Fatal("door in reach should open")
	}
	d, _ := s.Enc.Object("door")
	testutil.AssertEqual(t, "open", d.Open, true)
	n, ok := s.Enc.LastNoise()
	testutil.AssertEqual(t, "noisy", ok, true)
	testutil.AssertEqual(t, "noise at door", n, Vec2{3, 1})
	testutil.AssertEqual(t, "alert", s.Enc.AlertLevel(), AlertSuspicious)

	if !s.Enc.Interact("door") {
		t.Fatal("door should close again")
	}
	d, _ = s.Enc.Object("door")
	testutil.AssertEqual(t, "closed", d.Open, false)
}

func TestInteract_QuietDoor(t *testing.T) {
	s := objectScenario(WithObject(InteractiveObject{ID: "door", Kind: ObjectDoor, Pos: Vec2{3, 1}, Quiet: true}))
	s.Enc.Interact("door")
	if _, ok := s.Enc.LastNoise(); ok {
		t.Fatal("quiet door made noise")
	}
	testutil.AssertEqual(t, "alert", s.Enc.AlertLevel(), 0.0)
}

func TestInteract_Rejections(t *testing.T) {
	s := objectScenario(
		WithObject(InteractiveObject{ID: "far", Kind: ObjectDoor, Pos: Vec2{5, 1}}),
		WithObject(InteractiveObject{ID: "wide", Kind: ObjectDoor, Pos: Vec2{5, 1}, Radius: 4}),
	)
	testutil.AssertEqual(t, "out of reach", s.Enc.Interact("far"), false)
	testutil.AssertEqual(t, "unknown", s.Enc.Interact("nope"), false)
	testutil.AssertEqual(t, "custom radius", s.Enc.Interact("wide"), true)

	far, _ := s.Enc.Object("far")
	testutil.AssertEqual(t, "untouched", far.Open, false)
	testutil.AssertEqual(t, "default radius", far.Radius, 1.5)
}

func TestInteract_ChestOpensOnce(t *testing.T) {
	s := objectScenario(
		WithObject(InteractiveObject{ID: "box", Kind: ObjectChest, Pos: Vec2{3, 1}, ObjectiveID: "loot"}),
		WithObjective("loot", "Take the loot"),
		WithObjective("leave", "Leave"),
	)
	testutil.AssertEqual(t, "first", s.Enc.Interact("box"), true)
	testutil.AssertEqual(t, "second", s.Enc.Interact("box"), false)
	testutil.AssertEqual(t, "objective", s.Enc.Objectives()[0].Completed, true)
	testutil.AssertEqual(t, "still running", s.Enc.Active(), true)
	n, _ := s.Enc.LastNoise()
	testutil.AssertEqual(t, "noise at chest", n, Vec2{3, 1})
	testutil.AssertEqual(t, "quiet enough", s.Enc.AlertLevel(), 0.0)
}

func TestInteract_LeverSideEffects(t *testing.T) {
	s := objectScenario(
		WithLight(LightSource{ID: "lamp", Pos: Vec2{10, 10}, Radius: 3, Brightness: 1}),
		WithObject(InteractiveObject{ID: "gate", Kind: ObjectDoor, Pos: Vec2{20, 20}}),
		WithObject(InteractiveObject{
			ID: "lever", Kind: ObjectLever, Pos: Vec2{3, 1},
			Effects: []SideEffect{
				{Kind: EffectToggleDoor, TargetID: "gate"},
				{Kind: EffectToggleLight, TargetID: "lamp"},
				{Kind: EffectToggleLight, TargetID: "missing"},
			},
		}),
	)
	testutil.AssertEqual(t, "lamp starts on", s.Enc.LightActive("lamp"), true)

	testutil.AssertEqual(t, "pull", s.Enc.Interact("lever"), true)
	gate, _ := s.Enc.Object("gate")
	lever, _ := s.Enc.Object("lever")
	testutil.AssertEqual(t, "gate", gate.Open, true)
	testutil.AssertEqual(t, "lamp", s.Enc.LightActive("lamp"), false)
	testutil.AssertEqual(t, "lever", lever.Active, true)
	if _, ok := s.Enc.LastNoise(); !ok {
		t.Fatal("lever should make noise")
	}

	s.Enc.Interact("lever")
	gate, _ = s.Enc.Object("gate")
	testutil.AssertEqual(t, "gate back", gate.Open, false)
	testutil.AssertEqual(t, "lamp back", s.Enc.LightActive("lamp"), true)
	testutil.AssertEqual(t, "unknown light", s.Enc.LightActive("missing"), false)
}

func TestInteract_DistractionRunsDown(t *testing.T) {
	s := objectScenario(WithObject(InteractiveObject{ID: "bell", Kind: ObjectDistraction, Pos: Vec2{3, 1}, Duration: time.Second}))

	testutil.AssertEqual(t, "ring", s.Enc.Interact("bell"), true)
	testutil.AssertEqual(t, "alert", s.Enc.AlertLevel(), AlertSearching)
	testutil.AssertEqual(t, "busy", s.Enc.Interact("bell"), false)

	s.RunTicks(9, tick)
	bell, _ := s.Enc.Object("bell")
	testutil.AssertEqual(t, "still ringing", bell.Active, true)
	s.RunTicks(1, tick)
	bell, _ = s.Enc.Object("bell")
	testutil.AssertEqual(t, "quiet", bell.Active, false)
	testutil.AssertEqual(t, "expiry logged", s.SimLog.HasEntry("object", "expired", ""), true)

	testutil.AssertEqual(t, "ring again", s.Enc.Interact("bell"), true)
}

func TestInteract_DistractionDefaultDuration(t *testing.T) {
	s := objectScenario(WithObject(InteractiveObject{ID: "bell", Kind: ObjectDistraction, Pos: Vec2{3, 1}}))
	s.Enc.Interact("bell")
	bell, _ := s.Enc.Object("bell")
	testutil.AssertEqual(t, "remaining", bell.Remaining, 5*time.Second)
}

func TestObjectives_LastOneEndsEncounter(t *testing.T) {
	var done []string
	s := objectScenario(
		WithObject(InteractiveObject{ID: "box", Kind: ObjectChest, Pos: Vec2{3, 1}, ObjectiveID: "loot"}),
		WithObjective("loot", "Take the loot"),
		WithEncounterOptions(WithListener(ListenerFuncs{ObjectiveCompleted: func(o Objective) { done = append(done, o.ID) }})),
	)
	s.Enc.Interact("box")

	testutil.AssertEqual(t, "active", s.Enc.Active(), false)
	if s.Result == nil {
		t.Fatal("expected a result")
	}
	testutil.AssertEqual(t, "success", s.Result.Success, true)
	testutil.AssertEqual(t, "outcome", s.Result.Outcome, OutcomeSuccess)
	testutil.AssertEqual(t, "completed", s.Result.ObjectivesCompleted, 1)
	testutil.AssertEqual(t, "total", s.Result.ObjectivesTotal, 1)
	testutil.AssertEqual(t, "events", len(done), 1)
}

func TestObjectives_ZoneCompletesOnEntry(t *testing.T) {
	s := objectScenario(
		WithObject(InteractiveObject{ID: "box", Kind: ObjectChest, Pos: Vec2{3, 1}, ObjectiveID: "loot"}),
		WithObjective("loot", "Take the loot"),
		WithZoneObjective("exit", "Reach the gate", Rect{30, 20, 5, 5}),
	)
	s.Enc.MovePlayer(Vec2{32, 22}, true)
	testutil.AssertEqual(t, "exit done", s.Enc.Objectives()[1].Completed, true)
	testutil.AssertEqual(t, "running", s.Enc.Active(), true)

	s.Enc.MovePlayer(Vec2{2, 1}, true)
	testutil.AssertEqual(t, "exit stays done", s.Enc.Objectives()[1].Completed, true)
	s.Enc.Interact("box")
	testutil.AssertEqual(t, "finished", s.Enc.Active(), false)
	testutil.AssertEqual(t, "success", s.Result.Success, true)
}

func TestObjectives_ZoneAtSpawnNeedsAMove(t *testing.T) {
	s := objectScenario(
		WithZoneObjective("stay", "Hold position", Rect{0, 0, 4, 4}),
		WithObjective("other", "Something else"),
	)
	testutil.AssertEqual(t, "not yet", s.Enc.Objectives()[0].Completed, false)
	s.Enc.MovePlayer(Vec2{2, 1}, false)
	testutil.AssertEqual(t, "done", s.Enc.Objectives()[0].Completed, true)
}

func TestCompleteObjective(t *testing.T) {
	s := objectScenario(WithObjective("a", "A"), WithObjective("b", "B"))
	testutil.AssertEqual(t, "first", s.Enc.CompleteObjective("a"), true)
	testutil.AssertEqual(t, "repeat", s.Enc.CompleteObjective("a"), false)
	testutil.AssertEqual(t, "unknown", s.Enc.CompleteObjective("zzz"), false)
	testutil.AssertEqual(t, "last", s.Enc.CompleteObjective("b"), true)
	testutil.AssertEqual(t, "ended", s.Enc.Active(), false)
	testutil.AssertEqual(t, "after end", s.Enc.CompleteObjective("a"), false)
}

func TestObjectives_CopiesAreDetached(t *testing.T) {
	s := objectScenario(WithObjective("a", "A"), WithObjective("b", "B"))
	objs := s.Enc.Objectives()
	objs[0].Completed = true
	testutil.AssertEqual(t, "internal state", s.Enc.Objectives()[0].Completed, false)
}

func TestObjectives_CombatBeatsLastObjective(t *testing.T) {
	s := objectScenario(
		WithGuard(GuardElite, 3.5, 1, 0),
		WithObject(InteractiveObject{ID: "box", Kind: ObjectChest, Pos: Vec2{3, 1}, ObjectiveID: "loot"}),
		WithObjective("loot", "Take the loot"),
	)
	for i := 0; i < 3; i++ {
		s.Enc.EmitNoise(Vec2{3.5, 1}, 3)
	}
	testutil.AssertEqual(t, "detection", guard0(s).Detection, 75.0)

	// chest noise: factor (1 - 0.5/4) * 1.3 > 1, a full 25 boost
	testutil.AssertEqual(t, "opened", s.Enc.Interact("box"), true)
	testutil.AssertEqual(t, "guard", guard0(s).State, GuardCombat)
	testutil.AssertEqual(t, "objective", s.Enc.Objectives()[0].Completed, true)
	testutil.AssertEqual(t, "still running", s.Enc.Active(), true)
	if s.Result != nil {
		t.Fatalf("mission should not succeed with a guard in combat, got %+v", s.Result)
	}

	req := s.Enc.Tick(tick)
	if req == nil {
		t.Fatal("expected the combat hand-off on the next tick")
	}
	testutil.AssertEqual(t, "enemies", len(req.Enemies), 1)
	testutil.AssertEqual(t, "outcome", s.Result.Outcome, OutcomeDetected)
	testutil.AssertEqual(t, "success", s.Result.Success, false)
	testutil.AssertEqual(t, "objectives", s.Result.ObjectivesCompleted, 1)
}

func TestCompleteObjective_WaitsForCombatHandOff(t *testing.T) {
	s := objectScenario(
		WithGuard(GuardStandard, 10, 1, 0),
		WithObjective("a", "A"),
	)
	for i := 0; i < 4; i++ {
		s.Enc.EmitNoise(Vec2{10, 1}, 3)
	}
	testutil.AssertEqual(t, "alert", s.Enc.AlertLevel(), AlertCombat)

	testutil.AssertEqual(t, "completed", s.Enc.CompleteObjective("a"), true)
	testutil.AssertEqual(t, "still running", s.Enc.Active(), true)
	if req := s.Enc.Tick(tick); req == nil {
		t.Fatal("expected the combat hand-off")
	}
	testutil.AssertEqual(t, "outcome", s.Result.Outcome, OutcomeDetected)
}
