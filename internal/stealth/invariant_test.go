package stealth

import (
	"fmt"
	"testing"
	"time"
)

// --- Invariant helpers ---

// invariantWatcher checks every published snapshot against the one before.
type invariantWatcher struct {
	t        *testing.T
	name     string
	prev     *Snapshot
	searched bool
	ended    int
}

func (w *invariantWatcher) listener() Listener {
	return ListenerFuncs{
		State:  w.observe,
		Result: func(Result) { w.ended++ },
	}
}

func (w *invariantWatcher) observe(s Snapshot) {
	w.t.Helper()
	defer func() { w.prev = &s }()

	if s.AlertLevel < AlertUnaware || s.AlertLevel > AlertCombat {
		w.t.Errorf("%s T=%d: alert %.2f out of range", w.name, s.Tick, s.AlertLevel)
	}
	for _, g := range s.Guards {
		if g.Detection < 0 || g.Detection > MaxDetection {
			w.t.Errorf("%s T=%d: %s detection %.2f out of range", w.name, s.Tick, g.Label, g.Detection)
		}
	}

	if w.prev == nil || w.prev.EncounterID != s.EncounterID {
		return
	}
	p := w.prev

	if s.AlertLevel < p.AlertLevel {
		for _, g := range s.Guards {
			if g.State != GuardSearch {
				w.t.Errorf("%s T=%d: alert fell %.2f → %.2f while %s was %s",
					w.name, s.Tick, p.AlertLevel, s.AlertLevel, g.Label, g.State)
			}
		}
		if w.searched && s.AlertLevel < AlertSuspicious {
			w.t.Errorf("%s T=%d: alert decayed below suspicious to %.2f", w.name, s.Tick, s.AlertLevel)
		}
	}

	for i, g := range s.Guards {
		if g.Detection < p.Guards[i].Detection {
			w.t.Errorf("%s T=%d: %s detection fell %.2f → %.2f",
				w.name, s.Tick, g.Label, p.Guards[i].Detection, g.Detection)
		}
		if p.Guards[i].State == GuardCombat && g.State != GuardCombat {
			w.t.Errorf("%s T=%d: %s left combat", w.name, s.Tick, g.Label)
		}
		if g.State == GuardSearch {
			w.searched = true
		}
	}

	for i, o := range s.Objectives {
		if p.Objectives[i].Completed && !o.Completed {
			w.t.Errorf("%s T=%d: objective %s reverted", w.name, s.Tick, o.ID)
		}
	}
}

func TestInvariants_BuiltinScenarios(t *testing.T) {
	for _, name := range ScenarioNames() {
		for _, difficulty := range []int{1, 3, 5} {
			for seed := int64(1); seed <= 3; seed++ {
				label := fmt.Sprintf("%s/d%d/s%d", name, difficulty, seed)
				t.Run(label, func(t *testing.T) {
					w := &invariantWatcher{t: t, name: label}
					s, err := BuiltinScenario(name,
						WithDifficulty(difficulty),
						WithEncounterOptions(WithSeed(seed), WithListener(w.listener())),
					)
					if err != nil {
						t.Fatal(err)
					}
					if !s.Started {
						t.Fatal("built-in scenario failed to start")
					}
					s.RunScript(tick)
					s.RunTicks(600, tick)

					if s.Enc.Active() {
						s.Enc.End(false)
					}
					if w.ended != 1 {
						t.Fatalf("expected exactly one result, got %d", w.ended)
					}
					if s.Combat != nil && s.Result.Outcome != OutcomeDetected {
						t.Fatalf("combat hand-off with outcome %s", s.Result.Outcome)
					}
					if s.Result.Success && s.Result.ObjectivesCompleted != s.Result.ObjectivesTotal {
						t.Fatalf("success with %d/%d objectives", s.Result.ObjectivesCompleted, s.Result.ObjectivesTotal)
					}
				})
			}
		}
	}
}

func TestInvariants_RandomWalk(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		label := fmt.Sprintf("walk/s%d", seed)
		t.Run(label, func(t *testing.T) {
			w := &invariantWatcher{t: t, name: label}
			s := NewScenario(
				WithMapSize(30, 20),
				WithPlayerAt(2, 2),
				WithObstacle(10, 5, 2, 10),
				WithLight(LightSource{ID: "l", Pos: Vec2{15, 10}, Radius: 5, Brightness: 0.5}),
				WithGuard(GuardStandard, 20, 5, 180, wp(5, 3), wp(25, 3)),
				WithGuard(GuardDog, 25, 15, 90, wp(25, 18), wp(15, 18)),
				WithGuard(GuardSleepy, 5, 15, 0),
				WithObjective("hold", "Never completed"),
				WithEncounterOptions(WithSeed(seed), WithListener(w.listener())),
			)

			script := make([]ScriptStep, 0, 24)
			for i := 0; i < 20; i++ {
				x := float64((int(seed)*7+i*11)%30) + 0.5
				y := float64((int(seed)*3+i*5)%20) + 0.5
				script = append(script, Move(x, y, i%2 == 0))
				if i%5 == 4 {
					script = append(script, Wait(time.Second))
				}
			}
			s.Script = script
			s.RunScript(tick)
			s.RunTicks(300, tick)
		})
	}
}
