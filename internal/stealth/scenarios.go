package stealth

import (
	"fmt"
	"sort"
	"time"
)

var builtins = map[string]func() []ScenarioOption{
	"courtyard": courtyard,
	"warehouse": warehouse,
	"kennel":    kennel,
}

// ScenarioNames lists the built-in scenarios in name order.
func ScenarioNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// BuiltinScenario builds a named scenario. Extra options are applied after
// the scenario's own, so they can override seed, difficulty or skills.
func BuiltinScenario(name string, extra ...ScenarioOption) (*Scenario, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	opts := append(build(), WithName(name))
	return NewScenario(append(opts, extra...)...), nil
}

func wp(x, y float64) Waypoint { return Waypoint{Pos: Vec2{x, y}} }

// courtyard: a lit fountain yard with one patrol and a drowsy gate guard.
// The player douses a torch, loots the strongbox and leaves by the gate.
func courtyard() []ScenarioOption {
	return []ScenarioOption{
		WithMapSize(40, 30),
		WithPlayerAt(2, 2),
		WithSurface(Rect{0, 0, 40, 30}, SurfaceGrass),
		WithSurface(Rect{12, 8, 16, 14}, SurfaceStone),
		WithSurface(Rect{0, 14, 12, 2}, SurfaceGravel),
		WithObstacle(18, 13, 4, 4), // fountain
		WithObstacle(8, 4, 2, 8),
		WithObstacle(30, 18, 2, 8),
		WithLight(LightSource{ID: "torch-west", Pos: Vec2{11, 15}, Radius: 6, Brightness: 0.8}),
		WithLight(LightSource{ID: "torch-east", Pos: Vec2{29, 15}, Radius: 6, Brightness: 0.8}),

		WithNamedGuard("Yard Watch", GuardStandard, 14, 10, 0,
			wp(26, 10), wp(26, 20), wp(14, 20), wp(14, 10)),
		WithNamedGuard("Gatekeeper", GuardSleepy, 36, 24, 90),

		WithObject(InteractiveObject{
			ID: "torch-lever", Kind: ObjectLever, Pos: Vec2{3, 27},
			Effects: []SideEffect{{Kind: EffectToggleLight, TargetID: "torch-east"}},
		}),
		WithObject(InteractiveObject{ID: "strongbox", Kind: ObjectChest, Pos: Vec2{34, 4}, ObjectiveID: "loot"}),
		WithObjective("loot", "Steal the strongbox"),
		WithZoneObjective("exit", "Slip out through the south gate", Rect{37, 27, 3, 3}),
		WithScript(
			Move(3, 26, true),
			Use("torch-lever"),
			Move(3, 4, true),
			Move(33, 3, true),
			Use("strongbox"),
			Wait(time.Second),
			Move(38, 12, true),
			Move(38, 28, true),
		),
	}
}

// warehouse: shelving aisles, an elite on the floor and an archer on the
// catwalk. A thrown bottle pulls the elite away from the office.
func warehouse() []ScenarioOption {
	return []ScenarioOption{
		WithMapSize(50, 30),
		WithPlayerAt(2, 27),
		WithSurface(Rect{0, 0, 50, 30}, SurfaceStone),
		WithSurface(Rect{38, 2, 10, 8}, SurfaceCarpet), // office
		WithSurface(Rect{0, 12, 36, 1.5}, SurfaceMetal), // catwalk
		WithObstacle(6, 4, 2, 6),
		WithObstacle(14, 4, 2, 6),
		WithObstacle(22, 4, 2, 6),
		WithObstacle(6, 16, 2, 8),
		WithObstacle(14, 16, 2, 8),
		WithObstacle(22, 16, 2, 8),
		WithObstacle(36, 0, 1, 9), // office wall
		WithLight(LightSource{ID: "office-lamp", Pos: Vec2{43, 6}, Radius: 5, Brightness: 1.0}),
		WithLight(LightSource{Pos: Vec2{25, 27}, Radius: 4, Brightness: 0.5}),

		WithNamedGuard("Foreman", GuardElite, 30, 20, 180,
			Waypoint{Pos: Vec2{30, 26}, Wait: 3 * time.Second}, wp(30, 11)),
		WithNamedGuard("Catwalk Archer", GuardArcher, 4, 12.5, 0,
			Waypoint{Pos: Vec2{32, 12.5}, Wait: 4 * time.Second}, Waypoint{Pos: Vec2{4, 12.5}, Wait: 4 * time.Second}),

		WithObject(InteractiveObject{ID: "bottle", Kind: ObjectDistraction, Pos: Vec2{20, 27}, Duration: 4 * time.Second}),
		WithObject(InteractiveObject{ID: "office-door", Kind: ObjectDoor, Pos: Vec2{36.5, 10}}),
		WithObject(InteractiveObject{ID: "ledger", Kind: ObjectChest, Pos: Vec2{45, 4}, Quiet: true, ObjectiveID: "ledger"}),
		WithObjective("ledger", "Take the shipping ledger"),
		WithZoneObjective("out", "Leave by the loading bay", Rect{0, 26, 3, 4}),
		WithScript(
			Move(19, 27, true),
			Use("bottle"),
			Move(34, 28, true),
			Move(35, 11, true),
			Use("office-door"),
			Move(44, 5, true),
			Use("ledger"),
			Move(38, 11, true),
			Move(34, 28, true),
			Move(1, 28, true),
		),
	}
}

// kennel: a dog on a short leash near the gate lever. Smell ignores walls,
// so the only quiet route keeps outside the dog's nose.
func kennel() []ScenarioOption {
	return []ScenarioOption{
		WithMapSize(30, 20),
		WithPlayerAt(2, 18),
		WithSurface(Rect{0, 0, 30, 20}, SurfaceGrass),
		WithSurface(Rect{10, 0, 10, 20}, SurfaceGravel),
		WithObstacle(12, 6, 6, 1),
		WithObstacle(12, 13, 6, 1),
		WithLight(LightSource{ID: "yard-lamp", Pos: Vec2{15, 10}, Radius: 5, Brightness: 0.6}),

		WithNamedGuard("Rex", GuardDog, 15, 3, 0, wp(20, 3), wp(10, 3)),
		WithNamedGuard("Handler", GuardStandard, 25, 16, 180,
			Waypoint{Pos: Vec2{25, 10}, Wait: 2 * time.Second}, Waypoint{Pos: Vec2{25, 16}, Wait: 2 * time.Second}),

		WithObject(InteractiveObject{
			ID: "gate-lever", Kind: ObjectLever, Pos: Vec2{5, 10}, ObjectiveID: "gate",
			Effects: []SideEffect{
				{Kind: EffectToggleDoor, TargetID: "kennel-gate"},
				{Kind: EffectToggleLight, TargetID: "yard-lamp"},
			},
		}),
		WithObject(InteractiveObject{ID: "kennel-gate", Kind: ObjectDoor, Pos: Vec2{28, 10}, Quiet: true}),
		WithObjective("gate", "Open the kennel gate"),
		WithZoneObjective("escape", "Get through the gate", Rect{27, 8, 3, 4}),
		WithScript(
			Move(5, 11, true),
			Use("gate-lever"),
			Move(8, 10, true),
			Move(20, 10, true),
			Wait(2*time.Second),
			Move(28, 10, true),
		),
	}
}
