package stealth

import (
	"fmt"
	"time"

	"github.com/Garsondee/Shadow-Sense/internal/logger"
)

// Player speeds used by scripted movement, units per second.
const (
	WalkSpeed  = 3.0
	SneakSpeed = 1.5
)

// maxScriptTicks bounds a single script run.
const maxScriptTicks = 100000

// StepKind is what a script step does.
type StepKind int

const (
	StepMove StepKind = iota
	StepInteract
	StepWait
	StepNoise
	StepComplete
)

func (k StepKind) String() string {
	switch k {
	case StepMove:
		return "move"
	case StepInteract:
		return "interact"
	case StepWait:
		return "wait"
	case StepNoise:
		return "noise"
	case StepComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ScriptStep is one scripted player action.
type ScriptStep struct {
	Kind      StepKind
	To        Vec2          // move target, or noise position
	Sneak     bool          // move
	Target    string        // object id for interact, objective id for complete
	Wait      time.Duration // wait
	Magnitude float64       // noise
}

// Move returns a step walking (or sneaking) to (x,y).
func Move(x, y float64, sneak bool) ScriptStep {
	return ScriptStep{Kind: StepMove, To: Vec2{x, y}, Sneak: sneak}
}

// Use returns a step interacting with an object.
func Use(objectID string) ScriptStep {
	return ScriptStep{Kind: StepInteract, Target: objectID}
}

// Wait returns a step standing still for d.
func Wait(d time.Duration) ScriptStep {
	return ScriptStep{Kind: StepWait, Wait: d}
}

// Throw returns a step making a noise at (x,y).
func Throw(x, y, magnitude float64) ScriptStep {
	return ScriptStep{Kind: StepNoise, To: Vec2{x, y}, Magnitude: magnitude}
}

// Complete returns a step completing an objective on the host's behalf.
func Complete(objectiveID string) ScriptStep {
	return ScriptStep{Kind: StepComplete, Target: objectiveID}
}

// Scenario is a headless encounter harness. It builds a mission from options
// and drives it tick by tick, the way a host game loop would.
type Scenario struct {
	Name    string
	Map     *Map
	Mission Mission
	Enc     *Encounter
	SimLog  *SimLog
	Script  []ScriptStep
	Started bool

	// Set when the encounter ends.
	Combat *CombatRequest
	Result *Result

	// Step failures recorded by RunScript.
	Rejected []ScriptStep

	Tick int

	encOpts []Option
}

type scenarioOptKind int

const (
	scenOptInfra   scenarioOptKind = iota // map size, walls, lights, spawn, logging
	scenOptGuard                          // guards, after the map exists
	scenOptMission                        // objects, objectives, skills, script
)

// ScenarioOption is a builder applied to a Scenario during construction.
type ScenarioOption struct {
	kind scenarioOptKind
	fn   func(*Scenario)
}

// WithName labels the scenario in reports.
func WithName(name string) ScenarioOption {
	return ScenarioOption{scenOptInfra, func(s *Scenario) { s.Name = name }}
}

// WithMapSize sets the map dimensions.
func WithMapSize(w, h float64) ScenarioOption {
	return ScenarioOption{scenOptInfra, func(s *Scenario) {
		s.Map.Width = w
		s.Map.Height = h
	}}
}

// WithObstacle adds a sight-blocking wall.
func WithObstacle(x, y, w, h float64) ScenarioOption {
	return ScenarioOption{scenOptInfra, func(s *Scenario) {
		s.Map.Obstacles = append(s.Map.Obstacles, Rect{x, y, w, h})
	}}
}

// WithSurface paints a surface zone. Later zones win.
func WithSurface(area Rect, kind SurfaceKind) ScenarioOption {
	return ScenarioOption{scenOptInfra, func(s *Scenario) {
		s.Map.Surfaces = append(s.Map.Surfaces, SurfaceZone{Area: area, Kind: kind})
	}}
}

// WithLight adds a light source.
func WithLight(l LightSource) ScenarioOption {
	return ScenarioOption{scenOptInfra, func(s *Scenario) {
		s.Map.Lights = append(s.Map.Lights, l)
	}}
}

// WithPlayerAt sets the player spawn.
func WithPlayerAt(x, y float64) ScenarioOption {
	return ScenarioOption{scenOptInfra, func(s *Scenario) {
		p := Vec2{x, y}
		s.Map.PlayerSpawn = &p
	}}
}

// WithoutPlayer clears the player spawn, leaving the map unstartable.
func WithoutPlayer() ScenarioOption {
	return ScenarioOption{scenOptInfra, func(s *Scenario) { s.Map.PlayerSpawn = nil }}
}

// WithVerbose enables per-tick position and detection samples.
func WithVerbose(v bool) ScenarioOption {
	return ScenarioOption{scenOptInfra, func(s *Scenario) { s.SimLog = NewSimLog(v) }}
}

// WithEncounterOptions passes options through to the Encounter, after the
// harness defaults (seed 1, discarded logging).
func WithEncounterOptions(opts ...Option) ScenarioOption {
	return ScenarioOption{scenOptInfra, func(s *Scenario) { s.encOpts = append(s.encOpts, opts...) }}
}

// WithGuard adds a guard at (x,y) facing the given heading, walking route.
func WithGuard(kind GuardKind, x, y, facing float64, route ...Waypoint) ScenarioOption {
	return ScenarioOption{scenOptGuard, func(s *Scenario) {
		s.Map.GuardSpawns = append(s.Map.GuardSpawns, GuardSpawn{
			Kind:   kind,
			Pos:    Vec2{x, y},
			Facing: facing,
			Route:  route,
		})
	}}
}

// WithNamedGuard is WithGuard with a display name.
func WithNamedGuard(name string, kind GuardKind, x, y, facing float64, route ...Waypoint) ScenarioOption {
	return ScenarioOption{scenOptGuard, func(s *Scenario) {
		s.Map.GuardSpawns = append(s.Map.GuardSpawns, GuardSpawn{
			Name:   name,
			Kind:   kind,
			Pos:    Vec2{x, y},
			Facing: facing,
			Route:  route,
		})
	}}
}

// WithDifficulty sets the mission difficulty.
func WithDifficulty(d int) ScenarioOption {
	return ScenarioOption{scenOptMission, func(s *Scenario) { s.Mission.Difficulty = d }}
}

// WithSkills sets the player's skills.
func WithSkills(survival, discipline float64) ScenarioOption {
	return ScenarioOption{scenOptMission, func(s *Scenario) {
		s.Mission.Skills = PlayerSkills{Survival: survival, Discipline: discipline}
	}}
}

// WithObjective adds a plain objective.
func WithObjective(id, text string) ScenarioOption {
	return ScenarioOption{scenOptMission, func(s *Scenario) {
		s.Mission.Objectives = append(s.Mission.Objectives, Objective{ID: id, Text: text})
	}}
}

// WithZoneObjective adds an objective completed by entering zone.
func WithZoneObjective(id, text string, zone Rect) ScenarioOption {
	return ScenarioOption{scenOptMission, func(s *Scenario) {
		z := zone
		s.Mission.Objectives = append(s.Mission.Objectives, Objective{ID: id, Text: text, Zone: &z})
	}}
}

// WithObject adds an interactive object.
func WithObject(o InteractiveObject) ScenarioOption {
	return ScenarioOption{scenOptMission, func(s *Scenario) {
		s.Mission.Objects = append(s.Mission.Objects, o)
	}}
}

// WithScript sets the scripted player route.
func WithScript(steps ...ScriptStep) ScenarioOption {
	return ScenarioOption{scenOptMission, func(s *Scenario) {
		s.Script = append(s.Script, steps...)
	}}
}

// NewScenario builds and starts a scenario in ordered passes:
//  1. Infrastructure (map size, walls, surfaces, lights, spawn, logging)
//  2. Guards
//  3. Mission (objects, objectives, difficulty, skills, script)
//  4. Encounter creation and Start
func NewScenario(opts ...ScenarioOption) *Scenario {
	spawn := Vec2{1, 1}
	s := &Scenario{
		Name:   "custom",
		Map:    &Map{Width: 40, Height: 30, PlayerSpawn: &spawn},
		SimLog: NewSimLog(false),
	}
	for _, kind := range []scenarioOptKind{scenOptInfra, scenOptGuard, scenOptMission} {
		for _, o := range opts {
			if o.kind == kind {
				o.fn(s)
			}
		}
	}

	s.Mission.Map = s.Map
	s.Mission.OnComplete = func(r Result) {
		res := r
		s.Result = &res
	}

	encOpts := []Option{
		WithSeed(1),
		WithLogger(logger.Discard()),
		WithEventLog(s.SimLog),
	}
	s.Enc = New(append(encOpts, s.encOpts...)...)
	s.Started = s.Enc.Start(s.Mission)
	return s
}

// Done reports whether the encounter has ended.
func (s *Scenario) Done() bool { return !s.Enc.Active() }

// step advances one tick and records a combat hand-off.
func (s *Scenario) step(dt time.Duration) {
	s.Tick++
	if req := s.Enc.Tick(dt); req != nil {
		s.Combat = req
	}
}

// RunTicks advances up to n ticks of dt, stopping if the encounter ends.
// Returns the number of ticks run.
func (s *Scenario) RunTicks(n int, dt time.Duration) int {
	ran := 0
	for ; ran < n && !s.Done(); ran++ {
		s.step(dt)
	}
	return ran
}

// RunUntil advances up to maxTicks, stopping early once pred holds. Returns
// the tick at which pred was satisfied, or -1.
func (s *Scenario) RunUntil(pred func(*Scenario) bool, maxTicks int, dt time.Duration) int {
	for i := 0; i < maxTicks && !s.Done(); i++ {
		s.step(dt)
		if pred(s) {
			return s.Tick
		}
	}
	return -1
}

// RunScript plays the script with ticks of dt until it is exhausted or the
// encounter ends, and returns the result if it ended.
func (s *Scenario) RunScript(dt time.Duration) *Result {
	if dt <= 0 {
		return s.Result
	}
	budget := maxScriptTicks
	for _, st := range s.Script {
		if s.Done() || budget <= 0 {
			break
		}
		switch st.Kind {
		case StepMove:
			speed := WalkSpeed
			if st.Sneak {
				speed = SneakSpeed
			}
			to := s.Map.Clamp(st.To)
			for !s.Done() && budget > 0 {
				pos := s.Enc.PlayerPosition()
				d := pos.DistanceTo(to)
				if d < 1e-6 {
					break
				}
				stride := speed * dt.Seconds()
				next := to
				if d > stride {
					next = pos.Lerp(to, stride/d)
				}
				if !s.Enc.MovePlayer(next, st.Sneak) {
					if !s.Done() {
						s.reject(st)
					}
					break
				}
				if s.Done() {
					break
				}
				s.step(dt)
				budget--
			}
		case StepInteract:
			if !s.Enc.Interact(st.Target) {
				s.reject(st)
			}
		case StepComplete:
			if !s.Enc.CompleteObjective(st.Target) {
				s.reject(st)
			}
		case StepNoise:
			if !s.Enc.EmitNoise(st.To, st.Magnitude) {
				s.reject(st)
			}
		case StepWait:
			for left := st.Wait; left > 0 && !s.Done() && budget > 0; left -= dt {
				s.step(dt)
				budget--
			}
		}
	}
	return s.Result
}

func (s *Scenario) reject(st ScriptStep) {
	s.Rejected = append(s.Rejected, st)
	s.SimLog.Add(s.Tick, "player", "script", "rejected", fmt.Sprintf("%s %s", st.Kind, st.Target), 0)
}

// Summary renders the scenario's state for reports.
func (s *Scenario) Summary() string {
	return s.SimLog.Summary(s.Enc.Snapshot())
}
