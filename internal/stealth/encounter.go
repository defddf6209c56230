package stealth

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Shadow-Sense/internal/logger"
)

// PlayerSkills are the host's skill levels that shape stealth. Higher values
// shrink guard sight and quieten movement.
type PlayerSkills struct {
	Survival   float64
	Discipline float64
}

func (s PlayerSkills) blend(t Tuning) float64 {
	return t.SurvivalWeight*s.Survival + t.DisciplineWeight*s.Discipline
}

// Mission is everything needed to start an encounter.
type Mission struct {
	Map        *Map
	Objectives []Objective
	Objects    []InteractiveObject
	Difficulty int // 1-5; zero uses the tuning default
	Skills     PlayerSkills
	OnComplete func(Result)
}

// Option configures an Encounter.
type Option func(*Encounter)

// WithTuning replaces the default tuning.
func WithTuning(t Tuning) Option {
	return func(e *Encounter) { e.tuning = t }
}

// WithLogger sets the logger. The default is built from the environment.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Encounter) { e.log = l }
}

// WithRand sets the random source used by searching guards.
func WithRand(r *rand.Rand) Option {
	return func(e *Encounter) { e.rng = r }
}

// WithSeed seeds the random source for deterministic runs.
func WithSeed(seed int64) Option {
	return func(e *Encounter) { e.rng = rand.New(rand.NewSource(seed)) } // #nosec G404 -- gameplay randomness
}

// WithListener registers the host's event listener.
func WithListener(l Listener) Option {
	return func(e *Encounter) { e.listener = l }
}

// WithEventLog records events into sl instead of a private log.
func WithEventLog(sl *SimLog) Option {
	return func(e *Encounter) { e.simLog = sl }
}

// Encounter runs one stealth mission at a time. It is not safe for
// concurrent use; the host drives it from a single loop.
type Encounter struct {
	tuning   Tuning
	log      logrus.FieldLogger
	rng      *rand.Rand
	listener Listener
	simLog   *SimLog

	id     string
	active bool
	m      *Map
	nav    *NavGrid

	player      Vec2
	hasPlayer   bool
	playerMoved bool

	lastNoise    Vec2
	hasLastNoise bool

	alert       float64
	anySearched bool
	stimulus    bool

	difficulty      int
	detectionRadius float64
	detectionScale  float64
	noiseBonus      float64

	guards     []*Guard
	objects    []*InteractiveObject
	objIndex   map[string]*InteractiveObject
	lightOn    []bool
	lightIndex map[string]int
	objectives []Objective
	completed  int
	onComplete func(Result)

	tick    int
	elapsed time.Duration
}

// New creates an idle encounter.
func New(opts ...Option) *Encounter {
	e := &Encounter{
		tuning:   DefaultTuning(),
		listener: NopListener{},
	}
	for _, o := range opts {
		o(e)
	}
	if e.log == nil {
		e.log = logger.New()
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- gameplay randomness
	}
	if e.listener == nil {
		e.listener = NopListener{}
	}
	if e.simLog == nil {
		e.simLog = NewSimLog(false)
	}
	return e
}

func (e *Encounter) logEntry() *logrus.Entry {
	return e.log.WithFields(logrus.Fields{
		"component": "stealth",
		"encounter": e.id,
	})
}

// Start begins a mission, discarding any encounter already running. It
// returns false and changes nothing when the mission's map is unusable.
func (e *Encounter) Start(m Mission) bool {
	if m.Map == nil {
		e.log.WithField("component", "stealth").Warn("start rejected: mission has no map")
		return false
	}
	if err := m.Map.Validate(); err != nil {
		e.log.WithField("component", "stealth").WithError(err).Warn("start rejected: invalid map")
		return false
	}
	if err := e.tuning.Validate(); err != nil {
		e.log.WithField("component", "stealth").WithError(err).Warn("start rejected: invalid tuning")
		return false
	}
	if e.active {
		e.logEntry().Info("discarding active encounter")
	}

	t := e.tuning
	*e = Encounter{
		tuning:   t,
		log:      e.log,
		rng:      e.rng,
		listener: e.listener,
		simLog:   e.simLog,
	}
	e.id = uuid.New().String()
	e.m = m.Map
	e.onComplete = m.OnComplete

	e.difficulty = m.Difficulty
	if e.difficulty == 0 {
		e.difficulty = t.DefaultDifficulty
	}
	e.difficulty = max(1, min(5, e.difficulty))

	skill := m.Skills.blend(t)
	radius := t.BaseDetectionRadius*(1+t.DifficultyRadiusStep*float64(e.difficulty-2)) - skill*t.SkillRadiusReduction
	e.detectionRadius = clamp(radius, t.MinDetectionRadius, t.MaxDetectionRadius)
	e.detectionScale = e.detectionRadius / t.BaseDetectionRadius
	e.noiseBonus = clamp(skill*t.SkillNoiseBonus, 0, t.MaxNoiseBonus)

	e.player = *m.Map.PlayerSpawn
	e.hasPlayer = true

	if t.PathAroundObstacles && len(m.Map.Obstacles) > 0 {
		e.nav = NewNavGrid(m.Map.Width, m.Map.Height, m.Map.Obstacles, t.NavCellSize, t.GuardRadius)
	}

	for i, sp := range m.Map.GuardSpawns {
		e.guards = append(e.guards, newGuard(i, sp, e.detectionScale))
	}

	e.objIndex = make(map[string]*InteractiveObject, len(m.Objects))
	for _, o := range m.Objects {
		obj := o
		obj.Effects = append([]SideEffect(nil), o.Effects...)
		if obj.Radius <= 0 {
			obj.Radius = t.DefaultInteractRadius
		}
		if _, dup := e.objIndex[obj.ID]; dup {
			e.logEntry().WithField("object", obj.ID).Warn("duplicate object id; later definition wins")
		}
		e.objects = append(e.objects, &obj)
		e.objIndex[obj.ID] = &obj
	}

	e.lightOn = make([]bool, len(m.Map.Lights))
	e.lightIndex = make(map[string]int, len(m.Map.Lights))
	for i, l := range m.Map.Lights {
		e.lightOn[i] = true
		if l.ID != "" {
			e.lightIndex[l.ID] = i
		}
	}

	e.objectives = make([]Objective, len(m.Objectives))
	for i, o := range m.Objectives {
		o.Completed = false
		if o.Zone != nil {
			z := *o.Zone
			o.Zone = &z
		}
		e.objectives[i] = o
	}

	e.active = true

	e.simLog.Add(0, "--", "encounter", "start",
		fmt.Sprintf("difficulty=%d guards=%d objectives=%d radius=%.2f", e.difficulty, len(e.guards), len(e.objectives), e.detectionRadius),
		e.detectionRadius)
	e.logEntry().WithFields(logrus.Fields{
		"difficulty":       e.difficulty,
		"guards":           len(e.guards),
		"objectives":       len(e.objectives),
		"detection_radius": e.detectionRadius,
		"noise_bonus":      e.noiseBonus,
	}).Info("encounter started")

	e.listener.OnState(e.Snapshot())
	return true
}

// Tick advances the simulation by dt. When the alert level has reached
// combat, the encounter ends as a failure and the returned request describes
// the guards the host should fight. Otherwise it returns nil.
func (e *Encounter) Tick(dt time.Duration) *CombatRequest {
	if !e.active {
		return nil
	}
	if dt < 0 {
		dt = 0
	}
	e.tick++
	e.elapsed += dt

	for _, g := range e.guards {
		e.updateGuard(g, dt)
		e.detect(g)
	}
	e.updateObjects(dt)
	e.applyDecay(dt)

	if e.simLog.Verbose() {
		e.recordSamples()
	}
	e.playerMoved = false
	e.stimulus = false

	e.listener.OnState(e.Snapshot())

	if e.alert >= AlertCombat {
		req := e.combatRequest()
		e.logEntry().WithField("enemies", len(req.Enemies)).Info("player detected; handing off to combat")
		e.finish(false)
		e.listener.OnCombat(req)
		return &req
	}
	return nil
}

// MovePlayer moves the player to pos, clamped to the map. Movement makes
// noise in proportion to the distance covered; sneaking halves it. A move
// ending inside an obstacle is refused and the player stays put.
func (e *Encounter) MovePlayer(pos Vec2, sneaking bool) bool {
	if !e.active || !e.hasPlayer {
		return false
	}
	pos = e.m.Clamp(pos)
	if e.m.Blocked(pos) {
		e.logEntry().WithField("to", fmt.Sprintf("(%.1f,%.1f)", pos.X, pos.Y)).Debug("move rejected: inside obstacle")
		return false
	}
	dist := e.player.DistanceTo(pos)
	e.player = pos
	if dist <= 0 {
		e.checkZoneObjectives()
		return true
	}
	e.playerMoved = true

	t := e.tuning
	noise := dist
	if sneaking {
		noise *= t.SneakNoiseFactor
	}
	noise *= e.m.SurfaceAt(pos).NoiseFactor()
	noise *= 1 - e.noiseBonus

	if noise > t.MoveNoiseThreshold {
		e.propagateNoise(pos, noise, "player")
	}
	e.checkZoneObjectives()
	return true
}

// End stops the encounter and reports its result. It returns nil when no
// encounter is running, so calling it twice is harmless.
func (e *Encounter) End(success bool) *Result {
	if !e.active {
		return nil
	}
	r := e.finish(success)
	return &r
}

func (e *Encounter) finish(success bool) Result {
	e.active = false

	outcome := OutcomeAborted
	switch {
	case success:
		outcome = OutcomeSuccess
	case e.alert >= AlertCombat:
		outcome = OutcomeDetected
	}

	alerted := 0
	for _, g := range e.guards {
		if g.state != GuardPatrol {
			alerted++
		}
	}

	r := Result{
		EncounterID:         e.id,
		Success:             success,
		Outcome:             outcome,
		FinalAlert:          e.alert,
		GuardsAlerted:       alerted,
		GuardsTotal:         len(e.guards),
		ObjectivesCompleted: e.completed,
		ObjectivesTotal:     len(e.objectives),
		Elapsed:             e.elapsed,
	}

	e.simLog.Add(e.tick, "--", "encounter", "end",
		fmt.Sprintf("%s alert=%.1f objectives=%d/%d", outcome, e.alert, e.completed, len(e.objectives)), e.alert)
	e.logEntry().WithFields(logrus.Fields{
		"outcome":        outcome.String(),
		"alert":          e.alert,
		"guards_alerted": alerted,
		"objectives":     fmt.Sprintf("%d/%d", e.completed, len(e.objectives)),
		"elapsed":        e.elapsed,
	}).Info("encounter ended")

	e.listener.OnResult(r)
	if e.onComplete != nil {
		e.onComplete(r)
	}
	return r
}

func (e *Encounter) combatRequest() CombatRequest {
	req := CombatRequest{EncounterID: e.id}
	for _, g := range e.guards {
		req.Enemies = append(req.Enemies, EnemyDescriptor{
			GuardID: g.id,
			Name:    g.profile.EnemyName,
			Kind:    g.kind,
			Health:  g.profile.Health,
			Damage:  g.profile.Damage,
			Threat:  g.profile.Threat,
			Pos:     g.pos,
		})
	}
	return req
}

func (e *Encounter) recordSamples() {
	for _, g := range e.guards {
		e.simLog.Add(e.tick, g.label, "move", "position", fmt.Sprintf("(%.2f,%.2f)", g.pos.X, g.pos.Y), 0)
		e.simLog.Add(e.tick, g.label, "detect", "level", fmt.Sprintf("%.2f", g.detection), g.detection)
	}
	e.simLog.Add(e.tick, "--", "alert", "level", fmt.Sprintf("%.2f", e.alert), e.alert)
}

// --- Accessors ---

// Active reports whether a mission is running.
func (e *Encounter) Active() bool { return e.active }

// ID returns the current or most recent encounter id.
func (e *Encounter) ID() string { return e.id }

// AlertLevel returns the global alert level, 0-100.
func (e *Encounter) AlertLevel() float64 { return e.alert }

// AlertTier returns the named band of the alert level.
func (e *Encounter) AlertTier() AlertTier { return TierOf(e.alert) }

// PlayerPosition returns a copy of the player's position.
func (e *Encounter) PlayerPosition() Vec2 { return e.player }

// LastNoise returns where the most recent audible noise happened.
func (e *Encounter) LastNoise() (Vec2, bool) { return e.lastNoise, e.hasLastNoise }

// Difficulty returns the clamped difficulty of the current mission.
func (e *Encounter) Difficulty() int { return e.difficulty }

// DetectionRadius returns the skill- and difficulty-adjusted detection radius.
func (e *Encounter) DetectionRadius() float64 { return e.detectionRadius }

// NoiseBonus returns the fraction of movement noise removed by skill.
func (e *Encounter) NoiseBonus() float64 { return e.noiseBonus }

// Tuning returns the tuning in use.
func (e *Encounter) Tuning() Tuning { return e.tuning }

// SimLog returns the event log.
func (e *Encounter) SimLog() *SimLog { return e.simLog }

// Map returns the mission map. Callers must not modify it.
func (e *Encounter) Map() *Map { return e.m }

// Elapsed returns the simulated time since Start.
func (e *Encounter) Elapsed() time.Duration { return e.elapsed }

// Guards returns copies of every guard's state.
func (e *Encounter) Guards() []GuardView {
	out := make([]GuardView, len(e.guards))
	for i, g := range e.guards {
		out[i] = g.view()
	}
	return out
}

// Objectives returns a copy of the objective list.
func (e *Encounter) Objectives() []Objective {
	out := make([]Objective, len(e.objectives))
	copy(out, e.objectives)
	return out
}

// Objects returns copies of the interactive objects.
func (e *Encounter) Objects() []InteractiveObject {
	out := make([]InteractiveObject, len(e.objects))
	for i, o := range e.objects {
		out[i] = *o
		out[i].Effects = append([]SideEffect(nil), o.Effects...)
	}
	return out
}

// Object returns a copy of one interactive object.
func (e *Encounter) Object(id string) (InteractiveObject, bool) {
	o, ok := e.objIndex[id]
	if !ok {
		return InteractiveObject{}, false
	}
	c := *o
	c.Effects = append([]SideEffect(nil), o.Effects...)
	return c, true
}

// LightActive reports whether the light with the given id is switched on.
func (e *Encounter) LightActive(id string) bool {
	i, ok := e.lightIndex[id]
	return ok && e.lightOn[i]
}

// Snapshot captures the host-facing state.
func (e *Encounter) Snapshot() Snapshot {
	s := Snapshot{
		EncounterID: e.id,
		Active:      e.active,
		Tick:        e.tick,
		ElapsedMs:   e.elapsed.Milliseconds(),
		AlertLevel:  e.alert,
		AlertTier:   TierOf(e.alert),
		Player:      e.player,
		Guards:      e.Guards(),
		Objectives:  e.Objectives(),
		Objects:     e.Objects(),
	}
	if e.hasLastNoise {
		n := e.lastNoise
		s.LastNoise = &n
	}
	return s
}
