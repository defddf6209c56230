package stealth

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

// Alert thresholds on the encounter-wide 0-100 alert scale.
const (
	AlertUnaware    = 0.0
	AlertSuspicious = 25.0
	AlertSearching  = 50.0
	AlertAlerted    = 75.0
	AlertCombat     = 100.0
)

// MaxDetection is the guard detection accumulator ceiling. Reaching it puts
// the guard into combat.
const MaxDetection = 100.0

// Tuning holds every numeric knob of the simulation.
type Tuning struct {
	// Movement
	TurnRate            float64       // degrees per second
	ArriveDistance      float64       // units; a target this close counts as reached
	DefaultWaypointWait time.Duration // pause at a waypoint with no explicit wait
	PathAroundObstacles bool          // route via the nav grid when the direct line is blocked
	NavCellSize         float64       // units per nav grid cell
	GuardRadius         float64       // clearance kept from obstacles when pathing

	// Patrol / search
	PatrolVisionWidening float64       // degrees added to the cone while suspicious
	SearchRadiusMin      float64       // units
	SearchRadiusMax      float64       // units
	SearchDwell          time.Duration // pause at each search point
	LookAround           float64       // max random facing offset at a search point, degrees
	AlertDecayPerMs      float64       // alert points lost per millisecond of quiet searching

	// Detection
	MovingDetectionFactor float64 // multiplier while the player moved this tick
	SmellIncrement        float64 // flat gain per tick for a guard that smells the player
	LineOfSight           LOSMode
	LOSSamples            int

	// Noise
	MoveNoiseThreshold       float64 // movement noise at or below this is silent
	SneakNoiseFactor         float64
	NoiseRadiusPerMagnitude  float64 // alert radius = magnitude * this
	NoiseMaxBoost            float64 // largest detection gain from a single noise
	NoiseAlertFactor         float64 // boost factor above which a patrolling guard turns to investigate
	NoiseSearchingMagnitude  float64 // magnitude above which global alert rises to searching
	NoiseSuspiciousMagnitude float64 // magnitude above which global alert rises to suspicious
	DoorNoise                float64
	ChestNoise               float64
	LeverNoise               float64
	DistractionNoise         float64

	// Objects
	DefaultInteractRadius float64
	DefaultDistraction    time.Duration

	// Difficulty and skills
	DefaultDifficulty    int
	BaseDetectionRadius  float64
	MinDetectionRadius   float64
	MaxDetectionRadius   float64
	DifficultyRadiusStep float64 // fractional radius change per difficulty level away from 2
	SkillRadiusReduction float64 // radius units removed per blended skill point
	SkillNoiseBonus      float64 // noise reduction per blended skill point
	MaxNoiseBonus        float64
	SurvivalWeight       float64
	DisciplineWeight     float64
}

// DefaultTuning returns the stock tuning.
func DefaultTuning() Tuning {
	return Tuning{
		TurnRate:            180,
		ArriveDistance:      0.5,
		DefaultWaypointWait: 2 * time.Second,
		PathAroundObstacles: true,
		NavCellSize:         1,
		GuardRadius:         0.3,

		PatrolVisionWidening: 20,
		SearchRadiusMin:      2,
		SearchRadiusMax:      10,
		SearchDwell:          1500 * time.Millisecond,
		LookAround:           45,
		AlertDecayPerMs:      0.005,

		MovingDetectionFactor: 1.5,
		SmellIncrement:        2,
		LineOfSight:           LOSSampled,
		LOSSamples:            10,

		MoveNoiseThreshold:       0.5,
		SneakNoiseFactor:         0.5,
		NoiseRadiusPerMagnitude:  5,
		NoiseMaxBoost:            25,
		NoiseAlertFactor:         0.6,
		NoiseSearchingMagnitude:  2,
		NoiseSuspiciousMagnitude: 1,
		DoorNoise:                1.5,
		ChestNoise:               0.8,
		LeverNoise:               0.8,
		DistractionNoise:         3,

		DefaultInteractRadius: 1.5,
		DefaultDistraction:    5 * time.Second,

		DefaultDifficulty:    2,
		BaseDetectionRadius:  10,
		MinDetectionRadius:   5,
		MaxDetectionRadius:   15,
		DifficultyRadiusStep: 0.15,
		SkillRadiusReduction: 0.5,
		SkillNoiseBonus:      0.05,
		MaxNoiseBonus:        0.5,
		SurvivalWeight:       0.6,
		DisciplineWeight:     0.4,
	}
}

// Validate reports every setting that would break the simulation.
func (t Tuning) Validate() error {
	el := errors.NewErrorList()

	if t.TurnRate <= 0 {
		el.Add(fmt.Errorf("turn rate must be positive"))
	}
	if t.ArriveDistance <= 0 {
		el.Add(fmt.Errorf("arrive distance must be positive"))
	}
	if t.SearchRadiusMin < 0 || t.SearchRadiusMax < t.SearchRadiusMin {
		el.Add(fmt.Errorf("search radius range [%.1f, %.1f] is invalid", t.SearchRadiusMin, t.SearchRadiusMax))
	}
	if t.AlertDecayPerMs < 0 {
		el.Add(fmt.Errorf("alert decay must not be negative"))
	}
	if t.LineOfSight == LOSSampled && t.LOSSamples < 1 {
		el.Add(fmt.Errorf("sampled line of sight needs at least one sample"))
	}
	if t.NoiseRadiusPerMagnitude <= 0 {
		el.Add(fmt.Errorf("noise radius per magnitude must be positive"))
	}
	if t.PathAroundObstacles && t.NavCellSize <= 0 {
		el.Add(fmt.Errorf("nav cell size must be positive"))
	}
	if t.MinDetectionRadius <= 0 || t.MaxDetectionRadius < t.MinDetectionRadius {
		el.Add(fmt.Errorf("detection radius bounds [%.1f, %.1f] are invalid", t.MinDetectionRadius, t.MaxDetectionRadius))
	}
	if t.BaseDetectionRadius <= 0 {
		el.Add(fmt.Errorf("base detection radius must be positive"))
	}
	if t.DefaultDifficulty < 1 || t.DefaultDifficulty > 5 {
		el.Add(fmt.Errorf("default difficulty %d outside 1-5", t.DefaultDifficulty))
	}

	return el.Err()
}
