package stealth

import (
	"fmt"
	"strings"
)

// GuardKind selects a guard's profile.
type GuardKind int

const (
	GuardStandard GuardKind = iota
	GuardElite
	GuardDog
	GuardArcher
	GuardSleepy
)

// ThreatTier grades an enemy handed to the combat system.
type ThreatTier int

const (
	ThreatNormal ThreatTier = iota
	ThreatElite
)

func (t ThreatTier) String() string {
	switch t {
	case ThreatNormal:
		return "normal"
	case ThreatElite:
		return "elite"
	default:
		return "unknown"
	}
}

// GuardProfile holds the senses and combat stats of a guard kind.
type GuardProfile struct {
	VisionRange    float64 // units, before difficulty/skill scaling
	VisionAngle    float64 // full cone width, degrees
	MoveSpeed      float64 // units per second
	Alertness      float64 // multiplier on every detection gain
	DetectionSpeed float64 // multiplier on sight-based gain
	CanSmell       bool
	SmellRange     float64 // units; smell ignores facing and walls

	EnemyName string
	Health    int
	Damage    int
	Threat    ThreatTier
}

const (
	baseEnemyHealth  = 50
	baseEnemyDamage  = 8
	eliteEnemyHealth = 75
	eliteEnemyDamage = 12
)

var guardProfiles = map[GuardKind]GuardProfile{
	GuardStandard: {
		VisionRange: 8, VisionAngle: 90, MoveSpeed: 2.0, Alertness: 1.0, DetectionSpeed: 1.0,
		EnemyName: "Guard", Health: baseEnemyHealth, Damage: baseEnemyDamage, Threat: ThreatNormal,
	},
	GuardElite: {
		VisionRange: 10, VisionAngle: 110, MoveSpeed: 2.5, Alertness: 1.3, DetectionSpeed: 1.5,
		EnemyName: "Elite Guard", Health: eliteEnemyHealth, Damage: eliteEnemyDamage, Threat: ThreatElite,
	},
	GuardDog: {
		VisionRange: 6, VisionAngle: 120, MoveSpeed: 3.5, Alertness: 1.2, DetectionSpeed: 1.2,
		CanSmell: true, SmellRange: 4,
		EnemyName: "Guard Dog", Health: baseEnemyHealth, Damage: baseEnemyDamage, Threat: ThreatNormal,
	},
	GuardArcher: {
		VisionRange: 12, VisionAngle: 70, MoveSpeed: 1.8, Alertness: 1.1, DetectionSpeed: 1.0,
		EnemyName: "Archer", Health: baseEnemyHealth, Damage: baseEnemyDamage, Threat: ThreatNormal,
	},
	GuardSleepy: {
		VisionRange: 5, VisionAngle: 60, MoveSpeed: 1.2, Alertness: 0.5, DetectionSpeed: 0.5,
		EnemyName: "Drowsy Guard", Health: baseEnemyHealth, Damage: baseEnemyDamage, Threat: ThreatNormal,
	},
}

// Profile returns the profile for the kind. Unknown kinds get the standard one.
func (k GuardKind) Profile() GuardProfile {
	if p, ok := guardProfiles[k]; ok {
		return p
	}
	return guardProfiles[GuardStandard]
}

// Valid reports whether k has a profile.
func (k GuardKind) Valid() bool {
	_, ok := guardProfiles[k]
	return ok
}

func (k GuardKind) String() string {
	switch k {
	case GuardStandard:
		return "standard"
	case GuardElite:
		return "elite"
	case GuardDog:
		return "dog"
	case GuardArcher:
		return "archer"
	case GuardSleepy:
		return "sleepy"
	default:
		return "unknown"
	}
}

// ParseGuardKind maps a kind name to its enum value.
func ParseGuardKind(s string) (GuardKind, error) {
	for k := range guardProfiles {
		if strings.EqualFold(k.String(), s) {
			return k, nil
		}
	}
	return GuardStandard, fmt.Errorf("%w: %q", ErrUnknownGuardKind, s)
}
