package stealth

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// detect accumulates sight and smell detection for one guard.
func (e *Encounter) detect(g *Guard) {
	if g.state == GuardCombat {
		return
	}
	gain, source := e.detectionGain(g)
	if gain > 0 {
		e.raiseDetection(g, gain, source)
	}
}

// detectionGain returns this tick's detection increase for g and the sense
// that produced it. Smell ignores the cone and walls.
func (e *Encounter) detectionGain(g *Guard) (float64, string) {
	dist := g.pos.DistanceTo(e.player)
	if g.profile.CanSmell && dist <= g.profile.SmellRange {
		return e.tuning.SmellIncrement * g.profile.Alertness, "smell"
	}
	if dist > g.visionRange {
		return 0, ""
	}
	if !inCone(g.pos, g.facing, g.visionAngle, e.player) {
		return 0, ""
	}
	if !HasLineOfSight(g.pos, e.player, e.m.Obstacles, e.tuning.LineOfSight, e.tuning.LOSSamples) {
		return 0, ""
	}
	gain := g.profile.DetectionSpeed * (1 - dist/g.visionRange) * e.LightingAt(e.player) * g.profile.Alertness
	if e.playerMoved {
		gain *= e.tuning.MovingDetectionFactor
	}
	return gain, "sight"
}

// LightingAt returns the visibility multiplier at p: 1 in darkness, plus
// each lit source's brightness falling off linearly to its radius.
func (e *Encounter) LightingAt(p Vec2) float64 {
	f := 1.0
	if e.m == nil {
		return f
	}
	for i, l := range e.m.Lights {
		if !e.lightOn[i] || l.Radius <= 0 {
			continue
		}
		d := l.Pos.DistanceTo(p)
		if d <= l.Radius {
			f += l.Brightness * (1 - d/l.Radius)
		}
	}
	return f
}

// raiseDetection adds amount to a guard's accumulator and lifts the global
// alert to match. A full accumulator locks the guard into combat.
func (e *Encounter) raiseDetection(g *Guard, amount float64, source string) {
	if amount <= 0 || g.state == GuardCombat {
		return
	}
	e.stimulus = true
	g.detection = math.Min(MaxDetection, g.detection+amount)
	e.simLog.AddVerbose(e.tick, g.label, "detect", source,
		fmt.Sprintf("+%.2f → %.1f", amount, g.detection), g.detection)

	if g.detection >= MaxDetection {
		g.setLastKnown(e.player)
		e.setState(g, GuardCombat)
		e.simLog.Add(e.tick, g.label, "detect", "spotted",
			fmt.Sprintf("player at (%.1f,%.1f) by %s", e.player.X, e.player.Y, source), g.detection)
		e.logEntry().WithFields(logrus.Fields{
			"guard":  g.name,
			"source": source,
		}).Info("guard spotted the player")
		e.raiseAlert(AlertCombat, g.label)
		return
	}

	switch {
	case g.detection > AlertAlerted:
		e.raiseAlert(AlertAlerted, g.label)
	case g.detection > AlertSearching:
		e.raiseAlert(AlertSearching, g.label)
	case g.detection > AlertSuspicious:
		e.raiseAlert(AlertSuspicious, g.label)
	}
}

// raiseAlert lifts the alert level to at least level. It never lowers it.
func (e *Encounter) raiseAlert(level float64, cause string) {
	if level <= e.alert {
		return
	}
	e.setAlert(level, cause)
}

func (e *Encounter) setAlert(level float64, cause string) {
	from := e.alert
	e.alert = clamp(level, AlertUnaware, AlertCombat)
	if from == e.alert {
		return
	}
	if TierOf(from) != TierOf(e.alert) {
		e.simLog.Add(e.tick, cause, "alert", "tier_change",
			fmt.Sprintf("%s → %s", TierOf(from), TierOf(e.alert)), e.alert)
		e.logEntry().WithFields(logrus.Fields{
			"from":  TierOf(from).String(),
			"to":    TierOf(e.alert).String(),
			"cause": cause,
		}).Info("alert tier changed")
	}
	e.listener.OnAlertChanged(from, e.alert)
}
