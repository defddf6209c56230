package stealth

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// EmitNoise makes a noise of the given magnitude at pos, as if the player had
// thrown something. It returns false when no encounter is running.
func (e *Encounter) EmitNoise(pos Vec2, magnitude float64) bool {
	if !e.active || magnitude <= 0 {
		return false
	}
	e.propagateNoise(e.m.Clamp(pos), magnitude, "host")
	return true
}

// propagateNoise alerts every guard within magnitude*NoiseRadiusPerMagnitude
// of at. Nearer, more alert guards are boosted harder; a patrolling guard
// boosted past NoiseAlertFactor turns to investigate.
func (e *Encounter) propagateNoise(at Vec2, magnitude float64, source string) {
	t := e.tuning
	radius := magnitude * t.NoiseRadiusPerMagnitude
	if magnitude <= 0 || radius <= 0 {
		return
	}
	e.lastNoise = at
	e.hasLastNoise = true
	e.stimulus = true

	e.simLog.Add(e.tick, source, "noise", "emit",
		fmt.Sprintf("magnitude %.2f radius %.1f at (%.1f,%.1f)", magnitude, radius, at.X, at.Y), magnitude)

	heard := 0
	for _, g := range e.guards {
		if g.state == GuardCombat {
			continue
		}
		d := g.pos.DistanceTo(at)
		if d > radius {
			continue
		}
		heard++
		factor := (1 - d/radius) * g.profile.Alertness
		g.setLastKnown(at)

		switch g.state {
		case GuardPatrol:
			if factor > t.NoiseAlertFactor {
				e.setState(g, GuardAlert)
			}
		case GuardSearch:
			g.searchCenter = at
			g.hasSearchPoint = false
			g.dwellLeft = 0
		}

		e.simLog.Add(e.tick, g.label, "noise", "heard",
			fmt.Sprintf("from %s at %.1f (factor %.2f)", source, d, factor), factor)
		e.raiseDetection(g, math.Min(t.NoiseMaxBoost, t.NoiseMaxBoost*factor), "noise")
	}

	e.logEntry().WithFields(logrus.Fields{
		"source":    source,
		"magnitude": magnitude,
		"heard_by":  heard,
	}).Debug("noise")

	switch {
	case magnitude > t.NoiseSearchingMagnitude:
		e.raiseAlert(AlertSearching, source)
	case magnitude > t.NoiseSuspiciousMagnitude:
		e.raiseAlert(AlertSuspicious, source)
	}
}
