package stealth

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Interact uses the object with the given id. It fails when no encounter is
// running, the id is unknown, the player is out of reach, or the object
// cannot be used again (an opened chest, a distraction still running).
func (e *Encounter) Interact(objectID string) bool {
	if !e.active {
		return false
	}
	obj, ok := e.objIndex[objectID]
	if !ok {
		e.logEntry().WithField("object", objectID).Debug("interact: unknown object")
		return false
	}
	if e.player.DistanceTo(obj.Pos) > obj.Radius {
		return false
	}

	t := e.tuning
	switch obj.Kind {
	case ObjectDoor:
		obj.Open = !obj.Open
		if !obj.Quiet {
			e.propagateNoise(obj.Pos, t.DoorNoise, obj.ID)
		}
	case ObjectChest:
		if obj.Open {
			return false
		}
		obj.Open = true
		if !obj.Quiet {
			e.propagateNoise(obj.Pos, t.ChestNoise, obj.ID)
		}
	case ObjectLever:
		obj.Active = !obj.Active
		if !obj.Quiet {
			e.propagateNoise(obj.Pos, t.LeverNoise, obj.ID)
		}
		for _, fx := range obj.Effects {
			e.applyEffect(obj, fx)
		}
	case ObjectDistraction:
		if obj.Active {
			return false
		}
		obj.Active = true
		obj.Remaining = obj.Duration
		if obj.Remaining <= 0 {
			obj.Remaining = t.DefaultDistraction
		}
		e.propagateNoise(obj.Pos, t.DistractionNoise, obj.ID)
	default:
		return false
	}

	e.simLog.Add(e.tick, "player", "object", "use",
		fmt.Sprintf("%s %s open=%t active=%t", obj.Kind, obj.ID, obj.Open, obj.Active), 0)
	e.logEntry().WithFields(logrus.Fields{
		"object": obj.ID,
		"kind":   obj.Kind.String(),
	}).Debug("object used")

	if obj.ObjectiveID != "" {
		e.completeObjective(obj.ObjectiveID, obj.ID)
	}
	return true
}

func (e *Encounter) applyEffect(src *InteractiveObject, fx SideEffect) {
	switch fx.Kind {
	case EffectToggleDoor:
		door, ok := e.objIndex[fx.TargetID]
		if !ok || door.Kind != ObjectDoor {
			e.logEntry().WithFields(logrus.Fields{"lever": src.ID, "target": fx.TargetID}).Warn("lever targets no door")
			return
		}
		door.Open = !door.Open
		e.simLog.Add(e.tick, src.ID, "object", "toggle_door", fmt.Sprintf("%s open=%t", door.ID, door.Open), 0)
	case EffectToggleLight:
		i, ok := e.lightIndex[fx.TargetID]
		if !ok {
			e.logEntry().WithFields(logrus.Fields{"lever": src.ID, "target": fx.TargetID}).Warn("lever targets no light")
			return
		}
		e.lightOn[i] = !e.lightOn[i]
		e.simLog.Add(e.tick, src.ID, "object", "toggle_light", fmt.Sprintf("%s on=%t", fx.TargetID, e.lightOn[i]), 0)
	}
}

// updateObjects counts down running distractions.
func (e *Encounter) updateObjects(dt time.Duration) {
	for _, o := range e.objects {
		if o.Kind != ObjectDistraction || !o.Active {
			continue
		}
		o.Remaining -= dt
		if o.Remaining <= 0 {
			o.Remaining = 0
			o.Active = false
			e.simLog.Add(e.tick, o.ID, "object", "expired", "distraction over", 0)
		}
	}
}

// CompleteObjective marks an objective done on the host's behalf. It returns
// false when nothing is running, the id is unknown, or it was already done.
func (e *Encounter) CompleteObjective(id string) bool {
	if !e.active {
		return false
	}
	return e.completeObjective(id, "host")
}

func (e *Encounter) completeObjective(id, cause string) bool {
	for i := range e.objectives {
		o := &e.objectives[i]
		if o.ID != id {
			continue
		}
		if o.Completed {
			return false
		}
		o.Completed = true
		e.completed++
		e.simLog.Add(e.tick, cause, "objective", "completed",
			fmt.Sprintf("%s (%d/%d)", o.ID, e.completed, len(e.objectives)), float64(e.completed))
		e.logEntry().WithFields(logrus.Fields{
			"objective": o.ID,
			"cause":     cause,
			"done":      e.completed,
			"total":     len(e.objectives),
		}).Info("objective completed")
		e.listener.OnObjectiveCompleted(*o)

		// A guard already in combat wins: the next Tick hands off instead.
		if e.active && e.completed == len(e.objectives) && e.alert < AlertCombat {
			e.finish(true)
		}
		return true
	}
	e.logEntry().WithField("objective", id).Debug("unknown objective")
	return false
}

func (e *Encounter) checkZoneObjectives() {
	for i := range e.objectives {
		if !e.active {
			return
		}
		o := e.objectives[i]
		if o.Completed || o.Zone == nil || !o.Zone.Contains(e.player) {
			continue
		}
		e.completeObjective(o.ID, "player")
	}
}
