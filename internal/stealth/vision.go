package stealth

import "math"

const degPerRad = 180.0 / math.Pi

// bearingDeg returns the angle in degrees from one point toward another.
// 0 points along +X, 90 along +Y.
func bearingDeg(from, to Vec2) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X) * degPerRad
}

// normalizeDeg wraps an angle to (-180, 180].
func normalizeDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	}
	if a <= -180 {
		a += 360
	}
	return a
}

// angleDiff returns the signed shortest rotation from heading a to heading b.
func angleDiff(a, b float64) float64 {
	return normalizeDeg(b - a)
}

// turnToward rotates heading toward target by at most maxStep degrees.
func turnToward(heading, target, maxStep float64) float64 {
	diff := angleDiff(heading, target)
	if math.Abs(diff) <= maxStep {
		return normalizeDeg(target)
	}
	if diff > 0 {
		return normalizeDeg(heading + maxStep)
	}
	return normalizeDeg(heading - maxStep)
}

// inCone reports whether p lies inside a vision cone of the given full width
// centred on facing. Range is not considered here.
func inCone(origin Vec2, facing, width float64, p Vec2) bool {
	if origin.DistanceTo(p) < 1e-6 {
		return true
	}
	return math.Abs(angleDiff(facing, bearingDeg(origin, p))) <= width/2
}

// headingVec returns the unit vector for a heading in degrees.
func headingVec(deg float64) Vec2 {
	rad := deg / degPerRad
	return Vec2{math.Cos(rad), math.Sin(rad)}
}
