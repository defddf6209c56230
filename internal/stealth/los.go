package stealth

import "math"

// LOSMode selects how line of sight is tested against obstacles.
type LOSMode int

const (
	// LOSSampled probes a fixed number of evenly spaced points along the
	// segment. Thin obstacles can slip between samples on long sight lines.
	LOSSampled LOSMode = iota
	// LOSExact runs a segment-vs-rectangle slab test.
	LOSExact
)

func (m LOSMode) String() string {
	switch m {
	case LOSSampled:
		return "sampled"
	case LOSExact:
		return "exact"
	default:
		return "unknown"
	}
}

// HasLineOfSight reports whether the segment from a to b is clear of every
// obstacle under the given mode. samples only applies to LOSSampled.
func HasLineOfSight(a, b Vec2, obstacles []Rect, mode LOSMode, samples int) bool {
	if mode == LOSExact {
		return exactLineOfSight(a, b, obstacles)
	}
	return sampledLineOfSight(a, b, obstacles, samples)
}

// sampledLineOfSight checks points at t = 1/n, 2/n ... 1 along the segment.
// The observer's own position is never sampled.
func sampledLineOfSight(a, b Vec2, obstacles []Rect, samples int) bool {
	if samples < 1 {
		samples = 1
	}
	for i := 1; i <= samples; i++ {
		p := a.Lerp(b, float64(i)/float64(samples))
		for _, o := range obstacles {
			if o.Contains(p) {
				return false
			}
		}
	}
	return true
}

func exactLineOfSight(a, b Vec2, obstacles []Rect) bool {
	for _, o := range obstacles {
		if _, hit := o.segmentEntry(a, b); hit {
			return false
		}
	}
	return true
}

// segmentEntry returns the segment parameter t in [0,1] at which the segment
// a→b first touches r, clipping it against the x and y extents in turn.
func (r Rect) segmentEntry(a, b Vec2) (float64, bool) {
	lo, hi := 0.0, 1.0
	ok := clipAxis(a.X, b.X-a.X, r.X, r.maxX(), &lo, &hi) &&
		clipAxis(a.Y, b.Y-a.Y, r.Y, r.maxY(), &lo, &hi)
	if !ok {
		return 0, false
	}
	return lo, true
}

// clipAxis narrows [lo, hi] to the part of start+t*delta inside [near, far].
// It reports false once the interval is empty.
func clipAxis(start, delta, near, far float64, lo, hi *float64) bool {
	if math.Abs(delta) < 1e-12 {
		return start >= near && start <= far
	}
	enter := (near - start) / delta
	exit := (far - start) / delta
	if enter > exit {
		enter, exit = exit, enter
	}
	*lo = math.Max(*lo, enter)
	*hi = math.Min(*hi, exit)
	return *lo <= *hi
}

// ClipRay returns the end of a ray of length maxLen from origin along heading,
// shortened to stop just before the nearest obstacle it crosses.
func ClipRay(origin Vec2, heading, maxLen float64, obstacles []Rect) Vec2 {
	end := origin.Add(headingVec(heading).Scale(maxLen))
	best := 1.0
	for _, o := range obstacles {
		if t, hit := o.segmentEntry(origin, end); hit && t < best {
			best = t
		}
	}
	if best < 1.0 {
		return origin.Lerp(end, math.Max(0, best-0.01))
	}
	return end
}
