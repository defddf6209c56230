package stealth

import (
	"fmt"
	"strings"
)

// SurfaceKind tags a floor zone. It scales the noise of movement across it
// and the walking speed of guards on it.
type SurfaceKind int

const (
	SurfaceNormal SurfaceKind = iota
	SurfaceStone
	SurfaceGrass
	SurfaceCarpet
	SurfaceWood
	SurfaceGravel
	SurfaceWater
	SurfaceMetal
)

type surfaceProfile struct {
	NoiseFactor float64
	SpeedFactor float64
}

var surfaceProfiles = map[SurfaceKind]surfaceProfile{
	SurfaceNormal: {NoiseFactor: 1.0, SpeedFactor: 1.0},
	SurfaceStone:  {NoiseFactor: 1.1, SpeedFactor: 1.0},
	SurfaceGrass:  {NoiseFactor: 0.7, SpeedFactor: 0.9},
	SurfaceCarpet: {NoiseFactor: 0.5, SpeedFactor: 1.0},
	SurfaceWood:   {NoiseFactor: 1.2, SpeedFactor: 1.0},
	SurfaceGravel: {NoiseFactor: 1.4, SpeedFactor: 0.9},
	SurfaceWater:  {NoiseFactor: 1.3, SpeedFactor: 0.6},
	SurfaceMetal:  {NoiseFactor: 1.5, SpeedFactor: 1.0},
}

// NoiseFactor returns the movement noise multiplier for the surface.
func (k SurfaceKind) NoiseFactor() float64 {
	if p, ok := surfaceProfiles[k]; ok {
		return p.NoiseFactor
	}
	return 1.0
}

// SpeedFactor returns the guard speed multiplier for the surface.
func (k SurfaceKind) SpeedFactor() float64 {
	if p, ok := surfaceProfiles[k]; ok {
		return p.SpeedFactor
	}
	return 1.0
}

func (k SurfaceKind) String() string {
	switch k {
	case SurfaceNormal:
		return "normal"
	case SurfaceStone:
		return "stone"
	case SurfaceGrass:
		return "grass"
	case SurfaceCarpet:
		return "carpet"
	case SurfaceWood:
		return "wood"
	case SurfaceGravel:
		return "gravel"
	case SurfaceWater:
		return "water"
	case SurfaceMetal:
		return "metal"
	default:
		return "unknown"
	}
}

// ParseSurfaceKind accepts any casing of a surface name ("METAL", "metal").
func ParseSurfaceKind(s string) (SurfaceKind, error) {
	for k := range surfaceProfiles {
		if strings.EqualFold(k.String(), s) {
			return k, nil
		}
	}
	return SurfaceNormal, fmt.Errorf("%w: %q", ErrUnknownSurface, s)
}
