package stealth

import "errors"

var (
	ErrNoPlayerSpawn     = errors.New("map has no player spawn")
	ErrUnknownGuardKind  = errors.New("unknown guard kind")
	ErrUnknownObjectKind = errors.New("unknown object kind")
	ErrUnknownSurface    = errors.New("unknown surface kind")
	ErrUnknownScenario   = errors.New("unknown scenario")
)
