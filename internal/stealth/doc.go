// Package stealth is a headless stealth-mission simulation.
//
// A host owns one Encounter, starts it with a Mission, advances it with Tick
// and forwards player intents through MovePlayer and Interact. Guards patrol,
// hear noise, build up detection and eventually either lose interest or go
// into combat, at which point the encounter ends and hands the host a
// CombatRequest describing the enemies.
//
// Nothing here touches rendering, persistence or wall-clock time: every
// duration comes in through Tick, and every random choice comes from the
// encounter's seeded source.
package stealth
