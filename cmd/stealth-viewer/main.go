package main

import (
	"flag"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Shadow-Sense/internal/logger"
	"github.com/Garsondee/Shadow-Sense/internal/stealth"
	"github.com/Garsondee/Shadow-Sense/internal/viewer"
)

func main() {
	var scenario string
	var seed int64
	var difficulty int

	flag.StringVar(&scenario, "scenario", "courtyard", "scenario to play ("+strings.Join(stealth.ScenarioNames(), ", ")+")")
	flag.Int64Var(&seed, "seed", 1, "RNG seed for guard behaviour")
	flag.IntVar(&difficulty, "difficulty", 0, "mission difficulty 1-5 (0 keeps the scenario's)")
	flag.Parse()

	log := logger.New()

	g, err := viewer.New(viewer.Config{
		Scenario:   scenario,
		Seed:       seed,
		Difficulty: difficulty,
		Log:        log,
	})
	if err != nil {
		log.WithError(err).Fatal("could not load scenario")
	}

	ebiten.SetWindowTitle("Shadow Sense")
	ebiten.SetWindowSize(g.Size())
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil {
		log.WithError(err).Fatal("viewer stopped")
	}
}
