package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Shadow-Sense/internal/logger"
	"github.com/Garsondee/Shadow-Sense/internal/stealth"
)

type runConfig struct {
	extraTicks int
	dt         time.Duration
	difficulty int
	survival   float64
	discipline float64
	verbose    bool
	log        logrus.FieldLogger
}

type runStats struct {
	scenario string
	runIndex int
	seed     int64

	outcome       stealth.Outcome
	ticks         int
	elapsed       time.Duration
	finalAlert    float64
	guardsAlerted int
	guardsTotal   int
	objectives    int
	objectivesAll int
	combatEnemies int

	firstSuspiciousTick int
	firstSearchingTick  int
	firstSpottedTick    int
	firstObjectiveTick  int

	noiseEvents   int
	heardEvents   int
	stateChanges  int
	objectUses    int
	rejectedSteps int

	log string
}

func main() {
	var runs int
	var extraTicks int
	var seedBase int64
	var seedStep int64
	var scenario string
	var dtMs int
	var difficulty int
	var survival float64
	var discipline float64
	var verbose bool
	var copyOut bool
	var logEncounters bool

	flag.IntVar(&runs, "runs", 5, "number of headless runs per scenario")
	flag.IntVar(&extraTicks, "ticks", 600, "ticks to keep simulating after the script ends")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "all", "scenario name, or all ("+strings.Join(stealth.ScenarioNames(), ", ")+")")
	flag.IntVar(&dtMs, "dt", 100, "tick length in milliseconds")
	flag.IntVar(&difficulty, "difficulty", 0, "mission difficulty 1-5 (0 keeps the scenario's)")
	flag.Float64Var(&survival, "survival", 0, "player survival skill")
	flag.Float64Var(&discipline, "discipline", 0, "player discipline skill")
	flag.BoolVar(&verbose, "verbose", false, "print each run's event log")
	flag.BoolVar(&copyOut, "copy", false, "copy the report to the clipboard")
	flag.BoolVar(&logEncounters, "log-encounters", false, "send encounter logging to stderr (LOG_LEVEL, LOG_FORMAT)")
	flag.Parse()

	log := logger.New()

	if runs <= 0 {
		log.Error("-runs must be > 0")
		os.Exit(2)
	}
	if extraTicks < 0 {
		log.Error("-ticks must be >= 0")
		os.Exit(2)
	}
	if dtMs <= 0 {
		log.Error("-dt must be > 0")
		os.Exit(2)
	}

	names := stealth.ScenarioNames()
	if scenario != "all" {
		names = []string{scenario}
	}

	cfg := runConfig{
		extraTicks: extraTicks,
		dt:         time.Duration(dtMs) * time.Millisecond,
		difficulty: difficulty,
		survival:   survival,
		discipline: discipline,
		verbose:    verbose,
	}
	if logEncounters {
		cfg.log = log
	}

	var out strings.Builder
	fmt.Fprintf(&out, "=== Headless Stealth Report ===\n")
	fmt.Fprintf(&out, "scenarios=%s runs=%d extra_ticks=%d dt=%s seed_base=%d seed_step=%d difficulty=%d skills=%.1f/%.1f\n\n",
		strings.Join(names, ","), runs, extraTicks, cfg.dt, seedBase, seedStep, difficulty, survival, discipline)

	for _, name := range names {
		all := make([]runStats, 0, runs)
		for i := 0; i < runs; i++ {
			seed := seedBase + int64(i)*seedStep
			rs, err := runScenario(name, i+1, seed, cfg)
			if err != nil {
				log.WithError(err).Error("run failed")
				os.Exit(1)
			}
			all = append(all, rs)
			writeRun(&out, rs)
		}
		writeAggregate(&out, name, all)
	}

	report := out.String()
	fmt.Print(report)

	if copyOut {
		if err := clipboard.WriteAll(report); err != nil {
			log.WithError(err).Warn("could not copy report to clipboard")
		} else {
			log.Info("report copied to clipboard")
		}
	}
}

func runScenario(name string, runIndex int, seed int64, cfg runConfig) (runStats, error) {
	encOpts := []stealth.Option{stealth.WithSeed(seed)}
	if cfg.log != nil {
		encOpts = append(encOpts, stealth.WithLogger(cfg.log))
	}
	opts := []stealth.ScenarioOption{
		stealth.WithVerbose(false),
		stealth.WithEncounterOptions(encOpts...),
	}
	if cfg.difficulty > 0 {
		opts = append(opts, stealth.WithDifficulty(cfg.difficulty))
	}
	if cfg.survival > 0 || cfg.discipline > 0 {
		opts = append(opts, stealth.WithSkills(cfg.survival, cfg.discipline))
	}

	s, err := stealth.BuiltinScenario(name, opts...)
	if err != nil {
		return runStats{}, err
	}
	if !s.Started {
		return runStats{}, fmt.Errorf("scenario %s did not start", name)
	}

	s.RunScript(cfg.dt)
	s.RunTicks(cfg.extraTicks, cfg.dt)
	if s.Enc.Active() {
		s.Enc.End(false)
	}

	entries := s.SimLog.Entries()
	rs := runStats{
		scenario: name,
		runIndex: runIndex,
		seed:     seed,
		ticks:    s.Tick,

		firstSuspiciousTick: firstTick(entries, "alert", "tier_change", "→ suspicious"),
		firstSearchingTick:  firstTick(entries, "alert", "tier_change", "→ searching"),
		firstSpottedTick:    firstTick(entries, "detect", "spotted", ""),
		firstObjectiveTick:  firstTick(entries, "objective", "completed", ""),

		noiseEvents:   s.SimLog.CountCategory("noise", "emit"),
		heardEvents:   s.SimLog.CountCategory("noise", "heard"),
		stateChanges:  s.SimLog.CountCategory("guard", "state_change"),
		objectUses:    s.SimLog.CountCategory("object", "use"),
		rejectedSteps: len(s.Rejected),
	}
	if r := s.Result; r != nil {
		rs.outcome = r.Outcome
		rs.elapsed = r.Elapsed
		rs.finalAlert = r.FinalAlert
		rs.guardsAlerted = r.GuardsAlerted
		rs.guardsTotal = r.GuardsTotal
		rs.objectives = r.ObjectivesCompleted
		rs.objectivesAll = r.ObjectivesTotal
	}
	if s.Combat != nil {
		rs.combatEnemies = len(s.Combat.Enemies)
	}
	if cfg.verbose {
		rs.log = s.SimLog.Format()
	}
	return rs, nil
}

func firstTick(entries []stealth.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func writeRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- %s run %d (seed=%d) ---\n", rs.scenario, rs.runIndex, rs.seed)
	fmt.Fprintf(w, "outcome=%s ticks=%d elapsed=%s final_alert=%.1f guards_alerted=%d/%d objectives=%d/%d combat_enemies=%d\n",
		rs.outcome, rs.ticks, rs.elapsed, rs.finalAlert, rs.guardsAlerted, rs.guardsTotal, rs.objectives, rs.objectivesAll, rs.combatEnemies)
	fmt.Fprintf(w, "phase_markers: suspicious=%d searching=%d spotted=%d first_objective=%d\n",
		rs.firstSuspiciousTick, rs.firstSearchingTick, rs.firstSpottedTick, rs.firstObjectiveTick)
	fmt.Fprintf(w, "event_totals: noise=%d heard=%d guard_state_change=%d object_use=%d rejected_steps=%d\n",
		rs.noiseEvents, rs.heardEvents, rs.stateChanges, rs.objectUses, rs.rejectedSteps)
	if rs.log != "" {
		fmt.Fprint(w, rs.log)
	}
	fmt.Fprintln(w)
}

func outcomeCounts(all []runStats) map[stealth.Outcome]int {
	counts := map[stealth.Outcome]int{}
	for _, rs := range all {
		counts[rs.outcome]++
	}
	return counts
}

func writeAggregate(w io.Writer, name string, all []runStats) {
	counts := outcomeCounts(all)

	totalNoise := 0
	totalChanges := 0
	totalAlert := 0.0
	suspicious := make([]int, 0, len(all))
	spotted := make([]int, 0, len(all))
	for _, rs := range all {
		totalNoise += rs.noiseEvents
		totalChanges += rs.stateChanges
		totalAlert += rs.finalAlert
		if rs.firstSuspiciousTick >= 0 {
			suspicious = append(suspicious, rs.firstSuspiciousTick)
		}
		if rs.firstSpottedTick >= 0 {
			spotted = append(spotted, rs.firstSpottedTick)
		}
	}

	fmt.Fprintf(w, "=== Aggregate: %s ===\n", name)
	fmt.Fprintf(w, "runs=%d success=%d detected=%d aborted=%d success_rate=%.0f%%\n",
		len(all), counts[stealth.OutcomeSuccess], counts[stealth.OutcomeDetected], counts[stealth.OutcomeAborted],
		rate(counts[stealth.OutcomeSuccess], len(all)))
	fmt.Fprintf(w, "avg_per_run: noise=%.1f guard_state_change=%.1f final_alert=%.1f\n",
		avg(totalNoise, len(all)), avg(totalChanges, len(all)), totalAlert/float64(max(1, len(all))))
	fmt.Fprintf(w, "phase_marker_avg_ticks: suspicious=%s spotted=%s\n\n", avgTickString(suspicious), avgTickString(spotted))
}

func rate(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sorted := append([]int(nil), vals...)
	sort.Ints(sorted)
	sum := 0
	for _, v := range sorted {
		sum += v
	}
	return fmt.Sprintf("%.1f (min %d)", float64(sum)/float64(len(sorted)), sorted[0])
}
