package stealth

import "time"

// Outcome is how an encounter ended.
type Outcome int

const (
	OutcomeAborted  Outcome = iota // host ended it without success
	OutcomeSuccess                 // every objective completed
	OutcomeDetected                // alert reached combat
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAborted:
		return "aborted"
	case OutcomeSuccess:
		return "success"
	case OutcomeDetected:
		return "detected"
	default:
		return "unknown"
	}
}

// Result summarises a finished encounter.
type Result struct {
	EncounterID         string
	Success             bool
	Outcome             Outcome
	FinalAlert          float64
	GuardsAlerted       int // guards not in patrol when the encounter ended
	GuardsTotal         int
	ObjectivesCompleted int
	ObjectivesTotal     int
	Elapsed             time.Duration
}
