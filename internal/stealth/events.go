package stealth

// Listener receives encounter events as they happen. Every call is made
// synchronously from inside Start, Tick, MovePlayer, Interact or End.
type Listener interface {
	OnAlertChanged(from, to float64)
	OnObjectiveCompleted(o Objective)
	OnCombat(req CombatRequest)
	OnResult(r Result)
	OnState(s Snapshot)
}

// NopListener ignores every event.
type NopListener struct{}

func (NopListener) OnAlertChanged(float64, float64) {}
func (NopListener) OnObjectiveCompleted(Objective) {}
func (NopListener) OnCombat(CombatRequest) {}
func (NopListener) OnResult(Result) {}
func (NopListener) OnState(Snapshot) {}

// ListenerFuncs adapts optional callbacks to a Listener. Nil fields are skipped.
type ListenerFuncs struct {
	AlertChanged       func(from, to float64)
	ObjectiveCompleted func(o Objective)
	Combat             func(req CombatRequest)
	Result             func(r Result)
	State              func(s Snapshot)
}

func (l ListenerFuncs) OnAlertChanged(from, to float64) {
	if l.AlertChanged != nil {
		l.AlertChanged(from, to)
	}
}

func (l ListenerFuncs) OnObjectiveCompleted(o Objective) {
	if l.ObjectiveCompleted != nil {
		l.ObjectiveCompleted(o)
	}
}

func (l ListenerFuncs) OnCombat(req CombatRequest) {
	if l.Combat != nil {
		l.Combat(req)
	}
}

func (l ListenerFuncs) OnResult(r Result) {
	if l.Result != nil {
		l.Result(r)
	}
}

func (l ListenerFuncs) OnState(s Snapshot) {
	if l.State != nil {
		l.State(s)
	}
}

// EnemyDescriptor is one guard converted into a combat opponent.
type EnemyDescriptor struct {
	GuardID int
	Name    string
	Kind    GuardKind
	Health  int
	Damage  int
	Threat  ThreatTier
	Pos     Vec2
}

// CombatRequest asks the host to start a fight with every guard of the
// encounter that just failed.
type CombatRequest struct {
	EncounterID string
	Enemies     []EnemyDescriptor
}

// Snapshot is the host-facing state published after every tick.
type Snapshot struct {
	EncounterID string
	Active      bool
	Tick        int
	ElapsedMs   int64
	AlertLevel  float64
	AlertTier   AlertTier
	Player      Vec2
	LastNoise   *Vec2
	Guards      []GuardView
	Objectives  []Objective
	Objects     []InteractiveObject
}
