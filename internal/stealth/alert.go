package stealth

// AlertTier names the band the global alert level sits in.
type AlertTier int

const (
	TierUnaware AlertTier = iota
	TierSuspicious
	TierSearching
	TierAlerted
	TierCombat
)

// TierOf returns the tier for an alert level.
func TierOf(level float64) AlertTier {
	switch {
	case level >= AlertCombat:
		return TierCombat
	case level >= AlertAlerted:
		return TierAlerted
	case level >= AlertSearching:
		return TierSearching
	case level >= AlertSuspicious:
		return TierSuspicious
	default:
		return TierUnaware
	}
}

// Threshold returns the lowest alert level in the tier.
func (t AlertTier) Threshold() float64 {
	switch t {
	case TierSuspicious:
		return AlertSuspicious
	case TierSearching:
		return AlertSearching
	case TierAlerted:
		return AlertAlerted
	case TierCombat:
		return AlertCombat
	default:
		return AlertUnaware
	}
}

func (t AlertTier) String() string {
	switch t {
	case TierUnaware:
		return "unaware"
	case TierSuspicious:
		return "suspicious"
	case TierSearching:
		return "searching"
	case TierAlerted:
		return "alerted"
	case TierCombat:
		return "combat"
	default:
		return "unknown"
	}
}
