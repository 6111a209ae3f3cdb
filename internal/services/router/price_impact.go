package router

// ImpactSeverity buckets a price impact so callers can surface warnings
// without re-deriving thresholds.
type ImpactSeverity string

const (
	ImpactNegligible ImpactSeverity = "negligible" // < 0.1%
	ImpactLow        ImpactSeverity = "low"        // < 0.5%
	ImpactModerate   ImpactSeverity = "moderate"   // < 1.5%
	ImpactHigh       ImpactSeverity = "high"       // < 5%
	ImpactSevere     ImpactSeverity = "severe"     // >= 5%
)

func ClassifyImpact(bps uint16) ImpactSeverity {
	switch {
	case bps < 10:
		return ImpactNegligible
	case bps < 50:
		return ImpactLow
	case bps < 150:
		return ImpactModerate
	case bps < 500:
		return ImpactHigh
	default:
		return ImpactSevere
	}
}

// ImpactWarning returns a caller-facing message for impacts worth flagging,
// or "" when the severity is below moderate.
func ImpactWarning(bps uint16) string {
	switch ClassifyImpact(bps) {
	case ImpactModerate:
		return "moderate price impact, consider splitting the trade"
	case ImpactHigh:
		return "high price impact, output may differ significantly from spot"
	case ImpactSevere:
		return "severe price impact, trade size exceeds available depth"
	default:
		return ""
	}
}
