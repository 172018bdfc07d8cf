// Package detection holds the pure verdict logic over per-check outcomes.
// Checks themselves run elsewhere; this layer only folds their signed
// confidences into the stored net confidence and spam flag.
package detection

// Outcome is what a single check concluded about the content it saw.
type Outcome string

const (
	OutcomeSpam    Outcome = "spam"
	OutcomeClean   Outcome = "clean"
	OutcomeSkipped Outcome = "skipped"
)

// CheckResult is one check's contribution to a classification pass. Confidence
// is signed: positive is spam evidence, negative is ham evidence.
type CheckResult struct {
	Code             CheckCode `json:"code"`
	Outcome          Outcome   `json:"outcome"`
	Confidence       int       `json:"confidence"`
	Reason           string    `json:"reason,omitempty"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
}

// Aggregate folds per-check results into the derived pair stored on a
// detection result. The verdict is strict: a net of exactly zero is not spam.
func Aggregate(checks []CheckResult) (netConfidence int, isSpam bool) {
	for _, check := range checks {
		netConfidence += check.Confidence
	}
	return netConfidence, netConfidence > 0
}
