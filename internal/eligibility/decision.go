package eligibility

import "strconv"

// EligibilityThreshold is the minimum positive-class probability for an
// eligible label. Ties are eligible.
const EligibilityThreshold = 0.5

// Response messages per mode.
const (
	MessageLikelyEligible = "This donor is likely eligible for blood donation"
	MessageMayNotEligible = "This donor may not be eligible for blood donation"
	MessageEligible       = "Eligible"
	MessageNotEligible    = "Not Eligible"
)

// Decide labels a full-precision probability and only then rounds it for
// display, so rounding can never flip the label.
func Decide(probability float64, mode Mode) PredictionResult {
	label := probability >= EligibilityThreshold
	return PredictionResult{
		Probability: RoundProbability(probability),
		Label:       label,
		Message:     message(label, mode),
	}
}

// RoundProbability rounds the exact value of p to 4 decimal places. Scaling
// by 1e4 first would round the product instead, which drifts near ties.
func RoundProbability(p float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(p, 'f', 4, 64), 64)
	return r
}

func message(label bool, mode Mode) string {
	switch {
	case mode == ModeBatch && label:
		return MessageEligible
	case mode == ModeBatch:
		return MessageNotEligible
	case label:
		return MessageLikelyEligible
	default:
		return MessageMayNotEligible
	}
}

// Summarize builds the batch envelope from ordered results.
func Summarize(predictions []PredictionResult) BatchResult {
	eligible := 0
	for _, p := range predictions {
		if p.Label {
			eligible++
		}
	}
	return BatchResult{
		Predictions:   predictions,
		TotalDonors:   len(predictions),
		EligibleCount: eligible,
	}
}
