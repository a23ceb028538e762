// Package adaptive picks the next practice question for a learner from a
// rolling difficulty model.
package adaptive

import "tekno-rank-service/internal/domain"

// NextDifficulty computes the tier for the learner's next question. Pure
// and total: every signal maps to a tier, saturating at both ends.
//
// Signals are checked strongest-first: short streaks are fresher evidence
// than long-run topic averages, so they win.
func NextDifficulty(signal domain.PerformanceSignal) domain.Difficulty {
	current := signal.CurrentDifficulty

	if signal.ConsecutiveCorrect >= 3 {
		return current.Promote()
	}
	if signal.ConsecutiveWrong >= 2 {
		return current.Demote()
	}
	if signal.TopicSuccessRate != nil {
		switch rate := *signal.TopicSuccessRate; {
		case rate >= 80:
			return current.Promote()
		case rate < 50:
			return current.Demote()
		}
	}
	return current
}
