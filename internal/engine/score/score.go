// # internal/engine/score/score.go
package score

import (
	"fmt"

	"a11ylint/internal/model"
	"a11ylint/internal/shared/observability"
)

// Tunable heuristic constants. Any retuning must preserve
// monotonicity: fewer fragments and more resolved references must
// never lower the score.
const (
	fragmentPenalty = 0.1
	baseFloor       = 0.3
	referenceWeight = 0.3
)

// Band thresholds.
const (
	highThreshold   = 0.9
	mediumThreshold = 0.5
)

// Compute derives the completeness confidence for one merge from the
// fragment count and the global reference-resolution counts. Computed
// once per merge and stamped onto every finding of the session.
func Compute(fragments, resolved, unresolved int) model.Confidence {
	base := 1.0
	if fragments > 1 {
		base = 1.0 - fragmentPenalty*float64(fragments)
		if base < baseFloor {
			base = baseFloor
		}
	}

	rate := 0.0
	total := resolved + unresolved
	if total > 0 {
		rate = float64(resolved) / float64(total)
	}

	s := base + referenceWeight*rate
	if s > 1.0 {
		s = 1.0
	}

	conf := model.Confidence{
		Score:  s,
		Band:   bandFor(s),
		Reason: reason(fragments, resolved, total),
	}
	observability.CompletenessScore.Set(s)
	return conf
}

// Degrade lowers a confidence for the single-fragment fallback view,
// where a file is analyzed with no surrounding workspace context.
func Degrade(c model.Confidence) model.Confidence {
	s := c.Score * 0.7
	return model.Confidence{
		Score:  s,
		Band:   bandFor(s),
		Reason: c.Reason + ", analyzed in isolation",
	}
}

func bandFor(s float64) model.Band {
	switch {
	case s >= highThreshold:
		return model.BandHigh
	case s >= mediumThreshold:
		return model.BandMedium
	default:
		return model.BandLow
	}
}

func reason(fragments, resolved, total int) string {
	if fragments <= 1 {
		if total == 0 {
			return "single fragment, no cross-references"
		}
		return fmt.Sprintf("single fragment, %d%% references resolved", percent(resolved, total))
	}
	if total == 0 {
		return fmt.Sprintf("partial tree, %d fragments, no cross-references", fragments)
	}
	return fmt.Sprintf("partial tree, %d fragments, %d%% references resolved", fragments, percent(resolved, total))
}

func percent(n, total int) int {
	return int(float64(n)/float64(total)*100 + 0.5)
}
