// Package assessment scores biosecurity risk questionnaires and compliance
// checklists.  Every function here is pure; persisting results and
// raising alerts is left to the callers.
package assessment

import (
	"errors"
	"fmt"
	"math"
)

// Level is the risk band derived from a questionnaire score.
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// Answer bounds for each of the three risk questions.
const (
	MinAnswer = 0
	MaxAnswer = 5
)

// Score thresholds: a score up to LowMax is Low, up to MediumMax is Medium,
// anything above is High.
const (
	LowMax    = 5
	MediumMax = 10
)

// ErrAnswerOutOfRange is returned when a risk answer falls outside
// [MinAnswer, MaxAnswer].
var ErrAnswerOutOfRange = errors.New("risk answer out of range")

// Result is the outcome of scoring one questionnaire.
type Result struct {
	Score int
	Level Level
}

// IsHighRisk reports whether the result should raise a high-risk alert.
func (r Result) IsHighRisk() bool { return r.Level == LevelHigh }

// LevelForScore maps a total score onto its risk level.
func LevelForScore(score int) Level {
	switch {
	case score <= LowMax:
		return LevelLow
	case score <= MediumMax:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// ComputeRiskLevel sums the three answers and derives the risk level.
func ComputeRiskLevel(q1, q2, q3 int) (Result, error) {
	for i, q := range [...]int{q1, q2, q3} {
		if q < MinAnswer || q > MaxAnswer {
			return Result{}, fmt.Errorf("q%d=%d: %w", i+1, q, ErrAnswerOutOfRange)
		}
	}
	score := q1 + q2 + q3
	return Result{Score: score, Level: LevelForScore(score)}, nil
}

// ComputeCompliance returns the share of satisfied checklist items as a
// percentage rounded to two decimals.
func ComputeCompliance(hygiene, feed, visitor bool) float64 {
	total := 0
	for _, ok := range [...]bool{hygiene, feed, visitor} {
		if ok {
			total++
		}
	}
	return round2(float64(total) / 3 * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
