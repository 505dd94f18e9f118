package assessment

import (
	"errors"
	"testing"
)

func TestComputeRiskLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		q1, q2, q3 int
		wantScore  int
		wantLevel  Level
	}{
		{"all zero", 0, 0, 0, 0, LevelLow},
		{"ones", 1, 1, 1, 3, LevelLow},
		{"low upper bound", 5, 0, 0, 5, LevelLow},
		{"medium lower bound", 2, 2, 2, 6, LevelMedium},
		{"threes", 3, 3, 3, 9, LevelMedium},
		{"medium upper bound", 5, 5, 0, 10, LevelMedium},
		{"high lower bound", 5, 5, 1, 11, LevelHigh},
		{"fives", 5, 5, 5, 15, LevelHigh},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ComputeRiskLevel(tt.q1, tt.q2, tt.q3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Score != tt.wantScore || got.Level != tt.wantLevel {
				t.Fatalf("got=%+v want score=%d level=%s", got, tt.wantScore, tt.wantLevel)
			}
			if got.IsHighRisk() != (tt.wantLevel == LevelHigh) {
				t.Fatalf("IsHighRisk mismatch for %+v", got)
			}
		})
	}
}

func TestComputeRiskLevelRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	cases := [][3]int{
		{-1, 0, 0},
		{0, 6, 0},
		{0, 0, 100},
	}
	for _, c := range cases {
		if _, err := ComputeRiskLevel(c[0], c[1], c[2]); !errors.Is(err, ErrAnswerOutOfRange) {
			t.Fatalf("answers %v: got err=%v want ErrAnswerOutOfRange", c, err)
		}
	}
}

func TestLevelForScoreEveryValue(t *testing.T) {
	t.Parallel()

	for score := 0; score <= 3*MaxAnswer; score++ {
		got := LevelForScore(score)
		var want Level
		switch {
		case score <= 5:
			want = LevelLow
		case score <= 10:
			want = LevelMedium
		default:
			want = LevelHigh
		}
		if got != want {
			t.Fatalf("score %d: got=%s want=%s", score, got, want)
		}
	}
}

func TestComputeCompliance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hygiene, feed, visitor bool
		want                   float64
	}{
		{true, true, true, 100},
		{true, false, false, 33.33},
		{false, true, false, 33.33},
		{true, true, false, 66.67},
		{false, true, true, 66.67},
		{false, false, false, 0},
	}
	for _, tt := range tests {
		if got := ComputeCompliance(tt.hygiene, tt.feed, tt.visitor); got != tt.want {
			t.Fatalf("ComputeCompliance(%v,%v,%v)=%v want %v", tt.hygiene, tt.feed, tt.visitor, got, tt.want)
		}
	}
}
