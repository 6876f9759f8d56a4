package scoring_test

import (
	"testing"

	"pressmark/internal/scoring"
)

func TestShouldAutoCommit(t *testing.T) {
	policy := scoring.DefaultCommitPolicy()
	cases := []struct {
		name      string
		top       int
		second    int
		wasUndone bool
		want      bool
	}{
		{name: "confident with wide gap", top: 96, second: 80, want: true},
		{name: "gap too small", top: 96, second: 90, want: false},
		{name: "undo flag overrides", top: 99, second: 0, wasUndone: true, want: false},
		{name: "no runner-up", top: 95, second: 0, want: true},
		{name: "below threshold", top: 94, second: 0, want: false},
		{name: "exact threshold and gap", top: 95, second: 80, want: true},
		{name: "gap one short", top: 100, second: 86, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.ShouldAutoCommit(tc.top, tc.second, tc.wasUndone); got != tc.want {
				t.Fatalf("ShouldAutoCommit(%d, %d, %v) = %v, want %v", tc.top, tc.second, tc.wasUndone, got, tc.want)
			}
		})
	}
}

func TestCommitPolicyZeroValueUsesDefaults(t *testing.T) {
	var policy scoring.CommitPolicy
	if !policy.ShouldAutoCommit(96, 80, false) {
		t.Fatal("zero-value policy should normalize to defaults and approve 96/80")
	}
	if policy.ShouldAutoCommit(96, 90, false) {
		t.Fatal("zero-value policy should reject a narrow gap")
	}
}

func TestGapStrong(t *testing.T) {
	policy := scoring.DefaultCommitPolicy()
	if !policy.GapStrong(80, 60) {
		t.Fatal("20-point lead should be a strong gap")
	}
	if policy.GapStrong(80, 70) {
		t.Fatal("10-point lead should not be a strong gap")
	}
}
