package scoring

// CommitPolicy decides whether a ranked top candidate may be committed
// without human confirmation.
type CommitPolicy struct {
	// CommitThreshold is the minimum confidence for the top candidate.
	CommitThreshold int
	// RunnerUpGap is the minimum lead over the second-ranked candidate.
	// The gap requirement blocks auto-commit when several near-tied
	// candidates exist, even if the top score alone looks confident.
	RunnerUpGap int
}

// DefaultCommitPolicy returns the tuned auto-commit thresholds.
func DefaultCommitPolicy() CommitPolicy {
	return CommitPolicy{
		CommitThreshold: 95,
		RunnerUpGap:     15,
	}
}

func (p CommitPolicy) normalized() CommitPolicy {
	d := DefaultCommitPolicy()
	if p.CommitThreshold <= 0 || p.CommitThreshold > 100 {
		p.CommitThreshold = d.CommitThreshold
	}
	if p.RunnerUpGap <= 0 {
		p.RunnerUpGap = d.RunnerUpGap
	}
	return p
}

// ShouldAutoCommit reports whether the top candidate qualifies for an
// unattended commit. secondScore is 0 when no runner-up exists. wasUndone
// vetoes unconditionally: once a human rejects an automatic decision for an
// item, the engine never re-commits it on its own.
func (p CommitPolicy) ShouldAutoCommit(topScore, secondScore int, wasUndone bool) bool {
	if wasUndone {
		return false
	}
	p = p.normalized()
	if topScore < p.CommitThreshold {
		return false
	}
	return topScore-secondScore >= p.RunnerUpGap
}

// GapStrong reports whether the top candidate's lead satisfies the
// runner-up gap on its own, independent of the commit threshold.
func (p CommitPolicy) GapStrong(topScore, secondScore int) bool {
	return topScore-secondScore >= p.normalized().RunnerUpGap
}
