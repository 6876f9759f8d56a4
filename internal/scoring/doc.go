// Package scoring ranks provider candidates against an inbox query and
// decides auto-commit eligibility.
//
// The scorer is a rule-based additive point model: structural evidence
// (barcode, catalog number) earns fixed bonuses, artist/title fuzzy
// similarity contributes a scaled component, and missing query fields apply
// penalties. Every bonus and threshold lives in Weights so the numbers are
// tunable and independently testable. Scoring is pure; the same query and
// candidate always produce the same CandidateScore.
//
// CommitPolicy gates automatic commits: the top candidate must clear the
// confidence threshold AND lead the runner-up by a minimum gap, and an item
// a human has previously un-committed is never auto-committed again.
package scoring
