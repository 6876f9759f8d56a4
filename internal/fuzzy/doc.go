// Package fuzzy implements approximate string matching for candidate scoring.
//
// Similarity computes Jaro-Winkler similarity over match-normalized strings
// (lowercased, diacritic-stripped, punctuation removed). CombinedScore blends
// artist and title similarity with a configurable artist weight,
// renormalizing when either side is missing a field so candidates are never
// penalized for data the user did not supply.
package fuzzy
