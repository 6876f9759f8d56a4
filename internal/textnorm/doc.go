// Package textnorm produces stable, comparison-safe string keys for inbox
// records and catalog metadata.
//
// Two key flavors exist:
//   - SortKey: diacritic-stripped, lowercased, alphanumeric-with-spaces keys
//     used for sorting and prefix search.
//   - EvidenceKey: the same key with internal spaces removed, used to compare
//     tokens like barcodes and catalog numbers where spacing carries no
//     meaning.
//
// All functions are pure and locale-independent.
package textnorm
