// Package inbox defines the inbox item model and its SQLite-backed store.
//
// An Item is one partially-identified physical-media record moving through
// two lifecycles: an OCR status (text extraction from cover photos) and a
// lookup status (resolution against the catalog provider). The store applies
// every transition as a conditional update keyed on the item's previous
// status, so concurrent drain runs can never double-process an item: the
// loser of a claim race simply observes zero affected rows.
//
// Eligibility predicates are pure functions over item fields and a clock;
// the engine uses them to select work, never to mutate state.
package inbox
