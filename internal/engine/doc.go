// Package engine drives inbox resolution: it drains due OCR work through a
// text extractor and due lookup work through the catalog provider, scores
// the returned candidates, and either commits the winner or routes the item
// to human review.
//
// Both drain passes are idempotent entry points. Work selection goes through
// the store's eligibility queries, every pickup is an atomic claim, and all
// results land via conditional updates, so overlapping passes (timer plus
// manual trigger, or two daemons) cannot double-process an item.
package engine
