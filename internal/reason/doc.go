// Package reason defines the canonical vocabulary of scoring rationale codes
// attached to lookup decisions.
//
// Codes encode to a portable JSON list for persistence alongside an inbox
// item. Decoding is tolerant by design: malformed historical data yields an
// empty list instead of an error, so a bad row can never abort a resolution
// pass. Normalization orders known codes by registry position and appends
// unrecognized codes alphabetically, keeping display and audit output stable.
package reason
