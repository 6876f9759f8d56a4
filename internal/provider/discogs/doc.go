// Package discogs implements the metadata lookup surface against the
// Discogs database search API.
package discogs
