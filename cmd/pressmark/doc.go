// Command pressmark manages an inbox of partially identified vinyl records
// and resolves them against the Discogs catalog, either one pass at a time
// (resolve) or continuously (daemon).
package main
