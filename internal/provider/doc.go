// Package provider defines the external catalog-metadata contract consumed
// by the resolution engine: the read-only Candidate record and the Searcher
// interface with its failure sentinels. The discogs subpackage supplies the
// production HTTP implementation.
package provider
