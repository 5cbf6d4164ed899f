// Package comicvine implements the ComicVine catalog client used to enrich
// Mylar entries with issue metadata, and the identity resolution that keys
// the enrichment cache.
package comicvine
