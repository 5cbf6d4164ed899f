// Package metadatacache persists enrichment metadata between refresh cycles.
//
// The durable record is a single JSON object in shared temporary storage
// mapping identity keys to ComicVine records or failure placeholders. It is
// loaded at the start of a refresh cycle, mutated in memory, and written back
// in full at the end. Entries are never removed and never expire. Writes are
// guarded by an advisory file lock and merge with whatever is on disk, so
// concurrently refreshing sensors do not discard each other's additions;
// beyond that, no cross-process consistency is guaranteed.
package metadatacache
