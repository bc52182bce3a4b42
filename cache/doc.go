// Package cache provides the persistent dedup cache used by the
// ingestion pipeline to skip documents indexed by a prior run.
//
// The cache is keyed by document fingerprint (see core.FingerprintOf)
// and stores a small entry describing when and how the document was
// indexed. Its lifecycle spans runs; the pipeline only reads and
// writes through the narrow Contains/Insert contract.
//
// Cache unavailability must never abort a run: Open degrades to a
// no-op cache (every document treated as unseen) and logs a warning.
package cache
