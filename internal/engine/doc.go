// Package engine is the public operation surface of the game.
//
// Every mutating operation runs as one store transaction:
//
//  1. Take the per-account locks (sorted, so two cross-account operations
//     can never deadlock).
//  2. Load the aggregates it touches and fold elapsed time into the pets.
//  3. Validate every precondition. The first failure aborts and rolls the
//     transaction back.
//  4. Mutate and persist the minimal set of records.
//  5. Append a journal entry carrying canonical args, canonical result and
//     a content hash.
//
// The engine never reads the wall clock; each operation receives now.
// Randomness is drawn from a stream keyed by the journal sequence number of
// the entry being written, so replaying a journal against a fresh store
// with the same seed reproduces every entry id (see Replay).
//
// Read operations run in a read-only transaction, fold time without
// persisting it, and never journal.
package engine
