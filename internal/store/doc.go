// Package store provides durable storage for critterkeep game state.
//
// Game state is a set of JSON records keyed by (kind, key): one account,
// pet, inventory, equipment and effect list per account, plus the battle
// and listing tables. Next to it sits an append-only operation journal.
//
// # Transactions
//
// Every engine operation runs inside one Update call. Returning an error
// from the callback rolls back every Put, sequence bump and journal append
// made through that transaction, so rejected operations leave no trace.
// View transactions are read-only; Put on them fails with ErrReadOnly.
//
// # Determinism
//
//   - Keys lists keys in byte order (COLLATE BINARY)
//   - Journal entries are ordered by seq, a per-store logical clock
//   - Journal args and results are canonical JSON (package canon)
//
// # Implementations
//
//   - Open: SQLite in WAL mode (synchronous=NORMAL, busy_timeout=5000)
//   - NewMemory: in-process maps, used by tests and journal replay
package store
