/*

Till is the core of a single-drawer cash register: it tracks note
counts and an aggregated coin pool, computes exact change under
bounded stock, and records every completed transaction in a per-day
append-only log that supports single-step undo.

Vocabulary:

- denomination: a fixed discrete note value tracked by individual count
- coin pool: sub-denomination money tracked only as one total amount,
  always a multiple of the coin unit
- coin unit: the smallest indivisible amount the pool may change by
- breakdown: note counts plus a pool amount summing to a target value;
  describes money tendered or money returned
- drawer: the mutable till inventory, one count per denomination plus
  the pool
- snapshot: a deep copy of drawer state taken when a transaction opens,
  restored verbatim on cancel
- record: one immutable ledger entry per completed transaction
- delta: a record's net per-denomination effect on the drawer
  (tendered minus returned); its negation undoes the transaction
- day: calendar key (YYYY-MM-DD) scoping both the snapshot store and
  the transaction log

*/

package till
