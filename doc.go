// Package ledger provides the core engine of a personal finance application:
// it turns a raw, mutable set of transactions, recurring schedules and
// budgets into a deterministic, date-ordered "cooked" transaction stream
// with per-account running balances. It is designed to be local-first,
// auditable, and free of I/O, so that every report built on top of it is
// reproducible from the raw ledger alone.
//
// The core functionalities include:
//   - Ledger Management: Recording accounts, transactions and their splits
//     in a mutable document with stable (date, position) ordering.
//   - Schedules: Expanding recurring transactions into dated occurrences,
//     honoring per-occurrence exceptions and schedule-wide edits.
//   - Budgets: Projecting per-period targets against what has already been
//     posted, without double-counting across overlapping budgets.
//   - Cooking: The Oven incrementally recomputes the merged transaction
//     stream and rebuilds each account's entries with three running
//     balances (plain, budget-inclusive, and reconciliation-ordered).
//   - Data Persistence: Encoding and decoding the raw ledger to and from a
//     human-readable, version-controllable JSONL format.
//
// This package serves as the foundational logic for the `ledger`
// command-line tool, ensuring that all operations are consistent and based
// on a single source of truth.
package ledger
