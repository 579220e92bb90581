package ledger

import (
	"time"
)

// SourceKind tags the origin of a cooked transaction.
type SourceKind int

const (
	// Posted is a real, persisted transaction.
	Posted SourceKind = iota
	// ScheduleSpawn is one occurrence of a Recurrence.
	ScheduleSpawn
	// BudgetSpawn is one period's projected shortfall of a Budget.
	BudgetSpawn
)

// Source identifies where a transaction comes from. The Oven sorts and
// merges transactions uniformly; downstream code matches on the tag for
// budget and recurrence checks.
type Source struct {
	Kind SourceKind

	// Schedule and ScheduleDate are set on ScheduleSpawn transactions.
	// ScheduleDate is the *original* occurrence date, which stays stable
	// when an exception or global edit moves the visible date. It keys the
	// schedule's exception map.
	Schedule     *Recurrence
	ScheduleDate Date

	// Materialized marks a spawn backed by a local exception (or a
	// reconciled one). Materialized spawns are no longer "recurrent" in
	// views: they don't regenerate from the schedule's template.
	Materialized bool

	// Budget and PeriodEnd are set on BudgetSpawn transactions.
	Budget    *Budget
	PeriodEnd Date
}

// Split is one leg of a transaction. It is owned by exactly one Transaction
// and optionally references one Account. The account's entries index the
// split, but the split lives with its transaction.
type Split struct {
	Account *Account
	Amount  Amount
	Memo    string

	// ReconciliationDate is set when the split has been matched against an
	// external statement. It may differ from the transaction date.
	ReconciliationDate Date

	txn *Transaction
}

// Reconciled reports whether the split was matched against a statement.
func (s *Split) Reconciled() bool { return !s.ReconciliationDate.IsZero() }

// Transaction returns the transaction owning this split.
func (s *Split) Transaction() *Transaction { return s.txn }

// Transaction is a dated group of splits.
//
// Splits must net to zero after conversion; that is enforced by the edit
// surface (the Ledger), not by the cooking engine.
type Transaction struct {
	Date        Date
	Description string
	Payee       string
	Checkno     string
	Notes       string

	// Position is a stable tiebreak between transactions sharing a date.
	Position int

	// Mtime drives "most recently modified" orderings elsewhere in the
	// application; the engine only carries it.
	Mtime time.Time

	Source Source

	splits []*Split
}

// NewTransaction creates a posted transaction.
func NewTransaction(on Date, description string) *Transaction {
	return &Transaction{Date: on, Description: description}
}

// AddSplit appends a split and takes ownership of it.
func (t *Transaction) AddSplit(s *Split) *Split {
	s.txn = t
	t.splits = append(t.splits, s)
	return s
}

// Splits returns the transaction's splits, in order.
func (t *Transaction) Splits() []*Split { return t.splits }

// IsBudget reports whether the transaction is a budget spawn.
func (t *Transaction) IsBudget() bool { return t.Source.Kind == BudgetSpawn }

// Recurrent reports whether the transaction is a live schedule spawn, i.e.
// one that still regenerates from its schedule's template. A materialized
// spawn is not recurrent anymore.
func (t *Transaction) Recurrent() bool {
	return t.Source.Kind == ScheduleSpawn && !t.Source.Materialized
}

// Clone returns a deep copy of the transaction. Split back-references point
// at the copy; account references are shared (the account is not owned).
func (t *Transaction) Clone() *Transaction {
	c := *t
	c.splits = make([]*Split, len(t.splits))
	for i, s := range t.splits {
		cs := *s
		cs.txn = &c
		c.splits[i] = &cs
	}
	return &c
}

// compareTxn orders transactions by (date, position), the canonical cooked
// order.
func compareTxn(a, b *Transaction) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return a.Position - b.Position
}
