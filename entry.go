package ledger

import (
	"iter"
	"slices"
)

// Entry is a derived, read-only record: one per split resolved to an
// account, carrying the split's native amount and three running balances in
// the account's currency.
type Entry struct {
	split *Split

	// Amount is the split's native amount.
	Amount Amount

	// Balance is the converted running balance, budget spawns excluded.
	Balance Amount

	// ReconciledBalance is the running balance in reconciliation order.
	// Only reconciled splits move it; an unreconciled entry records the
	// balance as it stood when reached.
	ReconciledBalance Amount

	// BalanceWithBudget is the converted running balance, budget spawns
	// included.
	BalanceWithBudget Amount
}

// Split returns the split this entry derives from.
func (e *Entry) Split() *Split { return e.split }

// Transaction returns the transaction owning the underlying split.
func (e *Entry) Transaction() *Transaction { return e.split.Transaction() }

// Date returns the transaction date of the entry.
func (e *Entry) Date() Date { return e.split.Transaction().Date }

// Reconciled reports whether the underlying split is reconciled.
func (e *Entry) Reconciled() bool { return e.split.Reconciled() }

// EntryList is an account's cooked entries, in (date, position) order. It
// is owned exclusively by the last completed cook.
type EntryList struct {
	entries []*Entry

	account *Account
	conv    Converter
}

func (l *EntryList) add(e *Entry) { l.entries = append(l.entries, e) }

// Len returns the number of entries.
func (l *EntryList) Len() int { return len(l.entries) }

// At returns the i-th entry.
func (l *EntryList) At(i int) *Entry { return l.entries[i] }

// All iterates over the entries in cooked order.
func (l *EntryList) All() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for _, e := range l.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Clear drops every entry whose transaction date is on or after fromDate.
// A zero fromDate clears the list entirely. The running totals of the
// remaining entries are what an incremental cook resumes from.
func (l *EntryList) Clear(fromDate Date) {
	if fromDate.IsZero() {
		l.entries = l.entries[:0]
		return
	}
	l.entries = slices.DeleteFunc(l.entries, func(e *Entry) bool {
		return !e.Date().Before(fromDate)
	})
}

// Balance returns the running balance after the last entry, budget spawns
// excluded.
func (l *EntryList) Balance() Amount {
	if n := len(l.entries); n > 0 {
		return l.entries[n-1].Balance
	}
	return l.zero()
}

// BalanceWithBudget returns the running balance after the last entry,
// budget spawns included.
func (l *EntryList) BalanceWithBudget() Amount {
	if n := len(l.entries); n > 0 {
		return l.entries[n-1].BalanceWithBudget
	}
	return l.zero()
}

// BalanceOfReconciled returns the reconciled running balance after the last
// reconciled entry.
func (l *EntryList) BalanceOfReconciled() Amount {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].Reconciled() {
			return l.entries[i].ReconciledBalance
		}
	}
	return l.zero()
}

// BalanceAsOf returns the running balance as of a date (inclusive), budget
// spawns excluded.
func (l *EntryList) BalanceAsOf(on Date) Amount {
	balance := l.zero()
	for _, e := range l.entries {
		if e.Date().After(on) {
			break
		}
		balance = e.Balance
	}
	return balance
}

// NormalBalance returns the balance as of a date, sign-adjusted for the
// account type: liabilities and income are reported positive when credited.
// An empty currency means the account's own.
func (l *EntryList) NormalBalance(on Date, currency string) Amount {
	return l.normalize(l.convert(l.BalanceAsOf(on), currency, on))
}

// NormalCashFlow returns the sum of the entry amounts within the range,
// budget spawns excluded, sign-adjusted for the account type. An empty
// currency means the account's own.
func (l *EntryList) NormalCashFlow(r Range, currency string) Amount {
	flow := l.zero()
	if currency != "" {
		flow = Cents(0, currency)
	}
	for _, e := range l.entries {
		if e.Date().After(r.To) {
			break
		}
		if e.Date().Before(r.From) || e.Transaction().IsBudget() {
			continue
		}
		flow = flow.Add(l.convert(e.Amount, flow.Currency(), e.Date()))
	}
	return l.normalize(flow)
}

func (l *EntryList) zero() Amount {
	if l.account != nil {
		return Cents(0, l.account.Currency)
	}
	return Amount{}
}

func (l *EntryList) convert(a Amount, currency string, on Date) Amount {
	if currency == "" || currency == a.Currency() {
		return a
	}
	if l.conv == nil {
		return Cents(a.MinorUnits(), currency)
	}
	return l.conv.Convert(a, currency, on)
}

func (l *EntryList) normalize(a Amount) Amount {
	if l.account != nil && l.account.Type.IsCredit() {
		return a.Neg()
	}
	return a
}
