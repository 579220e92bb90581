package ledger

import (
	"slices"
)

// Oven computes raw data from transactions, schedules and budgets.
//
// Cooking does two things:
//
//  1. Spawns schedule and budget transactions and merges them with the
//     posted ones into Transactions(), the date-ordered stream the rest of
//     the application displays.
//  2. Rebuilds each account's EntryList with running totals.
//
// The Oven is single-threaded and synchronous: a cook runs to completion
// on the caller's goroutine, and callers must serialize cooks for the same
// ledger. It performs no I/O and raises no errors of its own; it assumes
// the Ledger handed it a structurally valid document.
type Oven struct {
	ledger *Ledger
	conv   Converter

	cookedUntil Date

	// transactions is the cooked list: posted transactions mixed with
	// schedule and budget spawns, in (date, position) order.
	transactions []*Transaction
}

func newOven(l *Ledger, conv Converter) *Oven {
	return &Oven{ledger: l, conv: conv}
}

// Transactions returns the cooked transaction stream. Callers treat it as
// an immutable snapshot, invalidated by any ledger mutation until the next
// cook.
func (o *Oven) Transactions() []*Transaction { return o.transactions }

// CookedUntil returns the date the ledger has been cooked through.
func (o *Oven) CookedUntil() Date { return o.cookedUntil }

// ContinueCooking cooks from where the last cook stopped through
// untilDate. Cooking bounds are usually determined by the visible date
// range, so advancing or enlarging the range means cooking a bit further
// than last time; this is the cheap, frequent entry point for that, a
// no-op whenever untilDate is already covered.
func (o *Oven) ContinueCooking(untilDate Date) {
	if untilDate.After(o.cookedUntil) {
		o.Cook(o.cookedUntil, untilDate)
	}
}

// Cook recomputes the cooked stream and every affected entry.
//
// A zero fromDate recomputes everything; otherwise cooked state before
// fromDate is reused and running totals resume from it. A zero untilDate
// defaults to the latest posted transaction date, since recurrences need
// an explicit bound or they would expand forever.
func (o *Oven) Cook(fromDate, untilDate Date) {
	// It's possible that we have to pull fromDate backward: a reconciled
	// split whose reconciliation date falls inside the window participates
	// in the reconciliation-ordered balances, so its transaction must be
	// recooked even when its own date is earlier. Walking the cooked list
	// in reverse catches chained date/recdate overlaps.
	if !fromDate.IsZero() {
		for i := len(o.transactions) - 1; i >= 0; i-- {
			for _, split := range o.transactions[i].Splits() {
				rdate := split.ReconciliationDate
				if !rdate.IsZero() && !rdate.Before(fromDate) {
					fromDate = fromDate.Min(split.Transaction().Date)
				}
			}
		}
	}

	real := o.ledger.transactions
	slices.SortStableFunc(real, compareTxn) // needed in case untilDate is zero
	if untilDate.IsZero() {
		if len(real) > 0 {
			untilDate = real[len(real)-1].Date
		} else {
			untilDate = fromDate
		}
	}

	// Purge stale cooked state.
	for _, account := range o.ledger.accounts.All() {
		account.entries.Clear(fromDate)
	}
	if fromDate.IsZero() {
		o.transactions = nil
	} else {
		o.transactions = slices.DeleteFunc(o.transactions, func(t *Transaction) bool {
			return !t.Date.Before(fromDate)
		})
	}

	// Spawn schedules, then budgets on top of them.
	var spawns []*Transaction
	for _, r := range o.ledger.schedules {
		spawns = append(spawns, r.GetSpawns(untilDate)...)
	}
	spawns = append(spawns, o.budgetSpawns(untilDate, spawns)...)

	// To keep the sort order consistent, spawns get position values from a
	// counter starting at the posted-transaction count, so they never
	// collide with persisted positions.
	for counter, spawn := range spawns {
		spawn.Position = len(real) + counter
	}

	// Spawns dated past untilDate are kept: budget spawns of an open
	// period may still affect current data.
	tocook := make([]*Transaction, 0, len(real)+len(spawns))
	for _, t := range real {
		if !t.Date.Before(fromDate) {
			tocook = append(tocook, t)
		}
	}
	for _, t := range spawns {
		if !t.Date.Before(fromDate) {
			tocook = append(tocook, t)
		}
	}
	// Both groups are already position-ordered within a date, so a stable
	// date sort yields (date, position).
	slices.SortStableFunc(tocook, func(a, b *Transaction) int {
		return a.Date.Compare(b.Date)
	})

	bySplitAccount := make(map[*Account][]*Split)
	for _, t := range tocook {
		for _, split := range t.Splits() {
			if split.Account != nil {
				bySplitAccount[split.Account] = append(bySplitAccount[split.Account], split)
			}
		}
	}
	for account, splits := range bySplitAccount {
		o.cookSplits(account, splits)
	}

	o.transactions = append(o.transactions, tocook...)
	o.cookedUntil = untilDate
}

// budgetSpawns expands every budget with a non-zero amount. Overlapping
// budgets on the same account share a consumed-transaction set so a
// posting is never claimed twice, and walk their periods from the earliest
// start among them.
func (o *Oven) budgetSpawns(untilDate Date, scheduleSpawns []*Transaction) []*Transaction {
	budgets := o.ledger.budgets
	if len(budgets) == 0 {
		return nil
	}

	refDate := budgets[0].Start
	starts := make(map[*Account]Date)
	for _, b := range budgets {
		refDate = refDate.Min(b.Start)
		if b.Amount.IsZero() {
			continue
		}
		if s, ok := starts[b.Account]; !ok || b.Start.Before(s) {
			starts[b.Account] = b.Start
		}
	}

	relevant := make([]*Transaction, 0, len(o.ledger.transactions)+len(scheduleSpawns))
	for _, t := range o.ledger.transactions {
		if !t.Date.Before(refDate) {
			relevant = append(relevant, t)
		}
	}
	relevant = append(relevant, scheduleSpawns...)

	consumed := make(map[*Account]map[*Transaction]bool)
	var result []*Transaction
	for _, b := range budgets {
		if b.Amount.IsZero() {
			continue
		}
		c := consumed[b.Account]
		if c == nil {
			c = make(map[*Transaction]bool)
			consumed[b.Account] = c
		}
		result = append(result, b.GetSpawns(starts[b.Account], untilDate, relevant, c, o.conv)...)
	}
	return result
}

// cookSplits materializes one account's entries for the cooking window.
// Splits come in (date, position) order; each running total resumes from
// the value recorded just before the window.
func (o *Oven) cookSplits(account *Account, splits []*Split) {
	entries := &account.entries
	entries.account = account
	entries.conv = o.conv

	balance := entries.Balance()
	withBudget := entries.BalanceWithBudget()
	reconciled := o.cookReconciledBalances(account, splits, entries.BalanceOfReconciled())

	for _, split := range splits {
		converted := o.conv.Convert(split.Amount, account.Currency, split.Transaction().Date)
		withBudget = withBudget.Add(converted)
		if !split.Transaction().IsBudget() {
			balance = balance.Add(converted)
		}
		entries.add(&Entry{
			split:             split,
			Amount:            split.Amount,
			Balance:           balance,
			ReconciledBalance: reconciled[split],
			BalanceWithBudget: withBudget,
		})
	}
}

// cookReconciledBalances computes each split's reconciliation-ordered
// balance: splits sort by (effective reconciliation key, date, position)
// where the key falls back to the transaction date, and only reconciled
// splits move the total.
func (o *Oven) cookReconciledBalances(account *Account, splits []*Split, start Amount) map[*Split]Amount {
	byRecdate := slices.Clone(splits)
	slices.SortStableFunc(byRecdate, func(a, b *Split) int {
		ka, kb := a.ReconciliationDate, b.ReconciliationDate
		if ka.IsZero() {
			ka = a.Transaction().Date
		}
		if kb.IsZero() {
			kb = b.Transaction().Date
		}
		if c := ka.Compare(kb); c != 0 {
			return c
		}
		return compareTxn(a.Transaction(), b.Transaction())
	})

	balance := start
	result := make(map[*Split]Amount, len(byRecdate))
	for _, split := range byRecdate {
		if split.Reconciled() {
			balance = balance.Add(o.conv.Convert(split.Amount, account.Currency, split.Transaction().Date))
		}
		result[split] = balance
	}
	return result
}
