package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Budget projects a per-period target amount on an account. The target
// amount never changes; only the projected shortfall varies with what has
// already posted.
type Budget struct {
	// Account is the budgeted account, Target the optional balancing one.
	Account *Account
	Target  *Account

	// Amount is the per-period target, in the budget's own currency.
	Amount Amount

	Repeat RepeatType
	Every  int
	Start  Date
	Stop   Date // optional
}

// GetSpawns projects the budget's shortfall transactions through untilDate.
//
// Periods are walked from 'from' (the earliest start among budgets sharing
// this budget's account, so overlapping budgets claim postings over the
// same window). Transactions already claimed through 'consumed' are
// skipped; the ones this budget claims are added to it, which is what
// prevents two budgets sharing an account from double-counting a posting.
// Null (zero-shortfall) periods emit nothing.
func (b *Budget) GetSpawns(from, until Date, txns []*Transaction, consumed map[*Transaction]bool, conv Converter) []*Transaction {
	if b.Amount.IsZero() {
		return nil
	}
	if from.IsZero() {
		from = b.Start
	}

	var spawns []*Transaction
	for start := range occurrences(from, b.Repeat, b.Every) {
		if start.After(until) {
			break
		}
		if !b.Stop.IsZero() && start.After(b.Stop) {
			break
		}
		period := Range{From: start, To: startOfNext(start, b.Repeat, b.Every).Add(-1)}

		posted := Cents(0, b.Amount.Currency())
		for _, txn := range txns {
			if consumed[txn] || !period.Contains(txn.Date) {
				continue
			}
			claimed := false
			for _, split := range txn.Splits() {
				if split.Account == b.Account {
					posted = posted.Add(conv.Convert(split.Amount, b.Amount.Currency(), txn.Date))
					claimed = true
				}
			}
			if claimed {
				consumed[txn] = true
			}
		}

		shortfall := b.Amount.Sub(posted)
		// An over-consumed period projects nothing rather than a refund.
		if shortfall.IsZero() ||
			(b.Amount.IsPositive() && shortfall.IsNegative()) ||
			(b.Amount.IsNegative() && shortfall.IsPositive()) {
			continue
		}

		on := period.To
		if on.After(until) {
			on = until // the period is still open
		}
		spawn := NewTransaction(on, fmt.Sprintf("%s budget", b.Account.Name))
		spawn.Source = Source{Kind: BudgetSpawn, Budget: b, PeriodEnd: period.To}
		spawn.AddSplit(&Split{Account: b.Account, Amount: shortfall})
		spawn.AddSplit(&Split{Account: b.Target, Amount: shortfall.Neg()})
		spawns = append(spawns, spawn)
	}
	return spawns
}

// startOfNext returns the start of the period following the one starting at
// 'start'.
func startOfNext(start Date, typ RepeatType, every int) Date {
	first := true
	for on := range occurrences(start, typ, every) {
		if first {
			first = false
			continue
		}
		return on
	}
	panic("unreachable")
}

// Apportion splits a period's remaining budget across a sub-range in
// proportion to the days it covers: remainder / days-remaining *
// days-in-slice, rounded to the currency's exponent. This is the
// interpolation bar graphs use to spread one period's shortfall over its
// sub-bars; it sits on top of GetSpawns' per-period totals.
func Apportion(remainder Amount, remaining Range, slice Range) Amount {
	days := remaining.Days()
	if days <= 0 {
		return Cents(0, remainder.Currency())
	}
	portion := remainder.Decimal().
		Div(decimal.NewFromInt(int64(days))).
		Mul(decimal.NewFromInt(int64(slice.Days())))
	return NewAmount(portion, remainder.Currency())
}
