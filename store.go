package ledger

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ScheduleScope is how an edit to a recurring spawn applies.
type ScheduleScope int

const (
	// ScopeLocal affects only the edited occurrence, as an exception.
	ScopeLocal ScheduleScope = iota
	// ScopeGlobal affects the edited occurrence and all later ones.
	ScopeGlobal
	// ScopeCancel abandons the edit entirely.
	ScopeCancel
)

// ScopeResolver answers the "apply to this occurrence only, or to all
// future ones?" question raised when a recurring spawn is edited or
// deleted. The GUI implements it with a dialog; tests use FixedScope.
type ScopeResolver interface {
	ResolveScope() ScheduleScope
}

// FixedScope is a ScopeResolver that always answers the same scope.
type FixedScope ScheduleScope

func (s FixedScope) ResolveScope() ScheduleScope { return ScheduleScope(s) }

// Ledger is the mutable document the Oven cooks: accounts, posted
// transactions, schedules and budgets. It owns referential integrity (the
// engine itself validates nothing) and every mutation entry point.
//
// Any mutation invalidates the cooked snapshot until the next Cook.
type Ledger struct {
	accounts     Accounts
	transactions []*Transaction
	schedules    []*Recurrence
	budgets      []*Budget

	conv Converter
	oven *Oven
}

// NewLedger creates an empty ledger cooking with the given converter. A
// nil converter falls back to an empty rate table (parity conversion).
func NewLedger(conv Converter) *Ledger {
	if conv == nil {
		conv = NewRates()
	}
	l := &Ledger{conv: conv}
	l.oven = newOven(l, conv)
	return l
}

// Accounts returns the ledger's account set.
func (l *Ledger) Accounts() *Accounts { return &l.accounts }

// NewAccount creates and registers an account. The name must be unique.
func (l *Ledger) NewAccount(name string, typ AccountType, currency string) (*Account, error) {
	a := &Account{Name: name, Type: typ, Currency: currency}
	if err := l.accounts.Add(a); err != nil {
		return nil, err
	}
	return a, nil
}

// RemoveAccount unregisters an account and reassigns every reference to it
// (posted splits, schedule templates and exceptions, budgets) to
// reassignTo, possibly nil, leaving splits unassigned. This runs before
// the next cook, so the engine never sees a dangling reference.
func (l *Ledger) RemoveAccount(a *Account, reassignTo *Account) {
	reassign := func(t *Transaction) {
		if t == nil {
			return
		}
		for _, s := range t.Splits() {
			if s.Account == a {
				s.Account = reassignTo
			}
		}
	}
	for _, t := range l.transactions {
		reassign(t)
	}
	for _, r := range l.schedules {
		reassign(r.ref)
		for _, except := range r.exceptions {
			reassign(except)
		}
		if r.global != nil {
			reassign(r.global.ref)
		}
	}
	l.budgets = slices.DeleteFunc(l.budgets, func(b *Budget) bool {
		if b.Target == a {
			b.Target = reassignTo
		}
		if b.Account == a {
			if reassignTo == nil {
				return true
			}
			b.Account = reassignTo
		}
		return false
	})
	l.accounts.Remove(a)
}

// Transactions returns the posted (raw, pre-cook) transactions.
func (l *Ledger) Transactions() []*Transaction { return l.transactions }

// AddTransaction posts a transaction, assigning it the next position among
// the transactions sharing its date.
func (l *Ledger) AddTransaction(t *Transaction) {
	pos := 0
	for _, x := range l.transactions {
		if x.Date == t.Date && x.Position >= pos {
			pos = x.Position + 1
		}
	}
	t.Position = pos
	t.Mtime = time.Now()
	l.transactions = append(l.transactions, t)
	slices.SortStableFunc(l.transactions, compareTxn)
}

// renumber reassigns consecutive positions to the transactions of a date,
// keeping their relative order. Spawn positions start at the posted count,
// so persisted positions must stay below it.
func (l *Ledger) renumber(on Date) {
	pos := 0
	for _, x := range l.transactions {
		if x.Date == on {
			x.Position = pos
			pos++
		}
	}
}

var errBudgetSpawnEdit = errors.New("budget spawns cannot be edited or deleted")

// Change commits an edit: the fields of edited replace those of target.
// When the target is a recurring spawn the resolver decides the scope;
// Cancel leaves the ledger untouched with no trace of the edit. Mass edits
// go through MassChange instead, which never asks.
func (l *Ledger) Change(target, edited *Transaction, resolver ScopeResolver) error {
	switch target.Source.Kind {
	case BudgetSpawn:
		return errBudgetSpawnEdit
	case ScheduleSpawn:
		scope := ScopeLocal
		if resolver != nil {
			scope = resolver.ResolveScope()
		}
		switch scope {
		case ScopeCancel:
			return nil
		case ScopeGlobal:
			target.Source.Schedule.ChangeGlobally(target.Source.ScheduleDate, edited)
		default:
			target.Source.Schedule.AddException(target.Source.ScheduleDate, edited)
		}
		return nil
	}

	oldDate := target.Date
	target.Date = edited.Date
	target.Description = edited.Description
	target.Payee = edited.Payee
	target.Checkno = edited.Checkno
	target.Notes = edited.Notes
	target.splits = nil
	for _, s := range edited.Splits() {
		cs := *s
		target.AddSplit(&cs)
	}
	target.Mtime = time.Now()
	if oldDate != target.Date {
		slices.SortStableFunc(l.transactions, compareTxn)
		l.renumber(oldDate)
		l.renumber(target.Date)
		slices.SortStableFunc(l.transactions, compareTxn)
	}
	return nil
}

// Delete removes a transaction. Deleting a recurring spawn asks the
// resolver: Local deletes that occurrence (the first occurrence advances
// the schedule's start instead), Global stops the schedule right there.
func (l *Ledger) Delete(target *Transaction, resolver ScopeResolver) error {
	switch target.Source.Kind {
	case BudgetSpawn:
		return errBudgetSpawnEdit
	case ScheduleSpawn:
		scope := ScopeLocal
		if resolver != nil {
			scope = resolver.ResolveScope()
		}
		switch scope {
		case ScopeCancel:
			return nil
		case ScopeGlobal:
			target.Source.Schedule.StopBefore(target.Source.ScheduleDate)
		default:
			target.Source.Schedule.DeleteAt(target.Source.ScheduleDate)
		}
		return nil
	}

	on := target.Date
	l.transactions = slices.DeleteFunc(l.transactions, func(t *Transaction) bool {
		return t == target
	})
	l.renumber(on)
	return nil
}

// MassChange applies one edit to several transactions at once. Spawns in
// the selection bypass scope resolution and always apply locally.
func (l *Ledger) MassChange(targets []*Transaction, apply func(*Transaction)) {
	for _, target := range targets {
		if target.Source.Kind == ScheduleSpawn {
			edited := target.Clone()
			apply(edited)
			target.Source.Schedule.AddException(target.Source.ScheduleDate, edited)
			continue
		}
		if target.Source.Kind == BudgetSpawn {
			continue
		}
		apply(target)
		target.Mtime = time.Now()
	}
	slices.SortStableFunc(l.transactions, compareTxn)
}

// Reconcile marks a split as matched against a statement on the given
// date. Reconciling a recurring spawn materializes it as a local
// exception.
func (l *Ledger) Reconcile(split *Split, on Date) {
	t := split.Transaction()
	if t.Source.Kind == ScheduleSpawn && !t.Source.Materialized {
		edited := t.Clone()
		for i, s := range t.Splits() {
			if s == split {
				edited.Splits()[i].ReconciliationDate = on
			}
		}
		t.Source.Schedule.AddException(t.Source.ScheduleDate, edited)
		return
	}
	split.ReconciliationDate = on
	t.Mtime = time.Now()
}

// Schedules returns the ledger's recurring schedules.
func (l *Ledger) Schedules() []*Recurrence { return l.schedules }

// AddSchedule registers a recurring schedule.
func (l *Ledger) AddSchedule(r *Recurrence) { l.schedules = append(l.schedules, r) }

// RemoveSchedule unregisters a schedule; its spawns vanish on next cook.
func (l *Ledger) RemoveSchedule(r *Recurrence) {
	l.schedules = slices.DeleteFunc(l.schedules, func(x *Recurrence) bool { return x == r })
}

// Budgets returns the ledger's budgets.
func (l *Ledger) Budgets() []*Budget { return l.budgets }

// AddBudget registers a budget.
func (l *Ledger) AddBudget(b *Budget) { l.budgets = append(l.budgets, b) }

// RemoveBudget unregisters a budget.
func (l *Ledger) RemoveBudget(b *Budget) {
	l.budgets = slices.DeleteFunc(l.budgets, func(x *Budget) bool { return x == b })
}

// Converter returns the currency converter the ledger cooks with.
func (l *Ledger) Converter() Converter { return l.conv }

// Cook recomputes the cooked stream; see Oven.Cook.
func (l *Ledger) Cook(fromDate, untilDate Date) { l.oven.Cook(fromDate, untilDate) }

// ContinueCooking extends the cooked stream; see Oven.ContinueCooking.
func (l *Ledger) ContinueCooking(untilDate Date) { l.oven.ContinueCooking(untilDate) }

// CookedTransactions returns the cooked transaction stream, posted
// transactions mixed with spawns in (date, position) order.
func (l *Ledger) CookedTransactions() []*Transaction { return l.oven.Transactions() }

// CookedUntil returns the cooking watermark.
func (l *Ledger) CookedUntil() Date { return l.oven.CookedUntil() }

// Find returns the first cooked transaction matching the predicate.
func (l *Ledger) Find(pred func(*Transaction) bool) *Transaction {
	for _, t := range l.oven.Transactions() {
		if pred(t) {
			return t
		}
	}
	return nil
}

// String implements fmt.Stringer with a terse summary, for logs.
func (l *Ledger) String() string {
	return fmt.Sprintf("ledger{%d accounts, %d transactions, %d schedules, %d budgets}",
		l.accounts.Len(), len(l.transactions), len(l.schedules), len(l.budgets))
}
