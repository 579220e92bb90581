package ledger

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
	"time"
)

// RepeatType defines how a schedule or budget steps from one occurrence to
// the next.
type RepeatType int

const (
	RepeatDaily RepeatType = iota
	RepeatWeekly
	RepeatMonthly
	RepeatYearly
	// RepeatWeekday repeats on the same weekday of the same week number
	// each month (e.g. third monday). Months lacking that weekday (a fifth
	// tuesday) are skipped.
	RepeatWeekday
	// RepeatWeekdayLast repeats on the last such weekday of each month.
	RepeatWeekdayLast
)

func (t RepeatType) String() string {
	switch t {
	case RepeatDaily:
		return "daily"
	case RepeatWeekly:
		return "weekly"
	case RepeatMonthly:
		return "monthly"
	case RepeatYearly:
		return "yearly"
	case RepeatWeekday:
		return "weekday"
	case RepeatWeekdayLast:
		return "weekday-last"
	default:
		return "unknown"
	}
}

// ParseRepeatType parses a repeat type name.
func ParseRepeatType(s string) (RepeatType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return RepeatDaily, nil
	case "weekly":
		return RepeatWeekly, nil
	case "monthly":
		return RepeatMonthly, nil
	case "yearly":
		return RepeatYearly, nil
	case "weekday":
		return RepeatWeekday, nil
	case "weekday-last":
		return RepeatWeekdayLast, nil
	default:
		return 0, fmt.Errorf("unknown repeat type: %q", s)
	}
}

// nthWeekdayOfMonth returns the date of the weekno-th weekday of a month,
// or false when the month has no such day (e.g. a fifth tuesday).
func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, weekno int) (Date, bool) {
	first := NewDate(year, month, 1)
	day := 1 + int(weekday-first.Weekday()+7)%7 + 7*weekno
	if day > DaysIn(year, month) {
		return Date{}, false
	}
	return NewDate(year, month, day), true
}

// lastWeekdayOfMonth returns the date of the last given weekday of a month.
func lastWeekdayOfMonth(year int, month time.Month, weekday time.Weekday) Date {
	last := NewDate(year, month+1, 0)
	return last.Add(-int(last.Weekday()-weekday+7) % 7)
}

// occurrences yields the infinite sequence of schedule dates generated from
// start. Every occurrence is computed from start, never from the previous
// (possibly clamped) occurrence, so a 31st-of-month schedule reverts to the
// 31st after passing through a shorter month.
func occurrences(start Date, typ RepeatType, every int) iter.Seq[Date] {
	if every < 1 {
		every = 1
	}
	return func(yield func(Date) bool) {
		switch typ {
		case RepeatDaily:
			for k := 0; ; k++ {
				if !yield(start.Add(k * every)) {
					return
				}
			}
		case RepeatWeekly:
			for k := 0; ; k++ {
				if !yield(start.Add(k * every * 7)) {
					return
				}
			}
		case RepeatMonthly:
			for k := 0; ; k++ {
				if !yield(start.AddMonthsClamp(k*every, start.Day())) {
					return
				}
			}
		case RepeatYearly:
			for k := 0; ; k++ {
				if !yield(start.AddMonthsClamp(k*every*12, start.Day())) {
					return
				}
			}
		case RepeatWeekday:
			weekday := start.Weekday()
			weekno := (start.Day() - 1) / 7
			for k := 0; ; k++ {
				base := NewDate(start.Year(), start.Month()+time.Month(k*every), 1)
				if on, ok := nthWeekdayOfMonth(base.Year(), base.Month(), weekday, weekno); ok {
					if !yield(on) {
						return
					}
				}
			}
		case RepeatWeekdayLast:
			weekday := start.Weekday()
			for k := 0; ; k++ {
				base := NewDate(start.Year(), start.Month()+time.Month(k*every), 1)
				if !yield(lastWeekdayOfMonth(base.Year(), base.Month(), weekday)) {
					return
				}
			}
		default:
			panic(fmt.Sprintf("unknown repeat type %d", typ))
		}
	}
}

// globalEdit is the single active schedule-wide edit: from its starting
// occurrence onward, spawns regenerate from the replacement template, their
// date shifted by the recorded day offset. A later global edit replaces it
// entirely.
type globalEdit struct {
	from   Date // original schedule date the edit starts at
	offset int  // days
	ref    *Transaction
}

// Recurrence expands a reference transaction into dated occurrences.
//
// Only the reference transaction, the exception table and the active global
// edit are persisted; spawns are transient and rebuilt by every cook.
type Recurrence struct {
	ref   *Transaction // template; its date is the schedule's start
	typ   RepeatType
	every int
	stop  Date

	// exceptions is keyed by *original* schedule date. A nil value is a
	// local deletion; a non-nil one overrides the occurrence verbatim.
	exceptions map[Date]*Transaction
	global     *globalEdit
}

// NewRecurrence creates a schedule from a reference transaction. The
// reference's date is the first occurrence.
func NewRecurrence(ref *Transaction, typ RepeatType, every int) *Recurrence {
	if every < 1 {
		every = 1
	}
	return &Recurrence{
		ref:        ref.Clone(),
		typ:        typ,
		every:      every,
		exceptions: make(map[Date]*Transaction),
	}
}

// Ref returns the schedule's reference transaction (the template).
func (r *Recurrence) Ref() *Transaction { return r.ref }

// Start returns the date of the first occurrence.
func (r *Recurrence) Start() Date { return r.ref.Date }

// Stop returns the optional last date occurrences may fall on.
func (r *Recurrence) Stop() Date { return r.stop }

// SetStop sets the schedule's stop date. A stop date before the start is a
// valid, inert schedule producing no spawn.
func (r *Recurrence) SetStop(on Date) { r.stop = on }

// Repeat returns the repeat type and interval.
func (r *Recurrence) Repeat() (RepeatType, int) { return r.typ, r.every }

// SetStart moves the first occurrence. Exceptions recorded against the old
// schedule dates would be out of sync, so they are reset.
func (r *Recurrence) SetStart(on Date) {
	r.ref.Date = on
	r.reset()
}

// SetRepeat changes the repeat type or interval and resets exceptions.
func (r *Recurrence) SetRepeat(typ RepeatType, every int) {
	if every < 1 {
		every = 1
	}
	r.typ, r.every = typ, every
	r.reset()
}

func (r *Recurrence) reset() {
	clear(r.exceptions)
	r.global = nil
}

// GetSpawns materializes the occurrences of the schedule up to untilDate.
// The result is deterministic for a fixed schedule state.
func (r *Recurrence) GetSpawns(untilDate Date) []*Transaction {
	bound := untilDate
	if r.global != nil && r.global.offset < 0 {
		// A negative date offset moves visible dates before their schedule
		// dates; extend the iteration bound so those still get spawned.
		bound = bound.Add(-r.global.offset)
	}

	var spawns []*Transaction
	for scheduleDate := range occurrences(r.Start(), r.typ, r.every) {
		if scheduleDate.After(bound) {
			break
		}
		if !r.stop.IsZero() && scheduleDate.After(r.stop) {
			break
		}
		if except, ok := r.exceptions[scheduleDate]; ok {
			if except == nil {
				continue // deleted occurrence
			}
			spawn := except.Clone()
			spawn.Source = Source{Kind: ScheduleSpawn, Schedule: r, ScheduleDate: scheduleDate, Materialized: true}
			spawns = append(spawns, spawn)
			continue
		}
		var spawn *Transaction
		if r.global != nil && !scheduleDate.Before(r.global.from) {
			spawn = r.global.ref.Clone()
			spawn.Date = scheduleDate.Add(r.global.offset)
		} else {
			spawn = r.ref.Clone()
			spawn.Date = scheduleDate
		}
		spawn.Source = Source{Kind: ScheduleSpawn, Schedule: r, ScheduleDate: scheduleDate}
		spawns = append(spawns, spawn)
	}
	return spawns
}

// DeleteAt records a local deletion of one occurrence. Deleting the very
// first occurrence instead advances the schedule's start: the start date
// *is* the first occurrence.
func (r *Recurrence) DeleteAt(scheduleDate Date) {
	if scheduleDate == r.Start() {
		for on := range occurrences(r.Start(), r.typ, r.every) {
			if on.After(scheduleDate) {
				r.ref.Date = on
				break
			}
		}
		return
	}
	r.exceptions[scheduleDate] = nil
}

// StopBefore ends the schedule immediately before the given occurrence.
// This is the "global" flavor of a spawn deletion.
func (r *Recurrence) StopBefore(scheduleDate Date) {
	r.stop = scheduleDate.Add(-1)
}

// AddException overrides one occurrence with a locally edited transaction.
// A nil transaction records a deletion.
func (r *Recurrence) AddException(scheduleDate Date, txn *Transaction) {
	if txn == nil {
		r.exceptions[scheduleDate] = nil
		return
	}
	c := txn.Clone()
	c.Source = Source{}
	r.exceptions[scheduleDate] = c
}

// ChangeGlobally applies an edit to the given occurrence and every later
// one without a local exception. On the first occurrence of a pristine
// schedule it mutates the reference transaction directly; otherwise it
// records the day offset between the occurrence's original and new dates
// plus the overridden fields as the single active global edit, replacing
// any prior one.
func (r *Recurrence) ChangeGlobally(scheduleDate Date, txn *Transaction) {
	if scheduleDate == r.Start() && r.global == nil {
		if _, hasLocal := r.exceptions[scheduleDate]; !hasLocal {
			r.ref = txn.Clone()
			r.ref.Source = Source{}
			return
		}
	}
	g := &globalEdit{from: scheduleDate, offset: txn.Date.Sub(scheduleDate), ref: txn.Clone()}
	g.ref.Source = Source{}
	r.global = g
}

// Exceptions iterates over the exception table in date order. A nil
// transaction is a deleted occurrence.
func (r *Recurrence) Exceptions() iter.Seq2[Date, *Transaction] {
	return func(yield func(Date, *Transaction) bool) {
		dates := slices.Collect(maps.Keys(r.exceptions))
		slices.SortFunc(dates, Date.Compare)
		for _, on := range dates {
			if !yield(on, r.exceptions[on]) {
				return
			}
		}
	}
}

// GlobalEdit returns the active global edit, if any.
func (r *Recurrence) GlobalEdit() (from Date, offset int, ref *Transaction, ok bool) {
	if r.global == nil {
		return Date{}, 0, nil, false
	}
	return r.global.from, r.global.offset, r.global.ref, true
}

// SetGlobalEdit restores a global edit, typically while decoding a
// persisted schedule.
func (r *Recurrence) SetGlobalEdit(from Date, offset int, ref *Transaction) {
	g := &globalEdit{from: from, offset: offset, ref: ref.Clone()}
	g.ref.Source = Source{}
	r.global = g
}
