package ledger

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Converter translates an amount into another currency at a historical rate.
//
// The cooking engine treats it as a pure function: a lookup never fails,
// missing rates resolve to the nearest known rate (or 1 when nothing is
// known at all), and staleness is the caller's concern.
type Converter interface {
	Convert(a Amount, currency string, on Date) Amount
}

// rateHistory is a chronological series of rates for one currency pair.
type rateHistory struct {
	days  []Date
	rates []decimal.Decimal
}

func (h *rateHistory) set(on Date, rate decimal.Decimal) {
	i, found := slices.BinarySearchFunc(h.days, on, Date.Compare)
	if found {
		h.rates[i] = rate
		return
	}
	h.days = slices.Insert(h.days, i, on)
	h.rates = slices.Insert(h.rates, i, rate)
}

// asOf returns the rate on a given day, or the nearest known one: the most
// recent rate before the day, falling back to the earliest rate after it.
func (h *rateHistory) asOf(on Date) (decimal.Decimal, bool) {
	if len(h.days) == 0 {
		return decimal.Decimal{}, false
	}
	i, found := slices.BinarySearchFunc(h.days, on, Date.Compare)
	if found {
		return h.rates[i], true
	}
	if i == 0 {
		return h.rates[0], true
	}
	return h.rates[i-1], true
}

// Rates is an in-memory table of historical exchange rates implementing
// Converter. Its zero value is not usable; use NewRates.
type Rates struct {
	pairs map[string]*rateHistory // keyed by "from/to"
}

// NewRates creates an empty rate table.
func NewRates() *Rates {
	return &Rates{pairs: make(map[string]*rateHistory)}
}

// Set records the rate of one unit of 'from' expressed in 'to' on a date.
func (r *Rates) Set(from, to string, on Date, rate decimal.Decimal) {
	key := from + "/" + to
	h, ok := r.pairs[key]
	if !ok {
		h = &rateHistory{}
		r.pairs[key] = h
	}
	h.set(on, rate)
}

// rate finds the nearest known rate for the pair, trying the reciprocal
// pair when the direct one was never recorded.
func (r *Rates) rate(from, to string, on Date) decimal.Decimal {
	if h, ok := r.pairs[from+"/"+to]; ok {
		if rate, ok := h.asOf(on); ok {
			return rate
		}
	}
	if h, ok := r.pairs[to+"/"+from]; ok {
		if rate, ok := h.asOf(on); ok && !rate.IsZero() {
			return decimal.New(1, 0).Div(rate)
		}
	}
	// No rate was ever recorded for this pair. Fall back to parity: the
	// engine must never observe a missing-rate failure.
	return decimal.New(1, 0)
}

// Convert translates an amount into the target currency at the rate nearest
// to the given date.
func (r *Rates) Convert(a Amount, currency string, on Date) Amount {
	if a.Currency() == currency || a.Currency() == "" || a.IsZero() {
		return Cents(a.MinorUnits(), currency)
	}
	return NewAmount(a.Decimal().Mul(r.rate(a.Currency(), currency, on)), currency)
}

// Pairs iterates over recorded (from, to, date, rate) tuples in a stable
// order, for persistence.
func (r *Rates) Pairs(visit func(from, to string, on Date, rate decimal.Decimal)) {
	keys := make([]string, 0, len(r.pairs))
	for k := range r.pairs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		from, to, _ := strings.Cut(k, "/")
		h := r.pairs[k]
		for i, on := range h.days {
			visit(from, to, on, h.rates[i])
		}
	}
}

var _ Converter = (*Rates)(nil)
