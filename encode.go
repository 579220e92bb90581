package ledger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// RecordType identifies the kind of a persisted JSONL line.
type RecordType string

const (
	RecAccount     RecordType = "account"
	RecTransaction RecordType = "transaction"
	RecSchedule    RecordType = "schedule"
	RecBudget      RecordType = "budget"
	RecRate        RecordType = "rate"
)

// splitRec is a specialized struct to read a split from two amount fields.
// We could use json "inline" but the amount would collide with the
// reconciliation fields on some splits.
type splitRec struct {
	Account  string          `json:"account,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Memo     string          `json:"memo,omitempty"`

	Reconciliation Date `json:"reconciliation,omitzero"`
	// Reconciled is the legacy boolean form. On read, a true value with no
	// reconciliation date means "reconciled on the transaction date".
	Reconciled bool `json:"reconciled,omitempty"`
}

func (s splitRec) Money() Amount { return NewAmount(s.Amount, s.Currency) }

// txnRec is a specialized struct for decoding a transaction object, either
// a whole line or nested inside a schedule record.
type txnRec struct {
	Date        Date       `json:"date"`
	Description string     `json:"description,omitempty"`
	Payee       string     `json:"payee,omitempty"`
	Checkno     string     `json:"checkno,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Mtime       int64      `json:"mtime,omitempty"`
	Splits      []splitRec `json:"splits"`
}

// exceptionRec is one persisted schedule exception: a deletion, or a
// replacement transaction for one occurrence.
type exceptionRec struct {
	Date    Date    `json:"date"`
	Deleted bool    `json:"deleted,omitempty"`
	Txn     *txnRec `json:"txn,omitempty"`
}

// globalRec is a persisted global edit.
type globalRec struct {
	From   Date   `json:"from"`
	Offset int    `json:"offset"`
	Ref    txnRec `json:"ref"`
}

type scheduleRec struct {
	Repeat     string         `json:"repeat"`
	Every      int            `json:"every"`
	Stop       Date           `json:"stop,omitzero"`
	Ref        txnRec         `json:"ref"`
	Exceptions []exceptionRec `json:"exceptions,omitempty"`
	Global     *globalRec     `json:"global,omitempty"`
}

type budgetRec struct {
	Account  string          `json:"account"`
	Target   string          `json:"target,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Repeat   string          `json:"repeat"`
	Every    int             `json:"every"`
	Start    Date            `json:"start"`
	Stop     Date            `json:"stop,omitzero"`
}

type rateRec struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Date Date            `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// encodeTxnObject writes a transaction as an ordered JSON object, without
// the record discriminator, so it can nest inside schedule records.
func encodeTxnObject(t *Transaction) (json.RawMessage, error) {
	w := &jsonObjectWriter{}
	w.Append("date", t.Date).
		Optional("description", t.Description).
		Optional("payee", t.Payee).
		Optional("checkno", t.Checkno).
		Optional("notes", t.Notes)
	if !t.Mtime.IsZero() {
		w.Append("mtime", t.Mtime.Unix())
	}
	splits := make([]json.RawMessage, 0, len(t.Splits()))
	for _, s := range t.Splits() {
		sw := &jsonObjectWriter{}
		if s.Account != nil {
			sw.Append("account", s.Account.Name)
		}
		sw.EmbedFrom(s.Amount).
			Optional("memo", s.Memo).
			Optional("reconciliation", s.ReconciliationDate)
		raw, err := sw.MarshalJSON()
		if err != nil {
			return nil, err
		}
		splits = append(splits, raw)
	}
	w.Append("splits", splits)
	return w.MarshalJSON()
}

func writeRecord(w io.Writer, kind RecordType, body json.RawMessage) error {
	ow := &jsonObjectWriter{}
	raw, err := ow.Append("record", kind).Embed(body).MarshalJSON()
	if err != nil {
		return err
	}
	if _, err := w.Write(append(raw, '\n')); err != nil {
		return fmt.Errorf("failed to write %s record: %w", kind, err)
	}
	return nil
}

// EncodeLedger persists the raw ledger to an io.Writer in JSONL format:
// accounts first, then posted transactions in (date, position) order, then
// schedules and budgets. Spawns are never persisted; they are recomputed
// by cooking.
func EncodeLedger(w io.Writer, l *Ledger) error {
	decimal.MarshalJSONWithoutQuotes = true

	for _, a := range l.accounts.All() {
		ow := &jsonObjectWriter{}
		ow.Append("name", a.Name).
			Append("type", a.Type.String()).
			Append("currency", a.Currency).
			Optional("number", a.Number).
			Optional("notes", a.Notes).
			Optional("inactive", a.Inactive).
			Optional("group", a.Group)
		body, err := ow.MarshalJSON()
		if err != nil {
			return err
		}
		if err := writeRecord(w, RecAccount, body); err != nil {
			return err
		}
	}

	txns := slices.Clone(l.transactions)
	slices.SortStableFunc(txns, compareTxn)
	for _, t := range txns {
		body, err := encodeTxnObject(t)
		if err != nil {
			return err
		}
		if err := writeRecord(w, RecTransaction, body); err != nil {
			return err
		}
	}

	for _, r := range l.schedules {
		typ, every := r.Repeat()
		ow := &jsonObjectWriter{}
		ow.Append("repeat", typ.String()).
			Append("every", every).
			Optional("stop", r.Stop())
		ref, err := encodeTxnObject(r.Ref())
		if err != nil {
			return err
		}
		ow.Append("ref", ref)
		var exceptions []json.RawMessage
		for on, txn := range r.Exceptions() {
			ew := &jsonObjectWriter{}
			ew.Append("date", on)
			if txn == nil {
				ew.Append("deleted", true)
			} else {
				raw, err := encodeTxnObject(txn)
				if err != nil {
					return err
				}
				ew.Append("txn", raw)
			}
			raw, err := ew.MarshalJSON()
			if err != nil {
				return err
			}
			exceptions = append(exceptions, raw)
		}
		if len(exceptions) > 0 {
			ow.Append("exceptions", exceptions)
		}
		if from, offset, gref, ok := r.GlobalEdit(); ok {
			gw := &jsonObjectWriter{}
			gw.Append("from", from).Append("offset", offset)
			raw, err := encodeTxnObject(gref)
			if err != nil {
				return err
			}
			gw.Append("ref", raw)
			g, err := gw.MarshalJSON()
			if err != nil {
				return err
			}
			ow.Append("global", json.RawMessage(g))
		}
		body, err := ow.MarshalJSON()
		if err != nil {
			return err
		}
		if err := writeRecord(w, RecSchedule, body); err != nil {
			return err
		}
	}

	for _, b := range l.budgets {
		ow := &jsonObjectWriter{}
		ow.Append("account", b.Account.Name)
		if b.Target != nil {
			ow.Append("target", b.Target.Name)
		}
		ow.EmbedFrom(b.Amount).
			Append("repeat", b.Repeat.String()).
			Append("every", b.Every).
			Append("start", b.Start).
			Optional("stop", b.Stop)
		body, err := ow.MarshalJSON()
		if err != nil {
			return err
		}
		if err := writeRecord(w, RecBudget, body); err != nil {
			return err
		}
	}
	return nil
}

// decodeTxn resolves a transaction record against the known accounts. An
// unknown account name is an error: account records always come first in
// the stream.
func decodeTxn(rec txnRec, accounts *Accounts) (*Transaction, error) {
	t := NewTransaction(rec.Date, rec.Description)
	t.Payee = rec.Payee
	t.Checkno = rec.Checkno
	t.Notes = rec.Notes
	if rec.Mtime != 0 {
		t.Mtime = time.Unix(rec.Mtime, 0)
	}
	for _, s := range rec.Splits {
		split := &Split{Amount: s.Money(), Memo: s.Memo}
		if s.Account != "" {
			a := accounts.Find(s.Account)
			if a == nil {
				return nil, fmt.Errorf("transaction on %s references unknown account %q", rec.Date, s.Account)
			}
			split.Account = a
		}
		switch {
		case !s.Reconciliation.IsZero():
			split.ReconciliationDate = s.Reconciliation
		case s.Reconciled:
			split.ReconciliationDate = rec.Date
		}
		t.AddSplit(split)
	}
	return t, nil
}

// DecodeLedger reads a JSONL stream and rebuilds the raw ledger. The
// returned ledger is not cooked yet; call Cook with a zero from date to
// materialize entries.
func DecodeLedger(r io.Reader, conv Converter) (*Ledger, error) {
	l := NewLedger(conv)
	scanner := bufio.NewScanner(r)
	positions := make(map[Date]int)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Record RecordType `json:"record"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record in line %q: %w", string(lineBytes), err)
		}

		switch identifier.Record {
		case RecAccount:
			var rec struct {
				Name     string `json:"name"`
				Type     string `json:"type"`
				Currency string `json:"currency"`
				Number   string `json:"number"`
				Notes    string `json:"notes"`
				Inactive bool   `json:"inactive"`
				Group    string `json:"group"`
			}
			if err := json.Unmarshal(lineBytes, &rec); err != nil {
				return nil, err
			}
			typ, err := ParseAccountType(rec.Type)
			if err != nil {
				return nil, err
			}
			a := &Account{
				Name:     rec.Name,
				Type:     typ,
				Currency: rec.Currency,
				Number:   rec.Number,
				Notes:    rec.Notes,
				Inactive: rec.Inactive,
				Group:    rec.Group,
			}
			if err := l.accounts.Add(a); err != nil {
				return nil, err
			}

		case RecTransaction:
			var rec txnRec
			if err := json.Unmarshal(lineBytes, &rec); err != nil {
				return nil, err
			}
			t, err := decodeTxn(rec, &l.accounts)
			if err != nil {
				return nil, err
			}
			// Positions restore from file order, not from AddTransaction,
			// so a decode-encode cycle is the identity.
			t.Position = positions[t.Date]
			positions[t.Date]++
			l.transactions = append(l.transactions, t)

		case RecSchedule:
			var rec scheduleRec
			if err := json.Unmarshal(lineBytes, &rec); err != nil {
				return nil, err
			}
			typ, err := ParseRepeatType(rec.Repeat)
			if err != nil {
				return nil, err
			}
			ref, err := decodeTxn(rec.Ref, &l.accounts)
			if err != nil {
				return nil, err
			}
			sched := NewRecurrence(ref, typ, rec.Every)
			sched.SetStop(rec.Stop)
			for _, e := range rec.Exceptions {
				if e.Deleted || e.Txn == nil {
					sched.AddException(e.Date, nil)
					continue
				}
				txn, err := decodeTxn(*e.Txn, &l.accounts)
				if err != nil {
					return nil, err
				}
				sched.AddException(e.Date, txn)
			}
			if rec.Global != nil {
				gref, err := decodeTxn(rec.Global.Ref, &l.accounts)
				if err != nil {
					return nil, err
				}
				sched.SetGlobalEdit(rec.Global.From, rec.Global.Offset, gref)
			}
			l.schedules = append(l.schedules, sched)

		case RecBudget:
			var rec budgetRec
			if err := json.Unmarshal(lineBytes, &rec); err != nil {
				return nil, err
			}
			typ, err := ParseRepeatType(rec.Repeat)
			if err != nil {
				return nil, err
			}
			account := l.accounts.Find(rec.Account)
			if account == nil {
				return nil, fmt.Errorf("budget references unknown account %q", rec.Account)
			}
			var target *Account
			if rec.Target != "" {
				if target = l.accounts.Find(rec.Target); target == nil {
					return nil, fmt.Errorf("budget references unknown target account %q", rec.Target)
				}
			}
			l.budgets = append(l.budgets, &Budget{
				Account: account,
				Target:  target,
				Amount:  NewAmount(rec.Amount, rec.Currency),
				Repeat:  typ,
				Every:   rec.Every,
				Start:   rec.Start,
				Stop:    rec.Stop,
			})

		default:
			return nil, fmt.Errorf("unknown record type: %q", identifier.Record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	slices.SortStableFunc(l.transactions, compareTxn)
	return l, nil
}

// EncodeRates persists a rate table as JSONL, one rate per line, in a
// stable pair-then-date order.
func EncodeRates(w io.Writer, r *Rates) error {
	decimal.MarshalJSONWithoutQuotes = true
	var werr error
	r.Pairs(func(from, to string, on Date, rate decimal.Decimal) {
		if werr != nil {
			return
		}
		ow := &jsonObjectWriter{}
		body, err := ow.Append("from", from).
			Append("to", to).
			Append("date", on).
			Append("rate", rate).
			MarshalJSON()
		if err != nil {
			werr = err
			return
		}
		werr = writeRecord(w, RecRate, body)
	})
	return werr
}

// DecodeRates reads a JSONL stream of rate records into a fresh table.
func DecodeRates(r io.Reader) (*Rates, error) {
	rates := NewRates()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var rec rateRec
		if err := json.Unmarshal(lineBytes, &rec); err != nil {
			return nil, fmt.Errorf("invalid rate line %q: %w", string(lineBytes), err)
		}
		rates.Set(rec.From, rec.To, rec.Date, rec.Rate)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return rates, nil
}
