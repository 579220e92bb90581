package ledger

// EUR is a helper for tests to create euro amounts from const
func EUR(v float64) Amount { return A(v, "EUR") }

// USD is a helper for tests to create usd amounts from const
func USD(v float64) Amount { return A(v, "USD") }

// txn builds a posted transaction moving an amount out of 'from' and into
// 'to', the usual two-split shape.
func txn(on, description string, from, to *Account, amount Amount) *Transaction {
	t := NewTransaction(MustParse(on), description)
	t.AddSplit(&Split{Account: from, Amount: amount.Neg()})
	t.AddSplit(&Split{Account: to, Amount: amount})
	return t
}

// testLedger builds a ledger with a checking and a groceries account, both
// in euro.
func testLedger() (l *Ledger, checking, groceries *Account) {
	l = NewLedger(nil)
	checking, _ = l.NewAccount("Checking", Asset, "EUR")
	groceries, _ = l.NewAccount("Groceries", Expense, "EUR")
	return l, checking, groceries
}

// dates extracts the visible dates of a transaction list, cooked stream or
// spawn list alike.
func dates(txns []*Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.Date.String()
	}
	return out
}
