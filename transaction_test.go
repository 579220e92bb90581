package ledger

import "testing"

func TestTransactionClone(t *testing.T) {
	checking := &Account{Name: "Checking", Type: Asset, Currency: "EUR"}
	original := NewTransaction(MustParse("2008-09-10"), "market")
	original.AddSplit(&Split{Account: checking, Amount: EUR(-5)})
	original.AddSplit(&Split{Amount: EUR(5)})

	clone := original.Clone()
	if clone == original {
		t.Fatal("Clone returned the same transaction")
	}
	if len(clone.Splits()) != 2 {
		t.Fatalf("clone has %d splits, want 2", len(clone.Splits()))
	}
	if clone.Splits()[0] == original.Splits()[0] {
		t.Errorf("splits must be copied, not shared")
	}
	if clone.Splits()[0].Transaction() != clone {
		t.Errorf("cloned split points back at the original transaction")
	}
	// Accounts are references, not owned.
	if clone.Splits()[0].Account != checking {
		t.Errorf("cloned split lost its account")
	}
	clone.Splits()[0].Amount = EUR(-10)
	if !original.Splits()[0].Amount.Equal(EUR(-5)) {
		t.Errorf("mutating the clone changed the original")
	}
}

func TestCompareTxn(t *testing.T) {
	a := NewTransaction(MustParse("2008-09-10"), "a")
	b := NewTransaction(MustParse("2008-09-10"), "b")
	b.Position = 1
	c := NewTransaction(MustParse("2008-09-11"), "c")

	if compareTxn(a, b) >= 0 {
		t.Errorf("position should break the tie")
	}
	if compareTxn(b, c) >= 0 {
		t.Errorf("date should order first")
	}
	if compareTxn(a, a) != 0 {
		t.Errorf("a transaction should compare equal to itself")
	}
}

func TestSplitReconciled(t *testing.T) {
	s := &Split{Amount: EUR(5)}
	if s.Reconciled() {
		t.Errorf("fresh split should not be reconciled")
	}
	s.ReconciliationDate = MustParse("2008-09-12")
	if !s.Reconciled() {
		t.Errorf("split with a reconciliation date should be reconciled")
	}
}
