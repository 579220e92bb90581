package ledger

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCookBasic(t *testing.T) {
	l, checking, groceries := testLedger()
	salary, _ := l.NewAccount("Salary", Income, "EUR")
	l.AddTransaction(txn("2008-09-10", "market", checking, groceries, EUR(42.50)))
	l.AddTransaction(txn("2008-09-01", "pay", salary, checking, EUR(1000)))

	l.Cook(Date{}, Date{})

	got := dates(l.CookedTransactions())
	want := []string{"2008-09-01", "2008-09-10"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("cooked dates = %v, want %v", got, want)
	}
	if l.CookedUntil() != MustParse("2008-09-10") {
		t.Errorf("CookedUntil = %s, want the last posted date", l.CookedUntil())
	}

	entries := checking.Entries()
	if entries.Len() != 2 {
		t.Fatalf("checking has %d entries, want 2", entries.Len())
	}
	if !entries.At(0).Balance.Equal(EUR(1000)) {
		t.Errorf("first balance = %v, want 1000 EUR", entries.At(0).Balance)
	}
	if !entries.At(1).Balance.Equal(EUR(957.50)) {
		t.Errorf("second balance = %v, want 957.50 EUR", entries.At(1).Balance)
	}
	if !groceries.Entries().Balance().Equal(EUR(42.50)) {
		t.Errorf("groceries balance = %v, want 42.50 EUR", groceries.Entries().Balance())
	}
}

func TestCookScheduleSpawns(t *testing.T) {
	l, checking, groceries := testLedger()
	l.AddTransaction(txn("2008-09-10", "market", checking, groceries, EUR(42.50)))

	rent, _ := l.NewAccount("Rent", Expense, "EUR")
	l.AddSchedule(NewRecurrence(txn("2008-09-05", "pay rent", checking, rent, EUR(700)), RepeatMonthly, 1))

	l.Cook(Date{}, MustParse("2008-11-30"))

	got := dates(l.CookedTransactions())
	want := []string{"2008-09-05", "2008-09-10", "2008-10-05", "2008-11-05"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("cooked dates = %v, want %v", got, want)
	}
	// Spawn positions never collide with posted ones.
	for _, c := range l.CookedTransactions() {
		if c.Source.Kind == ScheduleSpawn && c.Position < len(l.Transactions()) {
			t.Errorf("spawn position %d collides with posted positions", c.Position)
		}
	}
	if !checking.Entries().Balance().Equal(EUR(-2142.50)) {
		t.Errorf("checking balance = %v, want -2142.50 EUR", checking.Entries().Balance())
	}
}

func TestCookBudgetSpawns(t *testing.T) {
	l, checking, groceries := testLedger()
	salary, _ := l.NewAccount("Salary", Income, "EUR")
	l.AddTransaction(txn("2008-09-01", "pay", salary, checking, EUR(1000)))
	l.AddTransaction(txn("2008-09-10", "market", checking, groceries, EUR(42.50)))
	l.AddBudget(&Budget{
		Account: groceries,
		Target:  checking,
		Amount:  EUR(100),
		Repeat:  RepeatMonthly,
		Every:   1,
		Start:   MustParse("2008-09-01"),
	})

	l.Cook(Date{}, MustParse("2008-09-30"))

	spawn := l.Find(func(t *Transaction) bool { return t.IsBudget() })
	if spawn == nil {
		t.Fatal("no budget spawn cooked")
	}
	if spawn.Date != MustParse("2008-09-30") {
		t.Errorf("budget spawn dated %s, want 2008-09-30", spawn.Date)
	}
	if !spawn.Splits()[0].Amount.Equal(EUR(57.50)) {
		t.Errorf("shortfall = %v, want 57.50 EUR", spawn.Splits()[0].Amount)
	}

	// Budget spawns move the with-budget balance only.
	entries := checking.Entries()
	last := entries.At(entries.Len() - 1)
	if !last.Balance.Equal(EUR(957.50)) {
		t.Errorf("balance = %v, want 957.50 EUR", last.Balance)
	}
	if !last.BalanceWithBudget.Equal(EUR(900)) {
		t.Errorf("with-budget balance = %v, want 900 EUR", last.BalanceWithBudget)
	}
	if !groceries.Entries().BalanceWithBudget().Equal(EUR(100)) {
		t.Errorf("groceries with-budget balance = %v, want 100 EUR", groceries.Entries().BalanceWithBudget())
	}
}

func TestCookScheduleFeedsBudget(t *testing.T) {
	// A schedule spawn on the budgeted account counts against the budget
	// like a posted transaction.
	l, checking, groceries := testLedger()
	l.AddSchedule(NewRecurrence(txn("2008-09-05", "weekly shop", checking, groceries, EUR(30)), RepeatMonthly, 1))
	l.AddBudget(&Budget{
		Account: groceries,
		Target:  checking,
		Amount:  EUR(100),
		Repeat:  RepeatMonthly,
		Every:   1,
		Start:   MustParse("2008-09-01"),
	})

	l.Cook(Date{}, MustParse("2008-09-30"))

	spawn := l.Find(func(t *Transaction) bool { return t.IsBudget() })
	if spawn == nil {
		t.Fatal("no budget spawn cooked")
	}
	if !spawn.Splits()[0].Amount.Equal(EUR(70)) {
		t.Errorf("shortfall = %v, want 70 EUR", spawn.Splits()[0].Amount)
	}
}

func TestContinueCooking(t *testing.T) {
	l, checking, _ := testLedger()
	rent, _ := l.NewAccount("Rent", Expense, "EUR")
	l.AddSchedule(NewRecurrence(txn("2008-09-05", "pay rent", checking, rent, EUR(700)), RepeatMonthly, 1))

	l.Cook(Date{}, MustParse("2008-09-30"))
	if got := len(l.CookedTransactions()); got != 1 {
		t.Fatalf("cooked %d transactions, want 1", got)
	}

	// Already covered: a no-op.
	l.ContinueCooking(MustParse("2008-09-20"))
	if got := len(l.CookedTransactions()); got != 1 {
		t.Errorf("no-op ContinueCooking changed the stream to %d transactions", got)
	}
	if l.CookedUntil() != MustParse("2008-09-30") {
		t.Errorf("CookedUntil moved backward to %s", l.CookedUntil())
	}

	l.ContinueCooking(MustParse("2008-11-30"))
	got := dates(l.CookedTransactions())
	want := []string{"2008-09-05", "2008-10-05", "2008-11-05"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cooked dates = %v, want %v", got, want)
	}
	if !rent.Entries().Balance().Equal(EUR(2100)) {
		t.Errorf("rent balance = %v, want 2100 EUR", rent.Entries().Balance())
	}
}

func TestIncrementalCookMatchesFull(t *testing.T) {
	build := func() (*Ledger, *Account) {
		l, checking, groceries := testLedger()
		salary, _ := l.NewAccount("Salary", Income, "EUR")
		l.AddTransaction(txn("2008-09-01", "pay", salary, checking, EUR(1000)))
		l.AddTransaction(txn("2008-09-10", "market", checking, groceries, EUR(42.50)))
		l.AddTransaction(txn("2008-09-20", "market", checking, groceries, EUR(17.25)))
		l.AddSchedule(NewRecurrence(txn("2008-09-05", "net", checking, groceries, EUR(9.99)), RepeatMonthly, 1))
		return l, checking
	}

	full, fullChecking := build()
	full.Cook(Date{}, MustParse("2008-10-31"))

	incr, incrChecking := build()
	incr.Cook(Date{}, MustParse("2008-10-31"))
	// Recook the tail only; totals resume from the kept entries.
	incr.Cook(MustParse("2008-09-15"), MustParse("2008-10-31"))

	if !reflect.DeepEqual(dates(incr.CookedTransactions()), dates(full.CookedTransactions())) {
		t.Errorf("incremental cooked dates = %v, want %v",
			dates(incr.CookedTransactions()), dates(full.CookedTransactions()))
	}
	if fullChecking.Entries().Len() != incrChecking.Entries().Len() {
		t.Fatalf("entry counts differ: %d vs %d", incrChecking.Entries().Len(), fullChecking.Entries().Len())
	}
	for i := 0; i < fullChecking.Entries().Len(); i++ {
		f, n := fullChecking.Entries().At(i), incrChecking.Entries().At(i)
		if !f.Balance.Equal(n.Balance) || !f.BalanceWithBudget.Equal(n.BalanceWithBudget) {
			t.Errorf("entry %d balances differ: %v vs %v", i, n.Balance, f.Balance)
		}
	}
}

func TestCookReconciledBalances(t *testing.T) {
	l, checking, _ := testLedger()
	salary, _ := l.NewAccount("Salary", Income, "EUR")

	t1 := txn("2008-09-01", "first", salary, checking, EUR(100))
	t1.Splits()[1].ReconciliationDate = MustParse("2008-09-20")
	t2 := txn("2008-09-05", "second", salary, checking, EUR(10))
	t3 := txn("2008-09-10", "third", salary, checking, EUR(50))
	t3.Splits()[1].ReconciliationDate = MustParse("2008-09-12")
	l.AddTransaction(t1)
	l.AddTransaction(t2)
	l.AddTransaction(t3)

	l.Cook(Date{}, Date{})

	// Reconciliation order is (2008-09-05 unreconciled, 2008-09-12,
	// 2008-09-20), regardless of the entry order.
	entries := checking.Entries()
	wantReconciled := []Amount{EUR(150), EUR(0), EUR(50)}
	for i, want := range wantReconciled {
		if got := entries.At(i).ReconciledBalance; !got.Equal(want) {
			t.Errorf("entry %d reconciled balance = %v, want %v", i, got, want)
		}
	}
	if got := entries.BalanceOfReconciled(); !got.Equal(EUR(50)) {
		t.Errorf("BalanceOfReconciled = %v, want 50 EUR", got)
	}
}

func TestCookReconciledBalancesSharedDate(t *testing.T) {
	// Splits reconciled on the same date fall back to (transaction date,
	// position) order for the running reconciled balance.
	l, checking, _ := testLedger()
	salary, _ := l.NewAccount("Salary", Income, "EUR")

	t1 := txn("2008-09-10", "third", salary, checking, EUR(1))
	t2 := txn("2008-09-01", "first", salary, checking, EUR(100))
	t3 := txn("2008-09-05", "second", salary, checking, EUR(10))
	for _, x := range []*Transaction{t1, t2, t3} {
		x.Splits()[1].ReconciliationDate = MustParse("2008-09-20")
		l.AddTransaction(x)
	}

	l.Cook(Date{}, Date{})

	entries := checking.Entries()
	wantReconciled := []Amount{EUR(100), EUR(110), EUR(111)}
	for i, want := range wantReconciled {
		if got := entries.At(i).ReconciledBalance; !got.Equal(want) {
			t.Errorf("entry %d reconciled balance = %v, want %v", i, got, want)
		}
	}
	if got := entries.BalanceOfReconciled(); !got.Equal(EUR(111)) {
		t.Errorf("BalanceOfReconciled = %v, want 111 EUR", got)
	}
}

func TestCookPullsFromDateBack(t *testing.T) {
	// A reconciliation date inside the window forces its transaction to
	// recook even though the transaction itself is dated before the
	// window.
	l, checking, _ := testLedger()
	salary, _ := l.NewAccount("Salary", Income, "EUR")

	t1 := txn("2008-09-01", "first", salary, checking, EUR(100))
	t1.Splits()[1].ReconciliationDate = MustParse("2008-09-15")
	l.AddTransaction(t1)
	l.AddTransaction(txn("2008-09-10", "second", salary, checking, EUR(10)))

	l.Cook(Date{}, Date{})
	l.Cook(MustParse("2008-09-10"), Date{})

	entries := checking.Entries()
	if entries.Len() != 2 {
		t.Fatalf("checking has %d entries after recook, want 2", entries.Len())
	}
	if !entries.Balance().Equal(EUR(110)) {
		t.Errorf("balance = %v, want 110 EUR", entries.Balance())
	}
	if !entries.BalanceOfReconciled().Equal(EUR(100)) {
		t.Errorf("BalanceOfReconciled = %v, want 100 EUR", entries.BalanceOfReconciled())
	}
}

func TestCookConvertsBalances(t *testing.T) {
	rates := NewRates()
	rates.Set("USD", "EUR", MustParse("2008-09-01"), decimal.RequireFromString("0.80"))
	l := NewLedger(rates)
	checking, _ := l.NewAccount("Checking", Asset, "EUR")
	employer, _ := l.NewAccount("Employer", Income, "USD")

	// The split amount stays native; the running balance converts at the
	// transaction date.
	pay := NewTransaction(MustParse("2008-09-01"), "pay")
	pay.AddSplit(&Split{Account: employer, Amount: USD(-1000)})
	pay.AddSplit(&Split{Account: checking, Amount: USD(1000)})
	l.AddTransaction(pay)

	l.Cook(Date{}, Date{})

	e := checking.Entries().At(0)
	if !e.Amount.Equal(USD(1000)) {
		t.Errorf("entry amount = %v, want the native 1000 USD", e.Amount)
	}
	if !e.Balance.Equal(EUR(800)) {
		t.Errorf("balance = %v, want 800 EUR", e.Balance)
	}
}

func TestCookEmptyLedger(t *testing.T) {
	l := NewLedger(nil)
	l.Cook(Date{}, Date{})
	if len(l.CookedTransactions()) != 0 {
		t.Errorf("empty ledger cooked %d transactions", len(l.CookedTransactions()))
	}
	if !l.CookedUntil().IsZero() {
		t.Errorf("CookedUntil = %s, want zero", l.CookedUntil())
	}
}

func TestNormalBalanceAndCashFlow(t *testing.T) {
	l, checking, groceries := testLedger()
	salary, _ := l.NewAccount("Salary", Income, "EUR")
	l.AddTransaction(txn("2008-09-01", "pay", salary, checking, EUR(1000)))
	l.AddTransaction(txn("2008-09-10", "market", checking, groceries, EUR(42.50)))

	l.Cook(Date{}, Date{})

	// Income accounts report credits positive.
	if got := salary.Entries().NormalBalance(MustParse("2008-09-30"), ""); !got.Equal(EUR(1000)) {
		t.Errorf("salary normal balance = %v, want 1000 EUR", got)
	}
	september := NewRange(MustParse("2008-09-01"), MustParse("2008-09-30"))
	if got := groceries.Entries().NormalCashFlow(september, ""); !got.Equal(EUR(42.50)) {
		t.Errorf("groceries cash flow = %v, want 42.50 EUR", got)
	}
	if got := checking.Entries().NormalCashFlow(september, ""); !got.Equal(EUR(957.50)) {
		t.Errorf("checking cash flow = %v, want 957.50 EUR", got)
	}
}
