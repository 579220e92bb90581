package ledger

import (
	"errors"
	"testing"
)

func TestParseAccountType(t *testing.T) {
	for _, typ := range []AccountType{Asset, Liability, Income, Expense} {
		got, err := ParseAccountType(typ.String())
		if err != nil || got != typ {
			t.Errorf("ParseAccountType(%q) = %v, %v", typ.String(), got, err)
		}
	}
	if _, err := ParseAccountType("equity"); err == nil {
		t.Errorf("ParseAccountType should reject unknown names")
	}
}

func TestAccountTypeIsCredit(t *testing.T) {
	tests := []struct {
		typ    AccountType
		credit bool
	}{
		{Asset, false},
		{Expense, false},
		{Liability, true},
		{Income, true},
	}
	for _, tt := range tests {
		if got := tt.typ.IsCredit(); got != tt.credit {
			t.Errorf("%s.IsCredit() = %v, want %v", tt.typ, got, tt.credit)
		}
	}
}

func TestAccountsSet(t *testing.T) {
	var s Accounts
	a := &Account{Name: "Checking", Type: Asset, Currency: "EUR"}
	if err := s.Add(a); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(&Account{Name: "CHECKING"}); !errors.Is(err, ErrDuplicateAccountName) {
		t.Errorf("Add duplicate = %v, want ErrDuplicateAccountName", err)
	}
	if got := s.Find("checking"); got != a {
		t.Errorf("Find is not case insensitive")
	}
	if got := s.Find("Savings"); got != nil {
		t.Errorf("Find(Savings) = %v, want nil", got)
	}
	s.Remove(a)
	if s.Len() != 0 {
		t.Errorf("Len after Remove = %d, want 0", s.Len())
	}
}
