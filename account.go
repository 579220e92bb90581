package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// AccountType classifies an account on the balance sheet or income
// statement.
type AccountType int

const (
	Asset AccountType = iota
	Liability
	Income
	Expense
)

func (t AccountType) String() string {
	switch t {
	case Asset:
		return "asset"
	case Liability:
		return "liability"
	case Income:
		return "income"
	case Expense:
		return "expense"
	default:
		return "unknown"
	}
}

// ParseAccountType parses an account type name.
func ParseAccountType(s string) (AccountType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asset":
		return Asset, nil
	case "liability":
		return Liability, nil
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	default:
		return 0, fmt.Errorf("unknown account type: %q", s)
	}
}

// IsCredit reports whether the account type has a credit normal balance.
// Normal figures for such accounts are reported with the sign flipped.
func (t AccountType) IsCredit() bool { return t == Liability || t == Income }

// Account is a named bucket splits post to. Its entries index is fully
// owned and rebuilt by the cooking engine; external readers treat it as an
// immutable snapshot.
type Account struct {
	Name     string
	Type     AccountType
	Currency string
	Number   string
	Notes    string
	Inactive bool
	Group    string

	entries EntryList
}

// Entries returns the account's cooked entries.
func (a *Account) Entries() *EntryList { return &a.entries }

func (a *Account) String() string { return a.Name }

// ErrDuplicateAccountName is returned when creating or renaming an account
// to a name already in use.
var ErrDuplicateAccountName = errors.New("account name already in use")

// Accounts is an ordered set of accounts with unique names
// (case-insensitive).
type Accounts struct {
	accounts []*Account
}

// Find returns the account with this name, or nil.
func (s *Accounts) Find(name string) *Account {
	for _, a := range s.accounts {
		if strings.EqualFold(a.Name, name) {
			return a
		}
	}
	return nil
}

// Add registers a new account, enforcing name uniqueness.
func (s *Accounts) Add(a *Account) error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("account name is empty")
	}
	if s.Find(a.Name) != nil {
		return fmt.Errorf("%w: %q", ErrDuplicateAccountName, a.Name)
	}
	s.accounts = append(s.accounts, a)
	return nil
}

// Remove unregisters an account. Reassignment of its splits is the
// Ledger's job.
func (s *Accounts) Remove(a *Account) {
	for i, x := range s.accounts {
		if x == a {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return
		}
	}
}

// All returns the accounts in creation order.
func (s *Accounts) All() []*Account { return s.accounts }

// Len returns the number of accounts.
func (s *Accounts) Len() int { return len(s.accounts) }
