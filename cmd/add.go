package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/ledger"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type addCmd struct {
	date    string
	payee   string
	checkno string
	memo    string
	from    string
	to      string
	amount  string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a transaction" }
func (*addCmd) Usage() string {
	return `add -from <account> -to <account> -a <amount> [-d <date>] <description>

  Records a transaction moving an amount from one account to another. The
  amount is expressed in the currency of the 'from' account.

Usage Examples:
# 42.50 from Checking to Groceries, today.
$ ledger add -from Checking -to Groceries -a 42.50 market run

# A salary received last monday.
$ ledger add -from Salary -to Checking -a 2500 -d -1w pay
`
}

func (p *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "0d", "Transaction date.")
	f.StringVar(&p.payee, "payee", "", "Optional payee.")
	f.StringVar(&p.checkno, "checkno", "", "Optional check number.")
	f.StringVar(&p.memo, "memo", "", "Optional memo on both splits.")
	f.StringVar(&p.from, "from", "", "Account the amount moves out of.")
	f.StringVar(&p.to, "to", "", "Account the amount moves into.")
	f.StringVar(&p.amount, "a", "", "Amount, in the 'from' account currency.")
}

func (p *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	t, err := buildTransaction(l, p.date, strings.Join(f.Args(), " "), p.from, p.to, p.amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	t.Payee = p.payee
	t.Checkno = p.checkno
	for _, s := range t.Splits() {
		s.Memo = p.memo
	}

	l.AddTransaction(t)
	if err := EncodeLedger(l); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %q on %s\n", t.Description, t.Date)
	return subcommands.ExitSuccess
}

// buildTransaction assembles the usual two-split transaction from CLI
// flags, resolving account names against the ledger.
func buildTransaction(l *ledger.Ledger, date, description, from, to, amount string) (*ledger.Transaction, error) {
	on, err := ledger.ParseDate(date)
	if err != nil {
		return nil, err
	}
	src := l.Accounts().Find(from)
	if src == nil {
		return nil, fmt.Errorf("unknown account %q", from)
	}
	dst := l.Accounts().Find(to)
	if dst == nil {
		return nil, fmt.Errorf("unknown account %q", to)
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	a := ledger.NewAmount(value, src.Currency)

	t := ledger.NewTransaction(on, description)
	t.AddSplit(&ledger.Split{Account: src, Amount: a.Neg()})
	t.AddSplit(&ledger.Split{Account: dst, Amount: a})
	return t, nil
}
