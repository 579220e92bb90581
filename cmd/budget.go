package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ledger"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type budgetCmd struct {
	account string
	target  string
	amount  string
	repeat  string
	every   int
	start   string
	stop    string
}

func (*budgetCmd) Name() string     { return "budget" }
func (*budgetCmd) Synopsis() string { return "budget an account per period, or list the budgets" }
func (*budgetCmd) Usage() string {
	return `budget -account <account> -a <amount> [-target <account>] [-r <repeat>] [-s <start>]

  Projects a per-period target amount on an account. Cooking spawns the
  projected shortfall of each period, dated at the period's end, balanced
  against the target account. Without -account, lists the budgets.

Usage Examples:
# 400 a month for groceries, taken from checking.
$ ledger budget -account Groceries -target Checking -a 400

# List all budgets.
$ ledger budget
`
}

func (p *budgetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.account, "account", "", "Budgeted account.")
	f.StringVar(&p.target, "target", "", "Optional balancing account.")
	f.StringVar(&p.amount, "a", "", "Per-period target amount, in the budgeted account currency.")
	f.StringVar(&p.repeat, "r", "monthly", "Repeat type (daily, weekly, monthly, yearly, weekday, weekday-last).")
	f.IntVar(&p.every, "every", 1, "Repeat interval.")
	f.StringVar(&p.start, "s", "0d", "First period start date.")
	f.StringVar(&p.stop, "stop", "", "Optional last period date.")
}

func (p *budgetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if p.account == "" {
		for _, b := range l.Budgets() {
			target := "-"
			if b.Target != nil {
				target = b.Target.Name
			}
			fmt.Printf("%s: %s %s from %s, against %s\n", b.Account.Name, b.Amount, b.Repeat, b.Start, target)
		}
		return subcommands.ExitSuccess
	}

	account := l.Accounts().Find(p.account)
	if account == nil {
		fmt.Fprintf(os.Stderr, "unknown account %q\n", p.account)
		return subcommands.ExitUsageError
	}
	var target *ledger.Account
	if p.target != "" {
		if target = l.Accounts().Find(p.target); target == nil {
			fmt.Fprintf(os.Stderr, "unknown account %q\n", p.target)
			return subcommands.ExitUsageError
		}
	}
	typ, err := ledger.ParseRepeatType(p.repeat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	value, err := decimal.NewFromString(p.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid amount %q: %v\n", p.amount, err)
		return subcommands.ExitUsageError
	}
	start, err := ledger.ParseDate(p.start)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	b := &ledger.Budget{
		Account: account,
		Target:  target,
		Amount:  ledger.NewAmount(value, account.Currency),
		Repeat:  typ,
		Every:   p.every,
		Start:   start,
	}
	if p.stop != "" {
		stop, err := ledger.ParseDate(p.stop)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		b.Stop = stop
	}
	l.AddBudget(b)

	if err := EncodeLedger(l); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Budgeted %s %s on %q\n", b.Amount, b.Repeat, account.Name)
	return subcommands.ExitSuccess
}
