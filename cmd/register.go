package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/ledger"
	"github.com/google/subcommands"
)

type registerCmd struct {
	period string
	start  string
	date   string
	budget bool
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "show an account register with running balances" }
func (*registerCmd) Usage() string {
	return `register [-p <period> | -s <start_date>] [-d <end_date>] [-budget] <account>

  Cooks the ledger through the end date and lists the account's entries:
  posted transactions mixed with schedule and budget occurrences, each with
  its running balance. With -budget, balances include budget occurrences.

Usage Examples:
# This month's checking register.
$ ledger register -p month Checking

# Groceries with budget projections through year end.
$ ledger register -d 12-31 -budget Groceries
`
}

func (p *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.period, "p", "", "Predefined period (day, week, month, year).")
	f.StringVar(&p.start, "s", "", "The start date for a custom range. Overrides -p.")
	f.StringVar(&p.date, "d", "", "The end date for the range.")
	f.BoolVar(&p.budget, "budget", false, "Include budget occurrences in the balances.")
}

func (p *registerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "expected an account name")
		return subcommands.ExitUsageError
	}

	l, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	name := strings.Join(f.Args(), " ")
	account := l.Accounts().Find(name)
	if account == nil {
		fmt.Fprintf(os.Stderr, "unknown account %q\n", name)
		return subcommands.ExitFailure
	}

	window, err := p.resolveRange()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	l.Cook(ledger.Date{}, window.To)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", account.Name)
	b.WriteString("| Date | Description | Amount | Balance |\n|---|---|---:|---:|\n")
	for e := range account.Entries().All() {
		if e.Date().Before(window.From) || e.Date().After(window.To) {
			continue
		}
		if !p.budget && e.Transaction().IsBudget() {
			continue
		}
		balance := e.Balance
		if p.budget {
			balance = e.BalanceWithBudget
		}
		description := e.Transaction().Description
		if e.Reconciled() {
			description += " ✓"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			e.Date(), description, e.Amount.SignedString(), balance)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

// resolveRange turns the period/start/end flags into a date range. The
// default is the current month.
func (p *registerCmd) resolveRange() (ledger.Range, error) {
	end := ledger.Today()
	if p.date != "" {
		var err error
		if end, err = ledger.ParseDate(p.date); err != nil {
			return ledger.Range{}, fmt.Errorf("invalid end date: %w", err)
		}
	}
	if p.start != "" {
		start, err := ledger.ParseDate(p.start)
		if err != nil {
			return ledger.Range{}, fmt.Errorf("invalid start date: %w", err)
		}
		return ledger.NewRange(start, end), nil
	}
	period := ledger.Monthly
	if p.period != "" {
		var err error
		if period, err = ledger.ParsePeriod(p.period); err != nil {
			return ledger.Range{}, err
		}
	}
	return period.Range(end), nil
}
