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

type accountCmd struct {
	typ      string
	currency string
	number   string
	group    string
	notes    string
}

func (*accountCmd) Name() string     { return "account" }
func (*accountCmd) Synopsis() string { return "create an account, or list them all" }
func (*accountCmd) Usage() string {
	return `account [-t <type>] [-c <currency>] [<name>]

  Creates an account with the given name. Without a name, lists the
  existing accounts instead.

Usage Examples:
# Create a checking account.
$ ledger account -t asset -c EUR Checking

# List all accounts.
$ ledger account
`
}

func (p *accountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.typ, "t", "asset", "Account type (asset, liability, income, expense).")
	f.StringVar(&p.currency, "c", "EUR", "Account currency code.")
	f.StringVar(&p.number, "n", "", "Optional account number.")
	f.StringVar(&p.group, "g", "", "Optional display group.")
	f.StringVar(&p.notes, "notes", "", "Optional notes.")
}

func (p *accountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if f.NArg() == 0 {
		var b strings.Builder
		b.WriteString("| Account | Type | Currency |\n|---|---|---|\n")
		for _, a := range l.Accounts().All() {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", a.Name, a.Type, a.Currency)
		}
		printMarkdown(b.String())
		return subcommands.ExitSuccess
	}

	typ, err := ledger.ParseAccountType(p.typ)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if err := ledger.ValidateCurrency(p.currency); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	name := strings.Join(f.Args(), " ")
	a, err := l.NewAccount(name, typ, p.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	a.Number = p.number
	a.Group = p.group
	a.Notes = p.notes

	if err := EncodeLedger(l); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created %s account %q\n", a.Type, a.Name)
	return subcommands.ExitSuccess
}
