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

type rateCmd struct {
	from string
	to   string
	date string
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "record an exchange rate" }
func (*rateCmd) Usage() string {
	return `rate -from <currency> -to <currency> [-d <date>] <rate>

  Records the value of one unit of the 'from' currency expressed in the
  'to' currency on a date. Cooking converts foreign amounts with the rate
  nearest to each transaction date.

Usage Examples:
# 1 USD was worth 0.85 EUR yesterday.
$ ledger rate -from USD -to EUR -d -1d 0.85
`
}

func (p *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.from, "from", "", "Source currency code.")
	f.StringVar(&p.to, "to", "", "Target currency code.")
	f.StringVar(&p.date, "d", "0d", "Rate date.")
}

func (p *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected exactly one rate value")
		return subcommands.ExitUsageError
	}
	for _, code := range []string{p.from, p.to} {
		if err := ledger.ValidateCurrency(code); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}
	on, err := ledger.ParseDate(p.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	rate, err := decimal.NewFromString(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid rate %q: %v\n", f.Arg(0), err)
		return subcommands.ExitUsageError
	}

	rates, err := DecodeRates()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	rates.Set(p.from, p.to, on, rate)
	if err := EncodeRates(rates); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded 1 %s = %s %s on %s\n", p.from, rate, p.to, on)
	return subcommands.ExitSuccess
}
