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

type scheduleCmd struct {
	date   string
	repeat string
	every  int
	stop   string
	from   string
	to     string
	amount string
}

func (*scheduleCmd) Name() string     { return "schedule" }
func (*scheduleCmd) Synopsis() string { return "create a recurring transaction, or list them all" }
func (*scheduleCmd) Usage() string {
	return `schedule -from <account> -to <account> -a <amount> -r <repeat> [-d <date>] <description>

  Creates a recurring transaction starting at the given date. Without
  arguments, lists the existing schedules instead. Occurrences are spawned
  when the ledger is cooked; they are never stored.

Usage Examples:
# Rent, monthly from september 5th.
$ ledger schedule -from Checking -to Rent -a 700 -r monthly -d 2008-09-05 pay rent

# List all schedules.
$ ledger schedule
`
}

func (p *scheduleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "0d", "First occurrence date.")
	f.StringVar(&p.repeat, "r", "monthly", "Repeat type (daily, weekly, monthly, yearly, weekday, weekday-last).")
	f.IntVar(&p.every, "every", 1, "Repeat interval, e.g. 2 for every other occurrence.")
	f.StringVar(&p.stop, "stop", "", "Optional last date occurrences may fall on.")
	f.StringVar(&p.from, "from", "", "Account the amount moves out of.")
	f.StringVar(&p.to, "to", "", "Account the amount moves into.")
	f.StringVar(&p.amount, "a", "", "Amount, in the 'from' account currency.")
}

func (p *scheduleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if f.NArg() == 0 && p.from == "" {
		var b strings.Builder
		b.WriteString("| Start | Repeat | Description | Stop |\n|---|---|---|---|\n")
		for _, r := range l.Schedules() {
			typ, every := r.Repeat()
			repeat := typ.String()
			if every > 1 {
				repeat = fmt.Sprintf("%s x%d", typ, every)
			}
			stop := ""
			if !r.Stop().IsZero() {
				stop = r.Stop().String()
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", r.Start(), repeat, r.Ref().Description, stop)
		}
		printMarkdown(b.String())
		return subcommands.ExitSuccess
	}

	typ, err := ledger.ParseRepeatType(p.repeat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	ref, err := buildTransaction(l, p.date, strings.Join(f.Args(), " "), p.from, p.to, p.amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	r := ledger.NewRecurrence(ref, typ, p.every)
	if p.stop != "" {
		stop, err := ledger.ParseDate(p.stop)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		r.SetStop(stop)
	}
	l.AddSchedule(r)

	if err := EncodeLedger(l); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Scheduled %q %s from %s\n", ref.Description, typ, r.Start())
	return subcommands.ExitSuccess
}
