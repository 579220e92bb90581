package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/ledger/docs"
	"github.com/google/subcommands"
)

// topicCmd renders the embedded documentation pages.
type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show built-in documentation" }
func (*topicCmd) Usage() string {
	return `topic [<name>...]

  Renders one or more documentation topics. Without arguments it shows
  the table of contents; the name '*' shows every topic.

Usage Examples:
  ledger topic
  ledger topic schedules budgets
  ledger topic '*'

Available topics: ` + strings.Join(docs.List(), ", ") + `
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	names := f.Args()
	if len(names) == 0 {
		names = []string{"readme"}
	}

	doc, err := docs.Load(names...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
