// Package cmd implements the CLI application to manage a ledger.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/etnz/ledger"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&accountCmd{}, "ledger")
	c.Register(&addCmd{}, "ledger")
	c.Register(&scheduleCmd{}, "ledger")
	c.Register(&budgetCmd{}, "ledger")
	c.Register(&rateCmd{}, "ledger")

	c.Register(&registerCmd{}, "reports")

	c.Register(&fmtCmd{}, "maintenance")
	c.Register(&topicCmd{}, "maintenance")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "ledger.jsonl", "Path to the ledger file (JSONL format)")
var ratesFile = flag.String("rates-file", "rates.jsonl", "Path to the exchange rates file (JSONL format)")

// DecodeRates loads the app rates file into a rate table.
func DecodeRates() (*ledger.Rates, error) {
	f, err := os.Open(*ratesFile)
	if errors.Is(err, fs.ErrNotExist) {
		return ledger.NewRates(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open rates file %q: %w", *ratesFile, err)
	}
	defer f.Close()
	return ledger.DecodeRates(f)
}

// DecodeLedger loads the app ledger file, cooking with the app rates.
func DecodeLedger() (*ledger.Ledger, error) {
	conv, err := DecodeRates()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, ledger file does not exist, starting an empty ledger instead")
		return ledger.NewLedger(conv), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	return ledger.DecodeLedger(f, conv)
}

// EncodeLedger writes the ledger back to the app ledger file in canonical
// form.
func EncodeLedger(l *ledger.Ledger) error {
	f, err := os.Create(*ledgerFile)
	if err != nil {
		return fmt.Errorf("could not write ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	return ledger.EncodeLedger(f, l)
}

// EncodeRates writes the rate table back to the app rates file.
func EncodeRates(r *ledger.Rates) error {
	f, err := os.Create(*ratesFile)
	if err != nil {
		return fmt.Errorf("could not write rates file %q: %w", *ratesFile, err)
	}
	defer f.Close()
	return ledger.EncodeRates(f, r)
}
