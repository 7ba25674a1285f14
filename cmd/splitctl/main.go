// Command splitctl settles an outing offline.
//
// It reads an outing as JSON from a file (or stdin when the path is "-" or
// omitted) and prints the balances and the payments that settle them.
//
//	splitctl outing.json
//	splitctl --json < outing.json
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/ksdfg/bill-splitter/internal/calculator"
	"github.com/ksdfg/bill-splitter/internal/models"
	"github.com/ksdfg/bill-splitter/internal/service"
	"github.com/ksdfg/bill-splitter/internal/validation"
	"github.com/ksdfg/bill-splitter/pkg/logging"
)

func main() {
	asJSON := pflag.Bool("json", false, "print the result as JSON")
	balanceOnly := pflag.Bool("balance", false, "print balances only")
	logLevel := pflag.String("log-level", "warn", "log level (debug, info, warn, error)")
	pflag.Parse()

	logging.Setup(*logLevel, "text")

	if err := run(pflag.Arg(0), os.Stdin, os.Stdout, *asJSON, *balanceOnly); err != nil {
		fmt.Fprintln(os.Stderr, "splitctl:", err)
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(path string, stdin io.Reader, out io.Writer, asJSON, balanceOnly bool) error {
	in := stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var outing models.Outing
	if err := json.NewDecoder(in).Decode(&outing); err != nil {
		return fmt.Errorf("failed to parse outing: %w", err)
	}

	balance, err := service.NewOutingService(nil).ComputeBalance(&outing)
	if err != nil {
		return err
	}
	var split models.OutingSplit
	if !balanceOnly {
		split = calculator.CalculateOutingSplitWithMinimalTransactions(balance)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if balanceOnly {
			return enc.Encode(balance)
		}
		return enc.Encode(struct {
			models.OutingPaymentBalance
			models.OutingSplit
		}{balance, split})
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BALANCE\tNAME\tAMOUNT")
	for _, c := range balance.Creditors {
		fmt.Fprintf(tw, "owed\t%s\t%.2f\n", c.Name, c.Amount)
	}
	for _, d := range balance.Debtors {
		fmt.Fprintf(tw, "owes\t%s\t%.2f\n", d.Name, d.Amount)
	}
	if !balanceOnly {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "FROM\tTO\tAMOUNT")
		for _, plan := range split.PaymentPlans {
			for _, p := range plan.Payments {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\n", plan.Name, p.To, p.Amount)
			}
		}
	}
	return tw.Flush()
}
