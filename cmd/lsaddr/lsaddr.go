package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/x/cogateway"
	"github.com/openst/openst-weave/x/constraint"
	"github.com/openst/openst-weave/x/contract"
	"github.com/openst/openst-weave/x/multisig"
	"github.com/openst/openst-weave/x/organization"
	"github.com/openst/openst-weave/x/recovery"
	"github.com/openst/openst-weave/x/rules"
	"github.com/openst/openst-weave/x/token"
	"github.com/openst/openst-weave/x/tokenholder"
	"github.com/openst/openst-weave/x/tokenrules"
)

// kinds lists every contract kind that can be instantiated, sorted by
// value.
var kinds = []string{
	cogateway.Kind,       // cogateway
	constraint.Kind,      // constraint
	rules.CreditKind,     // credit_rule
	rules.FirewalledKind, // firewalled_rule
	multisig.Kind,        // multisig
	organization.Kind,    // organization
	rules.PricerKind,     // pricer_rule
	recovery.Kind,        // recovery
	token.Kind,           // token
	tokenholder.Kind,     // tokenholder
	tokenrules.Kind,      // tokenrules
	rules.TransferKind,   // transfer_rule
}

// nolint
func main() {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	offsetFl := fl.Int("offset", 1, "Ignore first N contract addresses.")
	limitFl := fl.Int("limit", 20, "Print N contract addresses.")
	headerFl := fl.Bool("header", true, "Display header")
	bech32Fl := fl.String("bech32", "", "Print bech32 addresses with the given human readable part.")
	fl.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage:
	%s <kind> [options]

Print addresses of contracts of selected kind.

Available kinds are: %s

Contract addresses are created using a sequence counter per kind. That means
that those addresses are deterministic and can be precomputed. This knowledge
is helpful when creating a genesis file: you can reference a contract before
it exists.

`, os.Args[0], strings.Join(kinds, ", "))
		fl.PrintDefaults()
	}
	fl.Parse(os.Args[1:])

	if fl.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Contract kind is required.")
		fmt.Fprintf(os.Stderr, "Available kinds: %s\n", strings.Join(kinds, ", "))
		os.Exit(2)
	}
	if *offsetFl < 1 {
		fmt.Fprintln(os.Stderr, "Offset must be greater than zero.")
		os.Exit(2)
	}
	if *limitFl < 1 {
		fmt.Fprintln(os.Stderr, "Limit must be greater than zero.")
		os.Exit(2)
	}

	kind := fl.Arg(0)
	if !knownKind(kind) {
		fmt.Fprintln(os.Stderr, "Unknown kind.")
		os.Exit(2)
	}

	if err := printAddresses(os.Stdout, kind, *headerFl, *bech32Fl, *limitFl, *offsetFl); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func knownKind(kind string) bool {
	i := sort.SearchStrings(kinds, kind)
	return i < len(kinds) && kinds[i] == kind
}

func printAddresses(out io.Writer, kind string, header bool, hrp string, limit, offset int) error {
	w := tabwriter.NewWriter(out, 2, 0, 2, ' ', 0)
	defer w.Flush()

	if header {
		fmt.Fprintln(w, "index\taddress")
	}
	for i := offset; i < limit+offset; i++ {
		a := contract.Address(kind, int64(i))
		s, err := format(a, hrp)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\n", i, s)
	}
	return nil
}

func format(a weave.Address, hrp string) (string, error) {
	if hrp == "" {
		return a.String(), nil
	}
	return a.Bech32(hrp)
}
