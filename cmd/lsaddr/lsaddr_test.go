package main

import (
	"bytes"
	"sort"
	"strings"
	"testing"

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
	"github.com/stretchr/testify/require"
)

func TestKindsAreSorted(t *testing.T) {
	require.True(t, sort.StringsAreSorted(kinds), "%v", kinds)
	require.False(t, knownKind("escrow"))
}

func TestEveryKindIsKnown(t *testing.T) {
	all := []string{
		cogateway.Kind,
		constraint.Kind,
		multisig.Kind,
		organization.Kind,
		recovery.Kind,
		rules.CreditKind,
		rules.FirewalledKind,
		rules.PricerKind,
		rules.TransferKind,
		token.Kind,
		tokenholder.Kind,
		tokenrules.Kind,
	}
	for _, kind := range all {
		require.True(t, knownKind(kind), kind)
	}
}

func TestPrintAddresses(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printAddresses(&out, tokenholder.Kind, true, "", 2, 3))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "index"))
	require.Contains(t, lines[1], contract.Address(tokenholder.Kind, 3).String())
	require.Contains(t, lines[2], contract.Address(tokenholder.Kind, 4).String())
}

func TestPrintBech32Addresses(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printAddresses(&out, tokenholder.Kind, false, "ost", 1, 1))
	want, err := contract.Address(tokenholder.Kind, 1).Bech32("ost")
	require.NoError(t, err)
	require.Equal(t, "1  "+want, strings.TrimSpace(out.String()))
}
