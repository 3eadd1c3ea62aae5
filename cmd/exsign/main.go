/*
Exsign signs an executable transaction of a token holder with a session key.

The printed signature is what a relayer puts into an execute rule or an
execute redemption message. The private key is read from the EXSIGN_KEY
environment variable as 32 hex encoded bytes.
*/
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kelseyhightower/envconfig"
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/crypto"
	"github.com/openst/openst-weave/errors"
)

type config struct {
	Key string `envconfig:"KEY"`
}

// signature is the output of the program.
type signature struct {
	Signer weave.Address `json:"signer"`
	Hash   hexutil.Bytes `json:"hash"`
	V      uint32        `json:"v"`
	R      hexutil.Bytes `json:"r"`
	S      hexutil.Bytes `json:"s"`
}

func main() {
	var conf config
	if err := envconfig.Process("exsign", &conf); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(conf, os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(conf config, out io.Writer, args []string) error {
	fl := flag.NewFlagSet("exsign", flag.ContinueOnError)
	var (
		holderFl     = fl.String("holder", "", "Address of the token holder.")
		toFl         = fl.String("to", "", "Address of the called rule or co-gateway.")
		dataFl       = fl.String("data", "", "Hex encoded call payload, as created by weave.EncodeMsg.")
		nonceFl      = fl.Uint64("nonce", 0, "Nonce of the session key.")
		redemptionFl = fl.Bool("redemption", false, "Sign an execute redemption call instead of an execute rule call.")
		versionFl    = fl.Bool("version", false, "Print the version and exit.")
	)
	fl.Usage = func() {
		fmt.Fprintf(fl.Output(), "Usage: EXSIGN_KEY=<hex> %s [options]\n\n", os.Args[0])
		fl.PrintDefaults()
	}
	if err := fl.Parse(args); err != nil {
		return err
	}
	if *versionFl {
		_, err := fmt.Fprintln(out, weave.Version())
		return err
	}

	if conf.Key == "" {
		return errors.Wrap(errors.ErrEmpty, "EXSIGN_KEY is not set")
	}
	key, err := crypto.PrivateKeyFromHex(strings.TrimPrefix(conf.Key, "0x"))
	if err != nil {
		return errors.Wrap(err, "private key")
	}
	holder, err := parseAddress("holder", *holderFl)
	if err != nil {
		return err
	}
	to, err := parseAddress("to", *toFl)
	if err != nil {
		return err
	}
	data, err := hexutil.Decode(*dataFl)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "data: %s", err)
	}

	prefix := crypto.ExecuteRuleCallPrefix
	if *redemptionFl {
		prefix = crypto.ExecuteRedemptionCallPrefix
	}
	hash := crypto.MessageHash(holder, to, data, *nonceFl, prefix)
	v, r, s, err := key.Sign(hash)
	if err != nil {
		return errors.Wrap(err, "sign")
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(signature{
		Signer: key.Address(),
		Hash:   hash,
		V:      v,
		R:      r,
		S:      s,
	})
}

func parseAddress(name, raw string) (weave.Address, error) {
	addr, err := weave.ParseAddress(raw)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, name)
	}
	return addr, nil
}
