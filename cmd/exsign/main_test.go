package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/crypto"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/weavetest"
	"github.com/openst/openst-weave/weavetest/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	k, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	hexKey := hex.EncodeToString(ethcrypto.FromECDSA(k))
	holder := weavetest.NewAddress()
	to := weavetest.NewAddress()
	data := []byte("payload")

	cases := map[string]struct {
		key        string
		redemption bool
		prefix     crypto.CallPrefix
	}{
		"rule call": {
			key:    hexKey,
			prefix: crypto.ExecuteRuleCallPrefix,
		},
		"redemption call with 0x key": {
			key:        "0x" + hexKey,
			redemption: true,
			prefix:     crypto.ExecuteRedemptionCallPrefix,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			args := []string{
				"-holder", holder.String(),
				"-to", to.String(),
				"-data", hexutil.Encode(data),
				"-nonce", "7",
			}
			if tc.redemption {
				args = append(args, "-redemption")
			}
			var out bytes.Buffer
			require.NoError(t, run(config{Key: tc.key}, &out, args))

			var got signature
			require.NoError(t, json.Unmarshal(out.Bytes(), &got))
			hash := crypto.MessageHash(holder, to, data, 7, tc.prefix)
			assert.Equal(t, hexutil.Bytes(hash), got.Hash)
			signer, err := crypto.Recover(hash, got.V, got.R, got.S)
			require.NoError(t, err)
			assert.Equal(t, got.Signer, signer)
		})
	}
}

func TestRunInvalidInput(t *testing.T) {
	cases := map[string]struct {
		key  string
		args []string
	}{
		"bad key": {
			key:  "zz",
			args: []string{"-holder", weavetest.NewAddress().String(), "-to", weavetest.NewAddress().String(), "-data", "0x01"},
		},
		"missing holder": {
			key:  hex.EncodeToString(make([]byte, 31)) + "01",
			args: []string{"-to", weavetest.NewAddress().String(), "-data", "0x01"},
		},
		"bad data": {
			key:  hex.EncodeToString(make([]byte, 31)) + "01",
			args: []string{"-holder", weavetest.NewAddress().String(), "-to", weavetest.NewAddress().String(), "-data", "nothex"},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var out bytes.Buffer
			err := run(config{Key: tc.key}, &out, tc.args)
			assert.IsErr(t, errors.ErrInput, err)
			assert.Equal(t, 0, out.Len())
		})
	}
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(config{}, &out, []string{"-version"}))
	assert.Equal(t, weave.Version()+"\n", out.String())
}
