package weave

import (
	"encoding/json"
	"testing"

	"github.com/openst/openst-weave/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionParse(t *testing.T) {
	cond := NewCondition("multisig", "wallet", []byte{0, 0, 0, 0, 0, 0, 0, 7})
	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, "multisig", ext)
	assert.Equal(t, "wallet", typ)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 7}, data)
	assert.Equal(t, "multisig/wallet/0000000000000007", cond.String())

	bad := Condition("no-slashes")
	_, _, _, err = bad.Parse()
	assert.True(t, errors.ErrInput.Is(err))
	assert.Error(t, bad.Validate())
}

func TestConditionAddress(t *testing.T) {
	a := NewCondition("tokenhold", "holder", []byte{1}).Address()
	b := NewCondition("tokenhold", "holder", []byte{2}).Address()
	require.NoError(t, a.Validate())
	assert.Len(t, a, AddressLength)
	assert.False(t, a.Equals(b))
	assert.True(t, a.Equals(NewCondition("tokenhold", "holder", []byte{1}).Address()))
}

func TestAddressJSON(t *testing.T) {
	addr := NewCondition("token", "token", []byte{9}).Address()

	raw, err := json.Marshal(addr)
	require.NoError(t, err)
	var back Address
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, addr, back)

	b32, err := addr.Bech32("ost")
	require.NoError(t, err)

	cases := map[string]struct {
		enc     string
		want    Address
		wantErr *errors.Error
	}{
		"0x prefixed hex": {
			enc:  "0x" + "00112233445566778899aabbccddeeff00112233",
			want: Address{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x00, 0x11, 0x22, 0x33},
		},
		"condition": {
			enc:  "cond:token/token/09",
			want: addr,
		},
		"bech32": {
			enc:  "bech32:" + b32,
			want: addr,
		},
		"empty is nil": {
			enc:  "",
			want: nil,
		},
		"too short": {
			enc:     "0x0011",
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			enc:     "foo:bar",
			wantErr: errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseAddress(tc.enc)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAddressString(t *testing.T) {
	assert.Equal(t, "(nil)", Address(nil).String())
	addr := MustParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	// EIP-55 checksum casing
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", addr.String())
	assert.True(t, Address(make([]byte, AddressLength)).IsZero())
	assert.False(t, addr.IsZero())
}
