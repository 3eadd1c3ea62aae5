package organization

import (
	"encoding/json"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/x/contract"
)

func contractAddress(n int64) weave.Address {
	return contract.Address(Kind, n)
}

func jsonUnmarshal(raw string, dest interface{}) error {
	return json.Unmarshal([]byte(raw), dest)
}
