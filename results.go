package weave

import (
	"fmt"

	"github.com/openst/openst-weave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult captures any non-error result of a delivered transaction
// to make sure people use error for error cases
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// Tags are the events emitted while processing the transaction.
	Tags []common.KVPair
}

// AddTag appends an event to the result.
func (d *DeliverResult) AddTag(key string, value []byte) {
	d.Tags = append(d.Tags, common.KVPair{Key: []byte(key), Value: value})
}

// MergeTags appends all events of the other result, keeping their order.
func (d *DeliverResult) MergeTags(other *DeliverResult) {
	if other == nil {
		return
	}
	d.Tags = append(d.Tags, other.Tags...)
}

// Tag returns the value of the last event with the given key.
func (d *DeliverResult) Tag(key string) ([]byte, bool) {
	if d == nil {
		return nil, false
	}
	for i := len(d.Tags) - 1; i >= 0; i-- {
		if string(d.Tags[i].Key) == key {
			return d.Tags[i].Value, true
		}
	}
	return nil, false
}

// ToABCI converts our internal type into an abci response
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data: d.Data,
		Log:  d.Log,
		Tags: d.Tags,
	}
}

// CheckResult captures any non-error result of a checked transaction
type CheckResult struct {
	// Data is a machine-parseable return value
	Data []byte
	// Log is human-readable informational string
	Log string
}

// ToABCI converts our internal type into an abci response
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data: c.Data,
		Log:  c.Log,
	}
}

// DeliverOrError returns an abci response for DeliverTx,
// converting the error message if present, or using the successful
// DeliverResult
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		code, log := errors.ABCIInfo(err, debug)
		return abci.ResponseDeliverTx{
			Code: code,
			Log:  fmt.Sprintf("cannot deliver tx: %s", log),
		}
	}
	return result.ToABCI()
}

// CheckOrError returns an abci response for CheckTx,
// converting the error message if present, or using the successful
// CheckResult
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		code, log := errors.ABCIInfo(err, debug)
		return abci.ResponseCheckTx{
			Code: code,
			Log:  fmt.Sprintf("cannot check tx: %s", log),
		}
	}
	return result.ToABCI()
}
