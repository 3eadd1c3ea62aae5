package multisig

import (
	"github.com/openst/openst-weave/errors"
)

var (
	ErrNotConfirmed = errors.Register(130, "Transaction is not confirmed.")
	ErrExecuted     = errors.Register(131, "Transaction is already executed.")
	ErrNotWallet    = errors.Register(132, "Only wallet is allowed to call.")
)
