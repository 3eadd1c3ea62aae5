package tokenholder

import (
	"github.com/openst/openst-weave/errors"
)

var (
	ErrInvalidNonce = errors.Register(140, "Incorrect nonce is specified.")
	ErrSession      = errors.Register(141, "Key's session is not equal to contract's session window.")
)
