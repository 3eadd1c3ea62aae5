package tokenrules

import (
	"github.com/openst/openst-weave/errors"
)

// x/tokenrules reserves 150 ~ 159.
var (
	ErrConstraints         = errors.Register(150, "Constraints not fulfilled.")
	ErrTransfersNotAllowed = errors.Register(151, "Transfers from the address are not allowed.")
)
