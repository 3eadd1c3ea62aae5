package tokenholder

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
)

// Kind is the contract kind of token holders.
const Kind = "tokenholder"

// TokenHolder is the state of a holder contract.
type TokenHolder struct {
	Token         weave.Address
	TokenRules    weave.Address
	Owner         weave.Address
	SessionWindow uint64
}

var _ orm.Model = (*TokenHolder)(nil)

func (h *TokenHolder) Marshal() ([]byte, error)   { return weave.MarshalBinary(h) }
func (h *TokenHolder) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, h) }

func (h *TokenHolder) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Token", h.Token.Validate())
	errs = errors.AppendField(errs, "TokenRules", h.TokenRules.Validate())
	errs = errors.AppendField(errs, "Owner", h.Owner.Validate())
	if h.SessionWindow == 0 {
		errs = errors.AppendField(errs, "SessionWindow", errors.ErrState)
	}
	return errs
}

// Status is the authorization status of a session key.
type Status int32

const (
	NotAuthorized Status = iota
	Authorized
	Revoked
	// LoggedOutOrExpired is never stored. It is reported for authorized
	// keys of a previous session window and for expired keys.
	LoggedOutOrExpired
)

func (s Status) String() string {
	switch s {
	case NotAuthorized:
		return "not_authorized"
	case Authorized:
		return "authorized"
	case Revoked:
		return "revoked"
	case LoggedOutOrExpired:
		return "logged_out_or_expired"
	}
	return "unknown"
}

// SessionKey is the state of a session key of a holder.
type SessionKey struct {
	SpendingLimit    uint64
	ExpirationHeight int64
	Nonce            uint64
	// Session is the window the key was authorized in, zero once revoked.
	Session uint64
	Status  Status
}

var _ orm.Model = (*SessionKey)(nil)

func (k *SessionKey) Marshal() ([]byte, error)   { return weave.MarshalBinary(k) }
func (k *SessionKey) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, k) }

func (k *SessionKey) Validate() error {
	switch k.Status {
	case NotAuthorized, Authorized, Revoked:
		return nil
	}
	return errors.Field("Status", errors.ErrState, "cannot be stored")
}

// IsExpired returns true if the key cannot be used at the given height.
func (k *SessionKey) IsExpired(height int64) bool {
	return k.ExpirationHeight <= height
}

// ComputedStatus returns the status of the key at the given height within
// the given session window.
func (k *SessionKey) ComputedStatus(window uint64, height int64) Status {
	if k.Status == Authorized && (k.Session != window || k.IsExpired(height)) {
		return LoggedOutOrExpired
	}
	return k.Status
}

// NewBucket returns a bucket for holder contracts.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("tokenholder", &TokenHolder{})
}

// NewSessionKeyBucket returns a bucket of session keys keyed by holder and
// key address.
func NewSessionKeyBucket() orm.ModelBucket {
	return orm.NewModelBucket("session_key", &SessionKey{})
}

func sessionKeyKey(holder, key weave.Address) []byte {
	return orm.CompositeKey(holder, key)
}
