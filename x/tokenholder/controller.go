package tokenholder

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/orm"
	"github.com/openst/openst-weave/x/token"
)

// Controller gives access to the holder state. Other packages use it to
// query holders; the handlers use it to change them.
type Controller struct {
	holders orm.ModelBucket
	keys    orm.ModelBucket
	tokens  token.Controller
}

// NewController returns a controller reading gateways from the given
// tokens.
func NewController(tokens token.Controller) Controller {
	return Controller{
		holders: NewBucket(),
		keys:    NewSessionKeyBucket(),
		tokens:  tokens,
	}
}

// TokenHolder loads the holder state.
func (c Controller) TokenHolder(db weave.ReadOnlyKVStore, holder weave.Address) (*TokenHolder, error) {
	var th TokenHolder
	if err := c.holders.One(db, holder, &th); err != nil {
		return nil, errors.Wrapf(err, "token holder %s", holder)
	}
	return &th, nil
}

// SessionKey loads the session key data. A key that was never authorized
// is returned with the zero value.
func (c Controller) SessionKey(db weave.ReadOnlyKVStore, holder, key weave.Address) (*SessionKey, error) {
	var k SessionKey
	switch err := c.keys.One(db, sessionKeyKey(holder, key), &k); {
	case err == nil:
		return &k, nil
	case errors.ErrNotFound.Is(err):
		return &SessionKey{}, nil
	default:
		return nil, err
	}
}

// KeyStatus returns the computed status of the key at the current height.
func (c Controller) KeyStatus(ctx weave.Context, db weave.ReadOnlyKVStore, holder, key weave.Address) (Status, error) {
	th, err := c.TokenHolder(db, holder)
	if err != nil {
		return NotAuthorized, err
	}
	k, err := c.SessionKey(db, holder, key)
	if err != nil {
		return NotAuthorized, err
	}
	height, _ := weave.GetHeight(ctx)
	return k.ComputedStatus(th.SessionWindow, height), nil
}

// Nonce returns the nonce the next request of the key must carry.
func (c Controller) Nonce(db weave.ReadOnlyKVStore, holder, key weave.Address) (uint64, error) {
	k, err := c.SessionKey(db, holder, key)
	if err != nil {
		return 0, err
	}
	return k.Nonce, nil
}

// SessionWindow returns the current session window of the holder.
func (c Controller) SessionWindow(db weave.ReadOnlyKVStore, holder weave.Address) (uint64, error) {
	th, err := c.TokenHolder(db, holder)
	if err != nil {
		return 0, err
	}
	return th.SessionWindow, nil
}

// CoGateway returns the gateway of the holder's token. It is empty when
// the token has no gateway.
func (c Controller) CoGateway(db weave.ReadOnlyKVStore, holder weave.Address) (weave.Address, error) {
	th, err := c.TokenHolder(db, holder)
	if err != nil {
		return nil, err
	}
	tok, err := c.tokens.Token(db, th.Token)
	if err != nil {
		return nil, err
	}
	return tok.CoGateway, nil
}

// AuthorizeSession authorizes the key in the current window of the holder.
// The nonce of a key is kept.
func (c Controller) AuthorizeSession(ctx weave.Context, db weave.KVStore, holder weave.Address, cfg SessionKeyConfig) error {
	if err := validateKey(cfg.Key); err != nil {
		return errors.Field("Key", err, "invalid session key")
	}
	th, err := c.TokenHolder(db, holder)
	if err != nil {
		return err
	}
	k, err := c.SessionKey(db, holder, cfg.Key)
	if err != nil {
		return err
	}
	height, _ := weave.GetHeight(ctx)
	if k.ComputedStatus(th.SessionWindow, height) != NotAuthorized {
		return errors.Wrap(errors.ErrDuplicate, "Key exists.")
	}
	if cfg.ExpirationHeight <= height {
		return errors.Wrap(errors.ErrInput, "Expiration height is lte to the current block height.")
	}
	k.SpendingLimit = cfg.SpendingLimit
	k.ExpirationHeight = cfg.ExpirationHeight
	k.Session = th.SessionWindow
	k.Status = Authorized
	return c.keys.Put(db, sessionKeyKey(holder, cfg.Key), k)
}

// RevokeSession revokes an authorized key.
func (c Controller) RevokeSession(ctx weave.Context, db weave.KVStore, holder, key weave.Address) error {
	status, err := c.KeyStatus(ctx, db, holder, key)
	if err != nil {
		return err
	}
	if status != Authorized {
		return errors.Wrap(errors.ErrState, "Key is not authorized.")
	}
	k, err := c.SessionKey(db, holder, key)
	if err != nil {
		return err
	}
	k.Status = Revoked
	k.Session = 0
	return c.keys.Put(db, sessionKeyKey(holder, key), k)
}

// Logout opens a new session window. It returns the new window.
func (c Controller) Logout(db weave.KVStore, holder weave.Address) (uint64, error) {
	th, err := c.TokenHolder(db, holder)
	if err != nil {
		return 0, err
	}
	th.SessionWindow++
	return th.SessionWindow, c.holders.Put(db, holder, th)
}
