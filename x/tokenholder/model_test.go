package tokenholder

import (
	"testing"

	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/weavetest/assert"
)

func TestComputedStatus(t *testing.T) {
	cases := map[string]struct {
		key    SessionKey
		window uint64
		height int64
		want   Status
	}{
		"never authorized": {key: SessionKey{}, window: 1, height: 5, want: NotAuthorized},
		"authorized":       {key: SessionKey{Status: Authorized, Session: 1, ExpirationHeight: 10}, window: 1, height: 9, want: Authorized},
		"expired":          {key: SessionKey{Status: Authorized, Session: 1, ExpirationHeight: 10}, window: 1, height: 10, want: LoggedOutOrExpired},
		"logged out":       {key: SessionKey{Status: Authorized, Session: 1, ExpirationHeight: 10}, window: 2, height: 5, want: LoggedOutOrExpired},
		"revoked":          {key: SessionKey{Status: Revoked, ExpirationHeight: 10}, window: 1, height: 5, want: Revoked},
		"revoked expired":  {key: SessionKey{Status: Revoked, ExpirationHeight: 10}, window: 1, height: 50, want: Revoked},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.key.ComputedStatus(tc.window, tc.height))
		})
	}
}

func TestSessionKeyValidate(t *testing.T) {
	assert.Nil(t, (&SessionKey{Status: Revoked}).Validate())
	assert.FieldError(t, (&SessionKey{Status: LoggedOutOrExpired}).Validate(), "Status", errors.ErrState)
}
