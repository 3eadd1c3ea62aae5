/*
Package tokenholder implements the token holder wallet.

The owner of a holder, an external account or a multi signature wallet,
authorizes session keys with a spending limit and an expiration height.
Session keys sign execution requests off chain. Anybody can relay a signed
request; the holder recovers the signer from the signature, checks the
session key and its nonce and calls the requested rule or gateway as the
holder.

A key is usable only within the session window it was authorized in. A
logout opens a new window and invalidates all keys at once.

The spending limit is approved to the called contract for the duration of
the call only. Enforcing it is up to the called rule.
*/
package tokenholder
