/*
Package tokenrules implements the rule registry of a token.

Only registered rule contracts can move the tokens of a holder, and only
after the holder allowed it with AllowTransfersMsg. The consent is consumed
by the first successful transfer batch. Every batch must also be accepted
by all global constraints registered by the organization.
*/
package tokenrules
