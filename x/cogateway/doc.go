/*
Package cogateway implements the auxiliary chain side of a gateway, limited
to redemption requests. Redeeming pulls tokens from the redeemer into the
gateway and declares the intent under a message hash. The redeemer can
later declare a revert of a pending redemption.
*/
package cogateway
