/*
Package recovery implements delayed recovery of a multi signature wallet
member.

A recovery module is bound to one wallet. Its recovery owner signs recovery
requests off chain, typed data hashed the EIP-712 way with the module address
as the verifying contract. The recovery controller relays them. A recovery
replaces one member of the wallet by another and can be executed only after
the configured number of blocks has passed since it was initiated. Only one
recovery can be active at a time.

The wallet must name the module as its recovery module before a recovery
can be executed.
*/
package recovery
