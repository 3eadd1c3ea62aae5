/*
Package token implements a fungible token contract with balances and
allowances.

Every token instance is a contract created with an initial supply that is
credited to its creator. Holders move tokens directly with TransferMsg or
let a spender move them with ApproveMsg and TransferFromMsg. The Controller
exposes the same operations to other contracts, which use it to move
tokens of holders that approved them.

A token can be linked to a CoGateway contract, where holders redeem their
tokens. Only the owner or admin of the token organization can set it.
*/
package token
