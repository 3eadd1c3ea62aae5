/*
Package multisig implements an M-of-N multi signature wallet contract.

A wallet is governed by a set of member addresses and the number of
confirmations a transaction requires. Any member can submit a transaction,
which is confirmed by the submitter right away. A transaction is executed as
soon as it collects the required number of confirmations. Execution calls
the destination contract with the wallet as the sender.

The member set and the requirement are changed only by the wallet itself,
through transactions with the wallet as the destination. A recovery module
configured by the wallet can additionally replace a member.

Confirmations are counted over all recorded confirmations of a transaction.
Records of members that were later removed or replaced are kept and still
counted.
*/
package multisig
