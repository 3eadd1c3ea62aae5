/*
Package rules implements rule contracts. A rule is registered with token
rules and moves tokens of a holder that allowed it. Token holders call
rules with a session key.

	transfer_rule    moves an amount to a single recipient
	pricer_rule      pays amounts priced in a quote currency
	credit_rule      funds payments from the credit granted by a budget holder
	firewalled_rule  transfer rule restricted to an allow list
*/
package rules
