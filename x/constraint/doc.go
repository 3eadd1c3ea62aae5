/*
Package constraint implements global constraint contracts. A constraint
answers whether a batch of transfers is acceptable. Token rules ask every
registered constraint before moving tokens.

Two types are supported: "cap" limits every single amount and
"recipients" accepts only transfers to an allow list.
*/
package constraint
