/*
Package organization implements the organization contract that other
contracts consult to authorize administrative operations.

An organization has an owner, an optional admin and a set of workers. Each
worker is valid until its expiration height. Ownership is transferred in
two steps: the owner proposes a new owner that must then accept.
*/
package organization
