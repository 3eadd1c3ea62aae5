/*
Package contract keeps the registry of deployed contract instances and
dispatches messages from one contract to another.

Every instance created by an extension is registered under its address
together with its kind. A call is a serialized weave.Msg that names the
target instance. The Dispatcher routes it to the handler of that message
with the calling contract authenticated as the sender, in a cache wrapped
store that is written only when the call succeeds.
*/
package contract
