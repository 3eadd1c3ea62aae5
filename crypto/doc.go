/*
Package crypto verifies the signatures of relayed calls.

Session keys and recovery owners sign 32 byte message hashes with secp256k1.
A signature is the (v, r, s) triple, with v being 27 or 28. Only signatures in
the lower half of the curve order are accepted, so a signature cannot be
malleated into a second valid one.

The hash of a relayed token holder call has a fixed layout, see MessageHash.
*/
package crypto
