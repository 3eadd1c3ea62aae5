/*
Package errors implements custom error interfaces for weave.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary.

x/tokenholder is a good package to take a look at in terms of usage with
predefined root errors wrapped with a description. x/sigs and x/multisig
define some custom errors.

If you want to register a custom error - use Register(code, description).
For reusing errors - use ErrXyz.New, ErrXyz.Newf, Wrap or Field.
Code stands for ABCI error code, which allows to distinguish types of errors
on the client side and act accordingly.

Errors created with New or Wrap carry a stack trace of the creation point.

	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
