package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no errors are provided or all errors are nil, nil is returned. A single
// non nil error is returned as it is.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
		} else {
			res = append(res, e)
		}
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

// multiErr is a list of errors. It never contains nil values and it is
// flattened on creation.
type multiErr []error

func (m multiErr) Error() string {
	points := make([]string, len(m))
	for i, err := range m {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(m), strings.Join(points, "\n\t"))
}

// ABCICode returns the code of the first error.
func (m multiErr) ABCICode() uint32 {
	return abciCode(m[0])
}

// Cause returns the first error, consistent with ABCICode.
func (m multiErr) Cause() error {
	return m[0]
}

// Unpack returns all errors that were clubbed together.
func (m multiErr) Unpack() []error {
	return m
}

type unpacker interface {
	Unpack() []error
}

func isNilErr(err error) bool {
	return errIsNil(err)
}
