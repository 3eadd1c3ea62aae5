// Package assert provides the few assertions used by the extension tests
// that the testify package does not cover: weave error kinds and event tags.
package assert

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
)

// Tester is the minimal subset of testing.TB needed to run most assert commands
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test if given value is not nil.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// Use %+v so that if we are printing an error that supports
		// stack traces then a full stack trace is shown.
		t.Fatalf("want a nil value, got %+v", value)
	}
}

func isNil(value interface{}) (isnil bool) {
	if value == nil {
		return true
	}
	defer func() {
		if recover() != nil {
			isnil = false
		}
	}()
	return reflect.ValueOf(value).IsNil()
}

// Equal fails the test if two values are not equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal \nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// IsErr checks that the error is of the wanted kind. A nil kind expects no
// error. The full error, with its stack trace, is printed on failure.
func IsErr(t Tester, want *errors.Error, got error) {
	t.Helper()
	if want == nil {
		if got != nil {
			t.Fatalf("want no error, got %+v", got)
		}
		return
	}
	if !want.Is(got) {
		t.Fatalf("want %q error, got %+v", want, got)
	}
}

// FieldError ensures that given error contains a field error of the wanted
// kind for the field. To test that no error was found for a given field
// name, use nil as the match value.
func FieldError(t testing.TB, err error, fieldName string, want *errors.Error) {
	t.Helper()

	errs := errors.FieldErrors(err, fieldName)
	if want == nil {
		if len(errs) != 0 {
			t.Fatalf("expected no %s error, got %q", fieldName, errs)
		}
		return
	}
	for _, e := range errs {
		if want.Is(e) {
			return
		}
	}
	t.Fatalf("no %q error found for field %s in %+v", want, fieldName, err)
}

// Tag fails the test if the result does not carry an event with the given
// key and value.
func Tag(t Tester, res *weave.DeliverResult, key string, want []byte) {
	t.Helper()
	got, ok := res.Tag(key)
	if !ok {
		t.Fatalf("no %q tag found", key)
	}
	if !bytes.Equal(want, got) {
		t.Fatalf("tag %q: want %q, got %q", key, want, got)
	}
}

// NoTag fails the test if the result carries an event with the given key.
func NoTag(t Tester, res *weave.DeliverResult, key string) {
	t.Helper()
	if _, ok := res.Tag(key); ok {
		t.Fatalf("unexpected %q tag", key)
	}
}

// Panics will run given function and recover any panic. It will fail the test
// if given function call did not panic.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}
