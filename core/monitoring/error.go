package monitoring

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
)

// ReferenceCodeKey is the extra key holding an error's reference code.
const ReferenceCodeKey = "referenceCode"

// defaultCode is the code tag used for errors that expose no code.
const defaultCode = "0"

// Coder is implemented by errors carrying a code or category.
type Coder interface {
	Code() string
}

// ReferenceCoder is implemented by errors carrying a correlation code that is
// also shown to the end user.
type ReferenceCoder interface {
	ReferenceCode() string
}

// ReportableError is an error that exposes a code. The reference code and the
// cause chain are optional capabilities discovered with errors.As.
type ReportableError interface {
	error
	Coder
}

// Error is the module's coded error. It carries a stack trace recorded where
// it was created and a reference code generated at that moment.
type Error struct {
	code    int
	refCode string
	cause   error
}

// NewError returns an Error with the given code and message.
func NewError(code int, msg string) *Error {
	return &Error{code: code, refCode: newReferenceCode(time.Now()), cause: pkgerrors.New(msg)}
}

// Wrap annotates err with a code and message. It returns nil when err is nil.
func Wrap(err error, code int, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{code: code, refCode: newReferenceCode(time.Now()), cause: pkgerrors.Wrap(err, msg)}
}

// WithReferenceCode returns a copy of e using ref as its reference code.
func (e *Error) WithReferenceCode(ref string) *Error {
	var cp Error
	if e != nil {
		cp = *e
	}
	cp.refCode = ref
	return &cp
}

// Error returns the cause's message. An Error without a cause reports its
// code instead.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause == nil {
		return "error " + e.Code()
	}
	return e.cause.Error()
}

// Code returns the numeric code in decimal form.
func (e *Error) Code() string {
	if e == nil {
		return defaultCode
	}
	return strconv.Itoa(e.code)
}

// ReferenceCode returns the correlation code.
func (e *Error) ReferenceCode() string {
	if e == nil {
		return ""
	}
	return e.refCode
}

// Unwrap exposes the wrapped cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Cause supports pkg/errors style cause chains.
func (e *Error) Cause() error { return e.Unwrap() }

// StackTrace returns the frames recorded when the error was created. The
// Sentry SDK picks this method up to build the event's stack trace.
func (e *Error) StackTrace() pkgerrors.StackTrace {
	cause := e.Unwrap()
	if cause == nil {
		return nil
	}
	var st interface{ StackTrace() pkgerrors.StackTrace }
	if errors.As(cause, &st) {
		return st.StackTrace()
	}
	return nil
}

// isNil reports whether err is nil or a nil pointer stored in the error
// interface.
func isNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// CodeOf returns the code of the first Coder in err's chain, or "0".
func CodeOf(err error) string {
	var c Coder
	if errors.As(err, &c) {
		if code := c.Code(); code != "" {
			return code
		}
	}
	return defaultCode
}

// ReferenceCodeOf returns the reference code of the first ReferenceCoder in
// err's chain.
func ReferenceCodeOf(err error) (string, bool) {
	var rc ReferenceCoder
	if errors.As(err, &rc) {
		if ref := rc.ReferenceCode(); ref != "" {
			return ref, true
		}
	}
	return "", false
}

// newReferenceCode follows the timestamp plus short random suffix layout
// users are asked to quote in support requests.
func newReferenceCode(t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return t.UTC().Format("20060102150405") + suffix
}
