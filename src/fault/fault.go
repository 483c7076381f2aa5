// Package fault defines the record built for every captured fault: an error
// value carrying the fault kind, its source location, a call-stack snapshot
// and an optional extra payload.
package fault

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Fault is an uncaught panic, a reported runtime error or an end-of-process
// condition. It is immutable after construction except for a single origin
// attribution pass, see Attribute.
type Fault struct {
	message string
	code    Kind
	file    string
	line    int
	stack   Stack
	extra   any
	trace   string
	cause   error
	class   string
	pinned  bool

	attributeOnce sync.Once
	origin        int
}

// Option customizes a Fault at construction time.
type Option func(*Fault)

// WithLocation sets the source file and line of the fault. A non-empty file
// pins the location: Attribute still computes the origin but leaves it alone.
func WithLocation(file string, line int) Option {
	return func(f *Fault) {
		f.file = file
		f.line = line
		f.pinned = file != ""
	}
}

// WithExtra attaches a free-form payload.
func WithExtra(extra any) Option {
	return func(f *Fault) { f.extra = extra }
}

// WithTrace replaces the generated textual trace.
func WithTrace(trace string) Option {
	return func(f *Fault) { f.trace = trace }
}

// WithStack replaces the captured stack.
func WithStack(stack Stack) Option {
	return func(f *Fault) { f.stack = stack }
}

// New builds a fault of the given kind. The stack and location are those of
// the caller of New.
func New(code Kind, message string, opts ...Option) *Fault {
	f := &Fault{message: message, code: code}
	f.locate(Callers(0))
	return f.apply(opts)
}

// Wrap converts err into a fault. A *Fault at the top of the chain is
// returned as is. A *Fault wrapped deeper keeps its code, location, stack
// and extra under the wrapper's message. Any other error becomes a generic
// exception (code 0) whose stack is the caller's.
func Wrap(err error, opts ...Option) *Fault {
	if err == nil {
		return nil
	}
	f, adopted := adopt(err)
	if adopted {
		return f
	}
	f.locate(Callers(0))
	return f.apply(opts)
}

// FromPanic converts a recovered panic value into a fault. Error values keep
// their chain; anything else is formatted with %v.
func FromPanic(r any, opts ...Option) *Fault {
	var f *Fault
	switch v := r.(type) {
	case error:
		var adopted bool
		if f, adopted = adopt(v); adopted {
			return f
		}
	default:
		f = &Fault{message: fmt.Sprint(v)}
	}
	f.locate(Callers(0))
	return f.apply(opts)
}

// adopt reports true when err already carries a fault, returned in place
// of err. Otherwise the result still needs a stack. Nil pointer errors are
// never dereferenced.
func adopt(err error) (*Fault, bool) {
	if isNilPointer(err) {
		return &Fault{message: fmt.Sprint(err), cause: err}, false
	}
	var inner *Fault
	if !errors.As(err, &inner) || inner == nil {
		return &Fault{message: err.Error(), cause: err}, false
	}
	if err == error(inner) {
		return inner, true
	}
	return &Fault{
		message: err.Error(),
		code:    inner.code,
		file:    inner.file,
		line:    inner.line,
		stack:   inner.stack,
		extra:   inner.extra,
		trace:   inner.trace,
		cause:   err,
		class:   inner.Class(),
		pinned:  inner.pinned,
	}, true
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func (f *Fault) locate(stack Stack) {
	if len(stack) == 0 {
		return
	}
	f.file, f.line = stack[0].File, stack[0].Line
	f.stack = stack[1:]
}

func (f *Fault) apply(opts []Option) *Fault {
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Error implements error.
func (f *Fault) Error() string { return f.message }

// Unwrap returns the wrapped cause, if any.
func (f *Fault) Unwrap() error { return f.cause }

func (f *Fault) Message() string { return f.message }
func (f *Fault) Code() Kind      { return f.code }
func (f *Fault) File() string    { return f.file }
func (f *Fault) Line() int       { return f.line }
func (f *Fault) Stack() Stack    { return f.stack }
func (f *Fault) Extra() any      { return f.extra }

// Class names the Go type the fault stands for: the wrapped cause's type,
// or *fault.Fault for faults built directly or re-wrapped.
func (f *Fault) Class() string {
	if f.class != "" {
		return f.class
	}
	if f.cause != nil {
		return fmt.Sprintf("%T", f.cause)
	}
	return fmt.Sprintf("%T", f)
}

// Trace returns the custom trace when one was set, else the rendered stack.
func (f *Fault) Trace() string {
	if f.trace != "" {
		return f.trace
	}
	return f.stack.String()
}

// Attribute walks the stack innermost first over the frames for which
// internal reports true. Each such frame with a call site overwrites the
// fault's file and line, so the last internal frame wins. It returns the
// index of the first frame that is not internal, which is 0 when the stack
// is empty or starts outside the library.
//
// Only the first call rewrites the location; later calls return the same
// index. A pinned location is never rewritten.
func (f *Fault) Attribute(internal func(Frame) bool) int {
	f.attributeOnce.Do(func() {
		for i, fr := range f.stack {
			if !internal(fr) {
				break
			}
			f.origin = i + 1
			if f.pinned {
				continue
			}
			if fr.File != "" {
				f.file = fr.File
			}
			if fr.Line > 0 {
				f.line = fr.Line
			}
		}
	})
	return f.origin
}

// IsFatal reports whether err carries a fault whose kind is tagged Fatal.
func IsFatal(err error) bool {
	var f *Fault
	return errors.As(err, &f) && f.code.Tag() == Fatal
}
