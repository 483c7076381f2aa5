package fault

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const thisPackage = "faultcapture/src/fault"

func TestNewRecordsCallerLocation(t *testing.T) {
	_, file, line, _ := runtime.Caller(0)
	f := New(KindWarning, "disk almost full", WithExtra(map[string]any{"free": 3}))

	assert.Equal(t, "disk almost full", f.Error())
	assert.Equal(t, KindWarning, f.Code())
	assert.Equal(t, file, f.File())
	assert.Equal(t, line+1, f.Line())
	assert.Equal(t, map[string]any{"free": 3}, f.Extra())
	assert.Equal(t, "*fault.Fault", f.Class())

	require.NotEmpty(t, f.Stack())
	assert.True(t, strings.HasSuffix(f.Stack()[0].Function, "TestNewRecordsCallerLocation"))
	assert.Equal(t, thisPackage, f.Stack()[0].Package)
}

func TestWithLocationOverridesCapturedLocation(t *testing.T) {
	f := New(KindNotice, "undefined index", WithLocation("/srv/app/index.go", 12))

	assert.Equal(t, "/srv/app/index.go", f.File())
	assert.Equal(t, 12, f.Line())
}

func TestWrapKeepsExistingFault(t *testing.T) {
	original := New(KindUserError, "bad input")
	wrapped := fmt.Errorf("handler: %w", original)

	assert.Same(t, original, Wrap(original))
	assert.Nil(t, Wrap(nil))

	f := Wrap(wrapped)
	assert.Equal(t, "handler: bad input", f.Message())
	assert.Equal(t, KindUserError, f.Code())
	assert.Equal(t, original.File(), f.File())
	assert.Equal(t, original.Line(), f.Line())
	assert.Equal(t, original.Stack(), f.Stack())
	assert.Equal(t, "*fault.Fault", f.Class())
	assert.ErrorIs(t, f, original)
}

type nilErr struct{ msg string }

func (e *nilErr) Error() string { return e.msg }

func TestWrapNilPointerError(t *testing.T) {
	var err error = (*nilErr)(nil)

	f := Wrap(err)
	require.NotNil(t, f)
	assert.Equal(t, "<nil>", f.Message())
	assert.Equal(t, "*fault.nilErr", f.Class())
	assert.NotEmpty(t, f.File())
}

func TestWrapForeignError(t *testing.T) {
	cause := errors.New("connection reset")
	f := Wrap(cause)

	assert.Equal(t, "connection reset", f.Message())
	assert.Equal(t, Kind(0), f.Code())
	assert.Equal(t, "*errors.errorString", f.Class())
	assert.ErrorIs(t, f, cause)
}

var panicLine int

func panicky() {
	_, _, line, _ := runtime.Caller(0)
	panicLine = line + 2
	panic("boom")
}

func TestFromPanicReachesPanicSite(t *testing.T) {
	var f *Fault
	func() {
		defer func() { f = FromPanic(recover()) }()
		panicky()
	}()

	require.NotNil(t, f)
	assert.Equal(t, "boom", f.Message())
	assert.Equal(t, Kind(0), f.Code())

	require.NotEmpty(t, f.Stack())
	assert.Equal(t, panicLine, f.Stack()[0].Line)
	for _, fr := range f.Stack() {
		assert.False(t, strings.HasPrefix(fr.Function, "runtime."), fr.Function)
	}
}

func TestFromPanicWithError(t *testing.T) {
	cause := errors.New("nil map")
	f := FromPanic(cause)
	assert.Equal(t, "nil map", f.Message())
	assert.ErrorIs(t, f, cause)

	existing := New(KindError, "fatal")
	assert.Same(t, existing, FromPanic(existing))
}

func TestFromPanicWithNilPointers(t *testing.T) {
	f := FromPanic((*nilErr)(nil))
	require.NotNil(t, f)
	assert.Equal(t, "<nil>", f.Message())
	assert.Equal(t, "*fault.nilErr", f.Class())

	f = FromPanic((*Fault)(nil))
	require.NotNil(t, f)
	assert.Equal(t, "<nil>", f.Message())
	assert.Equal(t, Kind(0), f.Code())
}

func TestAttribute(t *testing.T) {
	internal := func(fr Frame) bool { return fr.Package == "lib/logs" || fr.Package == "lib/capture" }

	t.Run("last internal frame wins", func(t *testing.T) {
		f := New(KindWarning, "x", WithStack(Stack{
			{Function: "lib/logs.(*Dispatcher).log", Package: "lib/logs", File: "lib/logs/dispatcher.go", Line: 80},
			{Function: "lib/logs.(*Dispatcher).Warning", Package: "lib/logs", File: "/app/main.go", Line: 7},
			{Function: "main.run", Package: "main", File: "/app/main.go", Line: 20},
		}))

		assert.Equal(t, 2, f.Attribute(internal))
		assert.Equal(t, "/app/main.go", f.File())
		assert.Equal(t, 7, f.Line())
	})

	t.Run("frame without location keeps previous", func(t *testing.T) {
		f := New(KindWarning, "x", WithStack(Stack{
			{Function: "lib/capture.x", Package: "lib/capture", File: "a.go", Line: 3},
			{Function: "lib/capture.y", Package: "lib/capture"},
		}))

		assert.Equal(t, 2, f.Attribute(internal))
		assert.Equal(t, "a.go", f.File())
		assert.Equal(t, 3, f.Line())
	})

	t.Run("empty stack", func(t *testing.T) {
		_, file, line, _ := runtime.Caller(0)
		f := New(KindWarning, "x", WithStack(nil))

		assert.Equal(t, 0, f.Attribute(internal))
		assert.Equal(t, file, f.File())
		assert.Equal(t, line+1, f.Line())
	})

	t.Run("raised in caller code", func(t *testing.T) {
		_, file, line, _ := runtime.Caller(0)
		f := New(KindWarning, "x", WithStack(Stack{
			{Function: "main.run", Package: "main", File: "/app/main.go", Line: 20},
		}))

		assert.Equal(t, 0, f.Attribute(internal))
		assert.Equal(t, file, f.File())
		assert.Equal(t, line+1, f.Line())
	})

	t.Run("pinned location survives", func(t *testing.T) {
		f := New(KindWarning, "x", WithLocation("/app/report.go", 11), WithStack(Stack{
			{Function: "lib/capture.(*Service).HandleError", Package: "lib/capture", File: "/app/main.go", Line: 30},
			{Function: "main.run", Package: "main"},
		}))

		assert.Equal(t, 1, f.Attribute(internal))
		assert.Equal(t, "/app/report.go", f.File())
		assert.Equal(t, 11, f.Line())
	})

	t.Run("only first pass rewrites", func(t *testing.T) {
		f := New(KindWarning, "x", WithStack(Stack{
			{Function: "lib/logs.a", Package: "lib/logs", File: "a.go", Line: 3},
		}))

		assert.Equal(t, 1, f.Attribute(internal))
		assert.Equal(t, 1, f.Attribute(func(Frame) bool { return false }))
		assert.Equal(t, "a.go", f.File())
	})
}

func TestTracePrefersCustomTrace(t *testing.T) {
	f := New(KindError, "x", WithStack(Stack{
		{Function: "main.run", File: "/app/main.go", Line: 20},
		{Function: "main.main"},
	}))
	assert.Equal(t, "#0 /app/main.go(20): main.run()\n#1 [internal function]: main.main()", f.Trace())

	custom := New(KindError, "x", WithTrace("#0 custom"))
	assert.Equal(t, "#0 custom", custom.Trace())
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(New(KindRecoverableError, "x")))
	assert.True(t, IsFatal(fmt.Errorf("op: %w", New(KindRecoverableError, "x"))))
	assert.False(t, IsFatal(New(KindUserError, "x")))
	assert.False(t, IsFatal(errors.New("plain")))
}
