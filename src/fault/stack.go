package fault

import (
	"fmt"
	"runtime"
	"strings"
)

// maxDepth bounds how many raw frames a capture resolves.
const maxDepth = 64

// Frame is one entry of a captured call stack. File and Line hold the call
// site of Function, i.e. where the next outer frame called into it; they
// are empty for the outermost frame.
type Frame struct {
	Function string // fully-qualified function name
	Package  string // import path taken from Function
	Source   string // file declaring Function, which survives inlining
	File     string
	Line     int
}

// HasLocation reports whether the frame carries a call site.
func (f Frame) HasLocation() bool {
	return f.File != "" && f.Line > 0
}

// Stack is an ordered list of frames, innermost first.
type Stack []Frame

// String renders one line per frame:
//
//	#0 /app/handler.go(42): example.com/app.(*Handler).Serve()
func (s Stack) String() string {
	var sb strings.Builder
	for i, fr := range s {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if fr.HasLocation() {
			fmt.Fprintf(&sb, "#%d %s(%d): %s()", i, fr.File, fr.Line, fr.Function)
		} else {
			fmt.Fprintf(&sb, "#%d [internal function]: %s()", i, fr.Function)
		}
	}
	return sb.String()
}

// Callers captures the stack of the calling goroutine. skip=0 makes the
// first frame the caller of Callers.
func Callers(skip int) Stack {
	pc := make([]uintptr, maxDepth)
	// +2 skips runtime.Callers and Callers itself.
	n := runtime.Callers(skip+2, pc)
	if n == 0 {
		return nil
	}
	return resolve(pc[:n])
}

// resolve turns program counters into frames whose location is the call
// site. Runtime and defer-wrapper frames are dropped and the call site is
// taken from the next frame that is kept.
func resolve(pc []uintptr) Stack {
	raw := make([]runtime.Frame, 0, len(pc))
	frames := runtime.CallersFrames(pc)
	for {
		fr, more := frames.Next()
		if !elided(fr.Function) {
			raw = append(raw, fr)
		}
		if !more {
			break
		}
	}

	out := make(Stack, 0, len(raw))
	for i, fr := range raw {
		f := Frame{Function: fr.Function, Package: PackageOf(fr.Function), Source: fr.File}
		if i+1 < len(raw) {
			f.File = raw[i+1].File
			f.Line = raw[i+1].Line
		}
		out = append(out, f)
	}
	return out
}

func elided(function string) bool {
	return function == "" ||
		strings.HasPrefix(function, "runtime.") ||
		strings.Contains(function, ".deferwrap")
}

// PackageOf extracts the import path from a fully-qualified function name
// such as "example.com/app/pkg.(*T).Method.func1".
func PackageOf(function string) string {
	slash := strings.LastIndex(function, "/")
	if slash < 0 {
		slash = 0
	}
	dot := strings.Index(function[slash:], ".")
	if dot < 0 {
		return function
	}
	return function[:slash+dot]
}
