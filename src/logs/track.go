package logs

import (
	"path"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"faultcapture/src/fault"
)

// trackedPackages holds the import paths whose frames are skipped when
// attributing a fault to its caller. trackedDirs holds their source
// directories, which identify library closures the compiler inlined into
// caller packages and renamed after them.
var (
	trackedPackages sync.Map
	trackedDirs     sync.Map
)

func init() {
	TrackPackage(reflect.TypeOf((*Dispatcher)(nil)).Elem().PkgPath())
}

// TrackPackage marks pkg as part of the capture library. Frames declared in
// it are never reported as a fault's origin. Called from pkg itself, it also
// tracks the directory of the calling file.
func TrackPackage(pkg string) {
	trackedPackages.Store(pkg, struct{}{})

	pc := make([]uintptr, 1)
	if runtime.Callers(2, pc) == 0 {
		return
	}
	caller, _ := runtime.CallersFrames(pc).Next()
	if fault.PackageOf(caller.Function) == pkg && caller.File != "" {
		trackedDirs.Store(path.Dir(caller.File), struct{}{})
	}
}

// IsTracked reports whether pkg was registered with TrackPackage.
func IsTracked(pkg string) bool {
	_, ok := trackedPackages.Load(pkg)
	return ok
}

// IsTrackedFrame reports whether fr belongs to the capture library, either
// by its package or by the file declaring it. Test files never count.
func IsTrackedFrame(fr fault.Frame) bool {
	if IsTracked(fr.Package) {
		return true
	}
	if fr.Source == "" || strings.HasSuffix(fr.Source, "_test.go") {
		return false
	}
	_, ok := trackedDirs.Load(path.Dir(fr.Source))
	return ok
}
