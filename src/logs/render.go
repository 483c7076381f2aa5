package logs

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// DefaultExportDepth is how many levels of nested values are rendered.
const DefaultExportDepth = 3

// Export renders v as a canonical string. Strings are returned verbatim,
// errors by their message and scalars by value. Composite values are dumped
// with their structure up to depth levels; deeper levels and repeated
// pointers are truncated.
//
// Error and String methods go through fmt, so a nil pointer receiver renders
// as "<nil>" instead of panicking.
func Export(v any, depth int) string {
	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return t
	case []byte:
		return string(t)
	case error, fmt.Stringer:
		return fmt.Sprint(t)
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		return fmt.Sprint(v)
	}

	if depth < 1 {
		depth = DefaultExportDepth
	}
	cs := spew.ConfigState{
		Indent:                  "  ",
		MaxDepth:                depth,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		DisableMethods:          true,
		SortKeys:                true,
	}
	return strings.TrimSpace(cs.Sdump(v))
}
