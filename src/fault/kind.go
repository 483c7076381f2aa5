package fault

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the numeric class of a fault. Kinds are single bits so that a
// reporting mask can select any subset of them.
type Kind int

const (
	KindError            Kind = 1 << iota // fatal run-time error
	KindWarning                           // run-time warning
	KindParse                             // input could not be parsed
	KindNotice                            // something that may indicate an error
	KindCoreError                         // fatal error during startup
	KindCoreWarning                       // warning during startup
	KindCompileError                      // fatal error while loading code or templates
	KindCompileWarning                    // warning while loading code or templates
	KindUserError                         // error raised by application code
	KindUserWarning                       // warning raised by application code
	KindUserNotice                        // notice raised by application code
	KindStrict                            // suggestion about forward compatibility
	KindRecoverableError                  // caught, but continuing is unsafe
	KindDeprecated                        // use of a deprecated feature
	KindUserDeprecated                    // deprecation raised by application code
)

// KindAll selects every kind.
const KindAll = KindUserDeprecated<<1 - 1

// Tag classifies how the capture layer must treat a kind once it is logged.
type Tag int

const (
	// Ordinary faults are logged and execution continues.
	Ordinary Tag = iota
	// Fatal faults are logged and then abort the current operation.
	Fatal
)

// kindNames maps every known kind to its stable name.
var kindNames = map[Kind]string{
	KindError:            "E_ERROR",
	KindWarning:          "E_WARNING",
	KindParse:            "E_PARSE",
	KindNotice:           "E_NOTICE",
	KindCoreError:        "E_CORE_ERROR",
	KindCoreWarning:      "E_CORE_WARNING",
	KindCompileError:     "E_COMPILE_ERROR",
	KindCompileWarning:   "E_COMPILE_WARNING",
	KindUserError:        "E_USER_ERROR",
	KindUserWarning:      "E_USER_WARNING",
	KindUserNotice:       "E_USER_NOTICE",
	KindStrict:           "E_STRICT",
	KindRecoverableError: "E_RECOVERABLE_ERROR",
	KindDeprecated:       "E_DEPRECATED",
	KindUserDeprecated:   "E_USER_DEPRECATED",
}

// Kinds returns every known kind in ascending bit order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames))
	for k := KindError; k <= KindUserDeprecated; k <<= 1 {
		out = append(out, k)
	}
	return out
}

// String returns the stable name of k. Unknown kinds render as KIND_<n>,
// and 0 renders as EXCEPTION.
func (k Kind) String() string {
	if k == 0 {
		return "EXCEPTION"
	}
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND_%d", int(k))
}

// Tag reports whether k is ordinary or fatal.
func (k Kind) Tag() Tag {
	switch k {
	case KindRecoverableError:
		return Fatal
	default:
		return Ordinary
	}
}

// In reports whether k is selected by mask. Code 0 (generic exception) is
// treated as KindError.
func (k Kind) In(mask Kind) bool {
	if k == 0 {
		k = KindError
	}
	return k&mask != 0
}

// ParseKind accepts a name such as "E_WARNING" (case-insensitive, prefix
// optional) or a decimal number.
func ParseKind(s string) (Kind, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(name, "E_") {
		name = "E_" + name
	}
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return Kind(n), nil
	}
	return 0, fmt.Errorf("unknown fault kind %q", s)
}

// ParseMask parses a "|" separated list of kinds, e.g. "E_ALL",
// "E_ERROR|E_WARNING" or "32767".
func ParseMask(s string) (Kind, error) {
	var mask Kind
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.EqualFold(part, "E_ALL") || strings.EqualFold(part, "ALL") {
			mask |= KindAll
			continue
		}
		k, err := ParseKind(part)
		if err != nil {
			return 0, err
		}
		mask |= k
	}
	return mask, nil
}
