package capture

import (
	"faultcapture/src/fault"
	"faultcapture/src/logs"
)

var severities = map[fault.Kind]logs.Level{
	fault.KindError:            logs.LevelCritical,
	fault.KindWarning:          logs.LevelWarning,
	fault.KindParse:            logs.LevelAlert,
	fault.KindNotice:           logs.LevelNotice,
	fault.KindCoreError:        logs.LevelCritical,
	fault.KindCoreWarning:      logs.LevelWarning,
	fault.KindCompileError:     logs.LevelAlert,
	fault.KindCompileWarning:   logs.LevelWarning,
	fault.KindUserError:        logs.LevelError,
	fault.KindUserWarning:      logs.LevelWarning,
	fault.KindUserNotice:       logs.LevelNotice,
	fault.KindStrict:           logs.LevelNotice,
	fault.KindRecoverableError: logs.LevelError,
	fault.KindDeprecated:       logs.LevelNotice,
	fault.KindUserDeprecated:   logs.LevelNotice,
}

// Severity returns the level a fault kind is logged at. Unknown kinds are
// critical.
func Severity(kind fault.Kind) logs.Level {
	if level, ok := severities[kind]; ok {
		return level
	}
	return logs.LevelCritical
}
