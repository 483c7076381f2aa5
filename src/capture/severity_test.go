package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"faultcapture/src/fault"
	"faultcapture/src/logs"
)

func TestSeverityCoversEveryKind(t *testing.T) {
	assert.Len(t, severities, len(fault.Kinds()))
	for _, k := range fault.Kinds() {
		_, ok := severities[k]
		assert.True(t, ok, k.String())
	}
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		kind     fault.Kind
		expected logs.Level
	}{
		{fault.KindError, logs.LevelCritical},
		{fault.KindParse, logs.LevelAlert},
		{fault.KindUserError, logs.LevelError},
		{fault.KindRecoverableError, logs.LevelError},
		{fault.KindDeprecated, logs.LevelNotice},
		{fault.Kind(0), logs.LevelCritical},
		{fault.Kind(1 << 20), logs.LevelCritical},
	}

	for _, tt := range tests {
		if got := Severity(tt.kind); got != tt.expected {
			t.Fatalf("expected %s -> %s, got %s", tt.kind, tt.expected, got)
		}
	}
}

func TestConfigMask(t *testing.T) {
	t.Setenv("ERROR_REPORTING", "E_ERROR|E_WARNING")

	mask, err := GetConfig().Mask()
	assert.NoError(t, err)
	assert.Equal(t, fault.KindError|fault.KindWarning, mask)

	_, err = Config{ErrorReporting: "E_NOPE"}.Mask()
	assert.Error(t, err)
}
